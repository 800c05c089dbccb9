package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"starship-dashboard/internal/auth"
	"starship-dashboard/internal/handlers"
	"starship-dashboard/internal/middleware"
	"starship-dashboard/internal/models"

	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	b, _ := newBrowser(t)
	w := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Starships of the galaxy")
}

func TestRegister_Success(t *testing.T) {
	b, store := newBrowser(t)

	w := b.do(http.MethodPost, "/register", credentials("alice", "hunter2"))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	u, err := store.FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", u.PasswordHash)
	require.True(t, auth.CheckPassword(u.PasswordHash, "hunter2"))

	w = b.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), handlers.MsgRegistered)

	// flash is shown once
	w = b.do(http.MethodGet, "/login", nil)
	require.NotContains(t, w.Body.String(), handlers.MsgRegistered)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	b, store := newBrowser(t)
	require.Equal(t, http.StatusFound, b.do(http.MethodPost, "/register", credentials("alice", "one")).Code)

	w := b.do(http.MethodPost, "/register", credentials("alice", "two"))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/register", w.Header().Get("Location"))

	w = b.do(http.MethodGet, "/register", nil)
	require.Contains(t, w.Body.String(), handlers.MsgUsernameTaken)

	var n int64
	require.NoError(t, store.DB().Model(&models.User{}).Count(&n).Error)
	require.EqualValues(t, 1, n)

	u, err := store.FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, auth.CheckPassword(u.PasswordHash, "one"))
}

func TestRegister_MissingFields(t *testing.T) {
	b, _ := newBrowser(t)
	w := b.do(http.MethodPost, "/register", credentials("alice", ""))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b, _ := newBrowser(t)
	require.Equal(t, http.StatusFound, b.do(http.MethodPost, "/register", credentials("alice", "hunter2")).Code)

	for _, form := range []url.Values{
		credentials("alice", "wrong"),
		credentials("nobody", "hunter2"),
		credentials("", ""),
	} {
		w := b.do(http.MethodPost, "/login", form)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), handlers.MsgInvalidCredentials)
		require.NotContains(t, b.cookies, middleware.SessionCookie)
	}
}
