package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"starship-dashboard/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func protectedRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireSession(tokens))
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, "%d:%s", c.GetUint(ContextUserID), CurrentUsername(c))
	})
	return r
}

func TestRequireSession_Success(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r := protectedRouter(tokens)

	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1:alice", w.Body.String())
}

func TestRequireSession_MissingCookie(t *testing.T) {
	r := protectedRouter(auth.NewTokenManager("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireSession_ForgedCookie(t *testing.T) {
	r := protectedRouter(auth.NewTokenManager("test-secret", time.Hour))

	token, err := auth.NewTokenManager("other-secret", time.Hour).Issue(1, "mallory")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
	require.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"=;")
}
