package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"starship-dashboard/internal/auth"
	"starship-dashboard/internal/catalog"
	"starship-dashboard/internal/database"
	"starship-dashboard/internal/handlers"
	"starship-dashboard/internal/middleware"
	"starship-dashboard/internal/testutil"
	"starship-dashboard/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *database.Store) {
	t.Helper()
	return newRouterWithLimiter(t, nil)
}

func newRouterWithLimiter(t *testing.T, limiter *middleware.RateLimiter) (*gin.Engine, *database.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := testutil.NewStore(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := SetupRoutes(Deps{
		Handler:   handlers.New(handlers.Deps{Store: store, Catalog: catalog.New(store, 0), Tokens: tokens}),
		Tokens:    tokens,
		Store:     store,
		Templates: tmpl,
		Logger:    zerolog.Nop(),

		AuthLimiter: limiter,
	})
	return r, store
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealth_DatabaseDown(t *testing.T) {
	r, store := newRouter(t)
	require.NoError(t, store.Close())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newRouter(t)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRedirect(t *testing.T) {
	r, _ := newRouter(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodPost, "/dashboard"},
		{http.MethodGet, "/logout"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		require.Equal(t, http.StatusFound, w.Code, tc.path)
		require.Equal(t, "/login", w.Header().Get("Location"), tc.path)
	}
}

func TestPublicPages(t *testing.T) {
	r, _ := newRouter(t)
	for _, path := range []string{"/", "/register", "/login"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		require.Contains(t, w.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestLoginIsThrottled(t *testing.T) {
	r, _ := newRouterWithLimiter(t, middleware.NewRateLimiter(1, 2))
	form := url.Values{"username": {"alice"}, "password": {"wrong"}}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	// viewing the form is never throttled
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
