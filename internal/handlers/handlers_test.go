package handlers_test

import (
	"context"
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
	"starship-dashboard/internal/models"
	"starship-dashboard/internal/routes"
	"starship-dashboard/internal/testutil"
	"starship-dashboard/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T) (*browser, *database.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := testutil.NewStore(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	h := handlers.New(handlers.Deps{
		Store:   store,
		Catalog: catalog.New(store, 0),
		Tokens:  tokens,
	})
	r := routes.SetupRoutes(routes.Deps{
		Handler:   h,
		Tokens:    tokens,
		Store:     store,
		Templates: tmpl,
		Logger:    zerolog.Nop(),
	})
	return &browser{t: t, router: r, cookies: make(map[string]*http.Cookie)}, store
}

// do sends a request carrying the stored cookies and keeps the ones set.
func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func credentials(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func seedCatalog(t *testing.T, store *database.Store) {
	t.Helper()
	cygnus := &models.Manufacturer{Name: "Cygnus Spaceworks"}
	corellian := &models.Manufacturer{Name: "Corellian Engineering Corporation"}
	err := store.CommitBatch(context.Background(), &database.Batch{
		Manufacturers: []*models.Manufacturer{cygnus, corellian},
		Starships: []database.StagedStarship{
			{Starship: &models.Starship{UID: "2", Name: "CR90 corvette", Model: "CR90"}, Manufacturers: []*models.Manufacturer{corellian}},
			{Starship: &models.Starship{UID: "17", Name: "Rebel transport", Model: "GR-75"}, Manufacturers: []*models.Manufacturer{cygnus}},
		},
	})
	require.NoError(t, err)
}
