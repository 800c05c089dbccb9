// Package app wires configuration, storage, synchronization and the HTTP
// surface into one explicit application context.
package app

import (
	"context"
	"fmt"

	"starship-dashboard/internal/auth"
	"starship-dashboard/internal/catalog"
	"starship-dashboard/internal/config"
	"starship-dashboard/internal/database"
	"starship-dashboard/internal/handlers"
	"starship-dashboard/internal/logging"
	"starship-dashboard/internal/middleware"
	"starship-dashboard/internal/routes"
	"starship-dashboard/internal/swapi"
	"starship-dashboard/internal/syncer"
	"starship-dashboard/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// App holds every long-lived collaborator. Nothing here is global.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	DB      *gorm.DB
	Store   *database.Store
	Syncer  *syncer.Engine
	Catalog *catalog.Service
	Tokens  *auth.TokenManager
}

// New opens storage (creating the schema) and builds the components. A
// returned error means the process cannot serve.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	db, err := database.Open(cfg.DatabaseURL, logging.Component(logger, "database"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	store := database.NewStore(db)

	client := swapi.NewClient(swapi.Options{
		Timeout:         cfg.UpstreamTimeout,
		BreakerFailures: cfg.UpstreamBreakerFailures,
	}, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Store:   store,
		Syncer:  syncer.New(store, client, cfg.StarshipsEndpoint(), logger),
		Catalog: catalog.New(store, cfg.CatalogCacheTTL),
		Tokens:  auth.NewTokenManager(cfg.SecretKey, cfg.SessionTTL),
	}, nil
}

// EnsureSeeded synchronizes the catalog when no starship is stored yet.
//
// A failed synchronization is logged and, unless SYNC_HALT_ON_FAILURE is set,
// swallowed so the dashboard still serves whatever storage holds. The
// returned bool reports whether a synchronization ran.
func (a *App) EnsureSeeded(ctx context.Context) (bool, error) {
	n, err := a.Store.CountStarships(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check seed state: %w", err)
	}
	if n > 0 {
		a.Logger.Info().Int64("starships", n).Msg("catalog already seeded, skipping synchronization")
		return false, nil
	}

	_, err = a.Syncer.Synchronize(ctx)
	a.Catalog.Invalidate()
	if err != nil {
		a.Logger.Error().Err(err).Str("kind", syncer.Kind(err)).Msg("starship synchronization failed")
		if a.Config.SyncHaltOnFailure {
			return true, fmt.Errorf("starship synchronization failed: %w", err)
		}
		return true, nil
	}

	ships, err := a.Store.CountStarships(ctx)
	if err != nil {
		return true, err
	}
	makers, err := a.Store.CountManufacturers(ctx)
	if err != nil {
		return true, err
	}
	a.Logger.Info().Int64("starships", ships).Int64("manufacturers", makers).
		Msgf("Loaded %d starships and %d manufacturers", ships, makers)
	return true, nil
}

// Router builds the HTTP handler.
func (a *App) Router() (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	h := handlers.New(handlers.Deps{
		Store:         a.Store,
		Catalog:       a.Catalog,
		Tokens:        a.Tokens,
		SecureCookies: a.Config.IsProduction(),
	})
	var limiter *middleware.RateLimiter
	if a.Config.AuthRatePerMinute > 0 {
		limiter = middleware.NewRateLimiter(a.Config.AuthRatePerMinute, a.Config.AuthRateBurst)
	}
	return routes.SetupRoutes(routes.Deps{
		Handler:     h,
		Tokens:      a.Tokens,
		Store:       a.Store,
		Templates:   tmpl,
		Logger:      a.Logger,
		AuthLimiter: limiter,
	}), nil
}

// Close releases storage.
func (a *App) Close() error {
	return a.Store.Close()
}
