// Package catalog is the read side of the dashboard: manufacturer options and
// starship listings, optionally filtered by manufacturer.
package catalog

import (
	"context"
	"errors"
	"time"

	"starship-dashboard/internal/cache"
	"starship-dashboard/internal/database"
	"starship-dashboard/internal/models"
)

// All is the filter value that selects every starship.
const All = "all"

const manufacturersKey = "manufacturers"

// Service answers dashboard queries. It is safe for concurrent use.
type Service struct {
	store *database.Store
	ttl   time.Duration
	cache *cache.SimpleCache[string, []models.Manufacturer]
}

// New returns a Service reading from store. Manufacturer listings are
// memoized for ttl; a non-positive ttl disables memoization.
func New(store *database.Store, ttl time.Duration) *Service {
	return &Service{
		store: store,
		ttl:   ttl,
		cache: cache.NewSimpleCache[string, []models.Manufacturer](cache.Options{ConcurrencySafe: true}),
	}
}

// ListManufacturers returns every manufacturer ordered by name.
func (s *Service) ListManufacturers(ctx context.Context) ([]models.Manufacturer, error) {
	if s.ttl <= 0 {
		return s.store.ListManufacturers(ctx)
	}
	return s.cache.GetOrLoad(manufacturersKey, s.ttl, func() ([]models.Manufacturer, error) {
		return s.store.ListManufacturers(ctx)
	})
}

// ListStarships returns every starship when filter is All, otherwise the
// starships linked to the manufacturer named exactly filter. An unknown
// manufacturer yields an empty slice. Results are ordered by name.
func (s *Service) ListStarships(ctx context.Context, filter string) ([]models.Starship, error) {
	if filter == All {
		return s.store.ListStarships(ctx)
	}

	m, err := s.store.FindManufacturerByName(ctx, filter)
	if errors.Is(err, database.ErrNotFound) {
		return []models.Starship{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.store.StarshipsOf(ctx, m.ID)
}

// Invalidate drops memoized results, e.g. after a synchronization run.
func (s *Service) Invalidate() {
	s.cache.Clear()
}
