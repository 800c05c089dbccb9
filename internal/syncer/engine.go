// Package syncer mirrors the upstream starship catalog into local storage.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starship-dashboard/internal/cache"
	"starship-dashboard/internal/database"
	"starship-dashboard/internal/logging"
	"starship-dashboard/internal/manufacturer"
	"starship-dashboard/internal/metrics"
	"starship-dashboard/internal/models"
	"starship-dashboard/internal/swapi"

	"github.com/rs/zerolog"
)

// Pager walks a paginated upstream listing. *swapi.Client implements it.
type Pager interface {
	Walk(ctx context.Context, startURL string, fn func(*swapi.Page) error) (swapi.Summary, error)
}

// Result summarises one synchronization run.
type Result struct {
	Pages                int
	Records              int
	Created              int
	Skipped              int
	ManufacturersCreated int
	Links                int
	// StopStatus is the upstream status that ended pagination early, or 0.
	StopStatus int
}

// Engine runs synchronization. It is safe to call Synchronize repeatedly:
// records whose uid is already stored are skipped.
type Engine struct {
	store    *database.Store
	pager    Pager
	startURL string
	log      zerolog.Logger
}

// New returns an Engine that starts pagination at startURL.
func New(store *database.Store, pager Pager, startURL string, log zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		pager:    pager,
		startURL: startURL,
		log:      logging.Component(log, "syncer"),
	}
}

// run is the in-memory state of one synchronization run.
type run struct {
	ctx   context.Context
	store *database.Store
	batch database.Batch

	// canonical name -> manufacturer, stored or staged during this run
	makers *cache.SimpleCache[string, *models.Manufacturer]
	// uids staged during this run
	staged map[string]struct{}

	res Result
	log zerolog.Logger
}

// Synchronize fetches every upstream page, stages new starships and
// manufacturers, and commits them in a single transaction.
//
// Errors are *swapi.FetchError, *swapi.DecodeError or *CommitError (or a
// storage lookup error). Nothing is written unless the commit succeeds.
func (e *Engine) Synchronize(ctx context.Context) (Result, error) {
	start := time.Now()
	r := &run{
		ctx:    ctx,
		store:  e.store,
		makers: cache.NewSimpleCache[string, *models.Manufacturer](cache.Options{}),
		staged: make(map[string]struct{}),
		log:    e.log,
	}

	err := e.synchronize(r)
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	metrics.SyncRuns.WithLabelValues(Kind(err)).Inc()
	if err != nil {
		return r.res, err
	}

	metrics.SyncRecords.WithLabelValues("created").Add(float64(r.res.Created))
	metrics.SyncRecords.WithLabelValues("skipped").Add(float64(r.res.Skipped))
	metrics.SyncManufacturersCreated.Add(float64(r.res.ManufacturersCreated))
	e.log.Info().
		Int("pages", r.res.Pages).
		Int("records", r.res.Records).
		Int("created", r.res.Created).
		Int("skipped", r.res.Skipped).
		Int("manufacturers_created", r.res.ManufacturersCreated).
		Dur("elapsed", time.Since(start)).
		Msg("synchronization finished")
	return r.res, nil
}

func (e *Engine) synchronize(r *run) error {
	sum, err := e.pager.Walk(r.ctx, e.startURL, func(p *swapi.Page) error {
		for i := range p.Results {
			if err := r.stage(&p.Results[i]); err != nil {
				return err
			}
		}
		return nil
	})
	r.res.Pages = sum.Pages
	r.res.StopStatus = sum.StopStatus
	if err != nil {
		return err
	}

	if r.batch.Empty() {
		e.log.Info().Int("pages", r.res.Pages).Int("skipped", r.res.Skipped).Msg("nothing new to store")
		return nil
	}
	if err := e.store.CommitBatch(r.ctx, &r.batch); err != nil {
		return &CommitError{Err: err}
	}
	r.res.Created = len(r.batch.Starships)
	r.res.ManufacturersCreated = len(r.batch.Manufacturers)
	return nil
}

// stage adds one record to the batch unless its uid is already known.
func (r *run) stage(rec *swapi.Record) error {
	r.res.Records++

	if rec.UID == "" {
		r.res.Skipped++
		r.log.Warn().Str("name", rec.Properties.Name).Msg("record without uid skipped")
		return nil
	}
	if _, dup := r.staged[rec.UID]; dup {
		r.res.Skipped++
		return nil
	}
	exists, err := r.store.StarshipExists(r.ctx, rec.UID)
	if err != nil {
		return err
	}
	if exists {
		r.res.Skipped++
		return nil
	}

	ship := toStarship(rec)
	staged := database.StagedStarship{Starship: ship}
	linked := make(map[string]struct{})
	for _, name := range manufacturer.Normalize(rec.Properties.Manufacturer) {
		if _, ok := linked[name]; ok {
			continue
		}
		m, err := r.resolve(name)
		if err != nil {
			return err
		}
		linked[name] = struct{}{}
		staged.Manufacturers = append(staged.Manufacturers, m)
	}

	r.staged[rec.UID] = struct{}{}
	r.batch.Starships = append(r.batch.Starships, staged)
	r.res.Links += len(staged.Manufacturers)
	return nil
}

// resolve returns the manufacturer named name, reusing a stored row or one
// staged earlier in this run, and staging a new one otherwise.
func (r *run) resolve(name string) (*models.Manufacturer, error) {
	return r.makers.GetOrLoad(name, 0, func() (*models.Manufacturer, error) {
		m, err := r.store.FindManufacturerByName(r.ctx, name)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("resolve manufacturer: %w", err)
		}
		m = &models.Manufacturer{Name: name}
		r.batch.Manufacturers = append(r.batch.Manufacturers, m)
		return m, nil
	})
}

func toStarship(rec *swapi.Record) *models.Starship {
	p := rec.Properties
	return &models.Starship{
		UID:                  rec.UID,
		Name:                 p.Name,
		Model:                p.Model,
		CostInCredits:        p.CostInCredits,
		Length:               p.Length,
		MaxAtmospheringSpeed: p.MaxAtmospheringSpeed,
		Crew:                 p.Crew,
		Passengers:           p.Passengers,
		CargoCapacity:        p.CargoCapacity,
		Consumables:          p.Consumables,
		HyperdriveRating:     p.HyperdriveRating,
		MGLT:                 p.MGLT,
		StarshipClass:        p.StarshipClass,
		URL:                  p.URL,
	}
}
