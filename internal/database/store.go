// Package database owns the relational store: connection setup, schema
// migration and every query the rest of the application runs.
package database

import (
	"context"
	"errors"
	"fmt"

	"starship-dashboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// Store wraps a *gorm.DB. A Store obtained from Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and shutdown.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside one database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CountStarships returns the number of stored starships.
func (s *Store) CountStarships(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Starship{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count starships: %w", err)
	}
	return n, nil
}

// CountManufacturers returns the number of stored manufacturers.
func (s *Store) CountManufacturers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Manufacturer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count manufacturers: %w", err)
	}
	return n, nil
}

// StarshipExists reports whether a starship with the external uid is stored.
func (s *Store) StarshipExists(ctx context.Context, uid string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Starship{}).Where("uid = ?", uid).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up starship %q: %w", uid, err)
	}
	return n > 0, nil
}

// FindManufacturerByName looks up a manufacturer by exact name.
func (s *Store) FindManufacturerByName(ctx context.Context, name string) (*models.Manufacturer, error) {
	var m models.Manufacturer
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up manufacturer %q: %w", name, err)
	}
	return &m, nil
}

// ListManufacturers returns every manufacturer ordered by name.
func (s *Store) ListManufacturers(ctx context.Context) ([]models.Manufacturer, error) {
	var out []models.Manufacturer
	if err := s.db.WithContext(ctx).Order("name asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list manufacturers: %w", err)
	}
	return out, nil
}

// ListStarships returns every starship ordered by name, manufacturers preloaded.
func (s *Store) ListStarships(ctx context.Context) ([]models.Starship, error) {
	var out []models.Starship
	err := s.db.WithContext(ctx).
		Preload("Manufacturers", orderByName).
		Order("starships.name asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list starships: %w", err)
	}
	return out, nil
}

// Link records that manufacturerID built starshipID. Linking an existing pair is a no-op.
func (s *Store) Link(ctx context.Context, starshipID, manufacturerID uint) error {
	row := models.StarshipManufacturer{StarshipID: starshipID, ManufacturerID: manufacturerID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to link starship %d to manufacturer %d: %w", starshipID, manufacturerID, err)
	}
	return nil
}

// ManufacturersOf returns the manufacturers linked to a starship, ordered by name.
func (s *Store) ManufacturersOf(ctx context.Context, starshipID uint) ([]models.Manufacturer, error) {
	var out []models.Manufacturer
	err := s.db.WithContext(ctx).
		Joins("JOIN starship_manufacturers ON starship_manufacturers.manufacturer_id = manufacturers.id").
		Where("starship_manufacturers.starship_id = ?", starshipID).
		Order("manufacturers.name asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list manufacturers of starship %d: %w", starshipID, err)
	}
	return out, nil
}

// StarshipsOf returns the starships linked to a manufacturer, ordered by name.
func (s *Store) StarshipsOf(ctx context.Context, manufacturerID uint) ([]models.Starship, error) {
	var out []models.Starship
	err := s.db.WithContext(ctx).
		Preload("Manufacturers", orderByName).
		Joins("JOIN starship_manufacturers ON starship_manufacturers.starship_id = starships.id").
		Where("starship_manufacturers.manufacturer_id = ?", manufacturerID).
		Order("starships.name asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list starships of manufacturer %d: %w", manufacturerID, err)
	}
	return out, nil
}

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("manufacturers.name asc")
}
