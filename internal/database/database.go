package database

import (
	"fmt"
	"strings"

	"starship-dashboard/internal/logging"
	"starship-dashboard/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database named by rawURL and runs migrations.
//
// Accepted forms: sqlite:///relative.db, sqlite:////abs/path.db, sqlite://:memory:,
// a bare file path, and postgres:// or postgresql:// URLs.
func Open(rawURL string, log zerolog.Logger) (*gorm.DB, error) {
	dialector, inMemory, err := dialectorFor(rawURL)
	if err != nil {
		return nil, err
	}

	gormLog := logging.NewGormLogger(log)
	if log.GetLevel() <= zerolog.DebugLevel {
		gormLog = gormLog.LogMode(gormlogger.Info).(*logging.GormLogger)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if inMemory {
		// Every new connection to :memory: would get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema. The join table is registered first so
// it gets the composite primary key of models.StarshipManufacturer.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Starship{}, "Manufacturers", &models.StarshipManufacturer{}); err != nil {
		return fmt.Errorf("failed to set up join table: %w", err)
	}
	err := db.AutoMigrate(
		&models.User{},
		&models.Manufacturer{},
		&models.Starship{},
		&models.StarshipManufacturer{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func dialectorFor(rawURL string) (gorm.Dialector, bool, error) {
	raw := strings.TrimSpace(rawURL)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return postgres.Open(raw), false, nil
	case raw == ":memory:", raw == "sqlite://:memory:", raw == "sqlite:///:memory:":
		return sqlite.Open(":memory:"), true, nil
	case strings.HasPrefix(raw, "sqlite:///"):
		path := strings.TrimPrefix(raw, "sqlite:///")
		if path == "" {
			return nil, false, fmt.Errorf("sqlite url %q has no path", raw)
		}
		return sqlite.Open(path), false, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return nil, false, fmt.Errorf("sqlite url %q has no path", raw)
		}
		return sqlite.Open(path), false, nil
	case raw == "":
		return nil, false, fmt.Errorf("database url is empty")
	case strings.Contains(raw, "://"):
		return nil, false, fmt.Errorf("unsupported database url scheme in %q", raw)
	default:
		return sqlite.Open(raw), false, nil
	}
}
