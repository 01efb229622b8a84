package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
)

var ErrUnsupportedURL = errors.New("unsupported database URL")

// Open picks the gorm dialector for a DATABASE_URL:
// postgres:// and postgresql:// use Postgres, sqlite://<path> and file: use SQLite.
func Open(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("%w: %q has no path", ErrUnsupportedURL, url)
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(url), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, url)
	}
}

// Connect opens the history database and migrates it. An empty URL means
// history is disabled and returns a nil DB.
func Connect(url string, debug bool) (*gorm.DB, error) {
	if url == "" {
		logger.Info("Generation history disabled", logger.Fields{"reason": "DATABASE_URL not set"})
		return nil, nil
	}

	dialector, err := Open(url)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Generation history enabled", logger.Fields{"dialect": dialector.Name()})
	return db, nil
}

// Migrate creates or updates the history tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.GenerationRecord{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Backend names the database in use, "disabled" for none
func Backend(db *gorm.DB) string {
	if db == nil {
		return "disabled"
	}
	return db.Dialector.Name()
}
