// Package db opens the booking store.
package db

import (
	"database/sql"
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/infra/db/model"
	_ "modernc.org/sqlite" //sqlite
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver   string `validate:"omitempty,oneof=postgres sqlite"`
	Host     string `validate:"required_unless=Driver sqlite"`
	Port     string
	User     string
	Name     string `validate:"required_unless=Driver sqlite"`
	Password string
	Path     string `validate:"required_if=Driver sqlite"`
}

// Open connects to postgres, or to a local sqlite snapshot of the booking store.
func Open(cfg Config) (*gorm.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		DBURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.Password)
		log.Infof("[DB] Connecting to postgres %s:%s/%s as %s", cfg.Host, cfg.Port, cfg.Name, cfg.User)

		db, err := gorm.Open("postgres", DBURI)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to database %s: %w", cfg.Name, err)
		}
		return db, nil

	case DriverSQLite:
		log.Infof("[DB] Opening sqlite snapshot %s", cfg.Path)

		sqlDB, err := sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("cannot open sqlite %s: %w", cfg.Path, err)
		}
		// single writer
		sqlDB.SetMaxOpenConns(1)

		// gorm's built-in sqlite3 dialect over the pure-Go driver
		db, err := gorm.Open("sqlite3", sqlDB)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("cannot connect to sqlite %s: %w", cfg.Path, err)
		}
		return db, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Migrate creates the run log tables. Booking tables belong to the ingestion pipeline and
// are only created when withBookings is set, for local snapshots and tests.
func Migrate(db *gorm.DB, withBookings bool) error {
	models := []interface{}{
		&model.ReconciliationRun{},
		&model.ReconciliationRunArtifact{},
	}
	if withBookings {
		models = append(models, &model.Booking{}, &model.BookingEmail{})
	}

	if err := db.AutoMigrate(models...).Error; err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}
