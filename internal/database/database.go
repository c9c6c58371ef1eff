package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// DefaultMigrations is the migrations source used by the binaries
const DefaultMigrations = "file://migrations"

// RetryPolicy controls how Connect waits for the database
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry waits up to a minute for PostgreSQL to come up
var DefaultRetry = RetryPolicy{Attempts: 30, Delay: 2 * time.Second}

// Connect connects to PostgreSQL with retries
func Connect(dsn string, retry RetryPolicy, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	attempts := max(retry.Attempts, 1)
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(retry.Delay)
		}

		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}

// Migrate applies every pending migration from source
func Migrate(db *sql.DB, source string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
