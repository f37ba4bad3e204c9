package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"nexusiq/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsLockKey = "nexusiq_migrations_lock"

// RunMigrations applies all pending migrations to the database.
func RunMigrations(db *sql.DB, log *logger.Logger) error {
	// Acquire an advisory lock to prevent concurrent migrations between instances.
	var lockAcquired bool
	err := db.QueryRow("SELECT pg_try_advisory_lock(hashtext($1))", migrationsLockKey).Scan(&lockAcquired)
	if err != nil {
		return fmt.Errorf("could not acquire advisory lock: %w", err)
	}

	if !lockAcquired {
		log.Infof("Another process is already running migrations, skipping...")
		return nil
	}

	defer func() {
		var lockReleased bool
		err := db.QueryRow("SELECT pg_advisory_unlock(hashtext($1))", migrationsLockKey).Scan(&lockReleased)
		if err != nil || !lockReleased {
			log.Errorf("Could not release the migrations advisory lock: %v", err)
		}
	}()

	source, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not read embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	log.Infof("Starting migrations...")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Infof("No migrations to run.")
			return nil
		}
		return fmt.Errorf("could not run migrations: %w", err)
	}
	log.Infof("Migrations completed successfully.")

	return nil
}
