package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// RunMigrations applies any pending schema migrations from migrationsPath.
// Safe to call on every startup; an up-to-date database is a no-op.
func RunMigrations(db *sql.DB, migrationsPath string, logger *zap.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migration instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("Closing migration instance", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	before, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", verr)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty; resolve manually before starting", before)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Schema up to date", zap.Uint("version", before))
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	after, _, _ := m.Version()
	logger.Info("Applied schema migrations", zap.Uint("from", before), zap.Uint("to", after))
	return nil
}
