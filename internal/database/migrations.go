package database

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// ArchiveMigrator brings the report-archive schema up to date at startup.
// It only migrates forward; rollbacks are an operational task run with the
// migrate CLI against the same migrations directory.
type ArchiveMigrator struct {
	migrate *migrate.Migrate
	log     *logrus.Logger
}

// NewArchiveMigrator creates a migrator for the archive at databaseURL,
// reading migration files from migrationsPath.
func NewArchiveMigrator(databaseURL, migrationsPath string, logger *logrus.Logger) (*ArchiveMigrator, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening archive migrations: %w", err)
	}
	return &ArchiveMigrator{migrate: m, log: logger}, nil
}

// Up applies all pending archive migrations. An already-current schema is
// not an error.
func (am *ArchiveMigrator) Up() error {
	if err := am.migrate.Up(); err != nil {
		if err == migrate.ErrNoChange {
			am.log.Info("Report archive schema already current")
			return nil
		}
		return fmt.Errorf("migrating report archive: %w", err)
	}

	version, dirty, err := am.migrate.Version()
	if err != nil {
		am.log.WithError(err).Warn("Could not read archive schema version")
		return nil
	}
	am.log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Report archive schema migrated")
	return nil
}

// Close releases the migration source and database handles.
func (am *ArchiveMigrator) Close() error {
	sourceErr, dbErr := am.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("closing migration database: %w", dbErr)
	}
	return nil
}
