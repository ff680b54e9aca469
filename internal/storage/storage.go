package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/recoverylog/internal/journal"
	"github.com/dmitrijs2005/recoverylog/internal/profiles"
)

// Store is an opened database plus the repositories bound to it.
type Store struct {
	DB       *sql.DB
	Profiles profiles.Repository
	Entries  journal.Repository
}

// Open connects to the database named by driver, applies pending migrations
// and returns the bound repositories.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	m, err := NewRepositoryManager(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(sqlDriverName(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{
		DB:       db,
		Profiles: m.Profiles(db),
		Entries:  m.Entries(db),
	}, nil
}

// sqlDriverName maps the configured driver to the database/sql driver name.
func sqlDriverName(driver string) string {
	if driver == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}
