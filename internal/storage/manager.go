// Package storage wires database connections, embedded schema migrations
// and repository construction behind a driver-keyed manager. SQLite covers
// the default local setup, PostgreSQL a shared one.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/recoverylog/internal/dbx"
	"github.com/dmitrijs2005/recoverylog/internal/journal"
	"github.com/dmitrijs2005/recoverylog/internal/profiles"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned for a driver name other than the supported ones.
var ErrUnknownDriver = errors.New("unknown database driver")

// RepositoryManager vends repository implementations for one database
// driver and exposes a schema migration hook. Profiles takes the full
// *sql.DB because the guarded credential write runs its own transaction;
// Entries accepts any DBTX so callers can bind it to a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Profiles(db *sql.DB) profiles.Repository
	Entries(db dbx.DBTX) journal.Repository
}

// NewRepositoryManager returns the manager for the given driver name.
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	case DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}
