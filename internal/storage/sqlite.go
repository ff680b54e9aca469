package storage

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/recoverylog/internal/dbx"
	"github.com/dmitrijs2005/recoverylog/internal/journal"
	"github.com/dmitrijs2005/recoverylog/internal/profiles"
	"github.com/dmitrijs2005/recoverylog/internal/storage/migrations"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations.
type SQLiteRepositoryManager struct{}

// Profiles returns a profiles.Repository bound to the provided database.
func (m *SQLiteRepositoryManager) Profiles(db *sql.DB) profiles.Repository {
	return profiles.NewSQLiteRepository(db)
}

// Entries returns a journal.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Entries(db dbx.DBTX) journal.Repository {
	return journal.NewSQLiteRepository(db)
}

// RunMigrations sets up goose with the embedded SQLite migrations and runs
// them against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "sqlite")
}
