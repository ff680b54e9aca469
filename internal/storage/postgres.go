package storage

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/recoverylog/internal/dbx"
	"github.com/dmitrijs2005/recoverylog/internal/journal"
	"github.com/dmitrijs2005/recoverylog/internal/profiles"
	"github.com/dmitrijs2005/recoverylog/internal/storage/migrations"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations.
type PostgresRepositoryManager struct{}

// Profiles returns a profiles.Repository bound to the provided database.
func (m *PostgresRepositoryManager) Profiles(db *sql.DB) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

// Entries returns a journal.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) journal.Repository {
	return journal.NewPostgresRepository(db)
}

// RunMigrations sets up goose with the embedded PostgreSQL migrations and
// runs them against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "postgres")
}
