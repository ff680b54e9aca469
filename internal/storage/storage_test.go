package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recoverylog/internal/journal"
)

func newMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewRepositoryManager(t *testing.T) {
	m, err := NewRepositoryManager(DriverSQLite)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepositoryManager{}, m)

	m, err = NewRepositoryManager(DriverPostgres)
	require.NoError(t, err)
	assert.IsType(t, &PostgresRepositoryManager{}, m)

	_, err = NewRepositoryManager("oracle")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestManagers_VendRepositories(t *testing.T) {
	db := newMockDB(t)

	for _, driver := range []string{DriverSQLite, DriverPostgres} {
		m, err := NewRepositoryManager(driver)
		require.NoError(t, err)
		assert.NotNil(t, m.Profiles(db), driver)
		assert.NotNil(t, m.Entries(db), driver)
	}
}

func TestRunMigrations_Dirs(t *testing.T) {
	db := newMockDB(t)

	var gotDir string
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	defer func() { gooseUpContext = orig }()

	sm := &SQLiteRepositoryManager{}
	require.NoError(t, sm.RunMigrations(context.Background(), db))
	assert.Equal(t, "sqlite", gotDir)

	pm := &PostgresRepositoryManager{}
	require.NoError(t, pm.RunMigrations(context.Background(), db))
	assert.Equal(t, "postgres", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db := newMockDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &SQLiteRepositoryManager{}
	assert.Error(t, m.RunMigrations(context.Background(), db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := "file:storage_open_test?mode=memory&cache=shared"

	store, err := Open(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	defer store.Close()

	// migrations applied
	var name string
	err = store.DB.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='goose_db_version'`).Scan(&name)
	require.NoError(t, err)

	// repositories work end to end against the migrated schema
	require.NoError(t, store.Profiles.SaveCredentials(ctx, "u1", []byte("salt"), []byte("verifier")))
	p, err := store.Profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, p.VaultSet())

	now := time.Now().UTC()
	e := &journal.Entry{ID: "e1", UserID: "u1", Content: "hello", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Entries.CreateOrUpdate(ctx, e))
	got, err := store.Entries.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)

	// reopening the same database is a no-op for migrations
	again, err := Open(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
