// Package dbtest opens throwaway, fully migrated databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/todoapi/internal/db"
)

// Connection returns a sqlite DSN for a fresh database file under t.TempDir().
func Connection(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// New returns a migrated sqlite database that is closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	database, err := db.Init(ctx, db.DriverSQLite, Connection(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(ctx, database.DB, db.DriverSQLite)
	require.NoError(t, err)

	return database
}
