package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gwarchivist/gwarchivist/internal/db"

	_ "github.com/mattn/go-sqlite3"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// Foreign keys are enabled to match the production connection.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)

	// In-memory databases live per connection, so the pool must stay at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(sqlDB), "failed to apply migrations")

	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
