package testutil

import (
	"context"
	"os"
	"testing"

	"meetings-api/pkg/database"

	"github.com/stretchr/testify/require"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewSQLiteDB opens a migrated in-memory database closed at test cleanup.
func NewSQLiteDB(t testing.TB) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.Migrate(ctx, db)
	require.NoError(t, err)
	return db
}

// NewPostgresDB connects to TEST_DATABASE_URL, migrates, and empties the
// tables. Skips when the variable is unset.
func NewPostgresDB(t testing.TB) *database.DB {
	t.Helper()
	dsn := RequireEnv(t, "TEST_DATABASE_URL")
	ctx := context.Background()

	db, err := database.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.Migrate(ctx, db)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `TRUNCATE meetings, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}
