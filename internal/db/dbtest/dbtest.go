// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/logbook/internal/db/bunx"
	"github.com/terraconstructs/logbook/internal/migrations"
	"github.com/uptrace/bun"
)

// NewSQLite returns an in-memory SQLite database with every migration
// applied. The database is closed when the test finishes.
func NewSQLite(t testing.TB) *bun.DB {
	t.Helper()

	db, err := bunx.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	_, err = migrations.Up(context.Background(), db)
	require.NoError(t, err)

	return db
}
