// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/darkroom/internal/db"
)

// Open returns a fresh database in the test's temp dir with all migrations
// applied. It is closed when the test finishes.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })

	err = db.RunMigrations(conn.DB, "sqlite")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return conn
}
