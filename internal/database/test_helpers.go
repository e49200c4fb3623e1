package database

import (
	"testing"
)

// setupTestDB opens an in-memory SQLite database with the full schema. The
// repositories only use portable SQL, so tests run without a postgres server.
func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	db, err := NewDB(Config{
		Type:       "sqlite",
		SQLitePath: ":memory:",
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, cleanup
}
