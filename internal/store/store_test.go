// Store tests run against a real PostgreSQL instance and are skipped
// when no database is reachable.
package store

import (
	"database/sql"
	"os"
	"testing"

	"catalogd/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "catalogd")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "catalogd")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB connects, migrates, and hands back a pool against empty catalog
// tables. Rows are wiped again on cleanup so tests do not leak into each
// other or into a developer database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	wipe := func() {
		// products cascades to prices, images, and join rows.
		db.Exec(`DELETE FROM products`)
		db.Exec(`DELETE FROM images`)
		db.Exec(`DELETE FROM categories`)
	}
	wipe()
	t.Cleanup(func() {
		wipe()
		db.Close()
	})
	return db
}

// mustCategory creates a category or fails the test.
func mustCategory(t *testing.T, s *CategoryStore, name string) int64 {
	t.Helper()
	c, err := s.Create(name)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c.ID
}
