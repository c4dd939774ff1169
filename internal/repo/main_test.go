package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/hotel-booking/migrations"
	"github.com/pkordes/hotel-booking/testutil"
)

// TestMain applies all pending migrations to the test database once for the
// whole package so individual tests never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured; every test skips itself via testutil.
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))
	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: run migrations: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
