// Package test provides store fixtures for tests.
package test

import (
	"context"
	"os"
	"testing"

	"github.com/oivmap/oivmap/internal/profile"
	"github.com/oivmap/oivmap/store"
	"github.com/oivmap/oivmap/store/db/memory"
	"github.com/oivmap/oivmap/store/db/postgres"
	"github.com/oivmap/oivmap/store/db/sqlite"
)

// NewTestingStore returns a migrated store backed by the memory driver,
// seeded with the static user list.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:          "dev",
		Driver:        "memory",
		SessionSecret: "testing-secret",
	}
	ts := store.New(memory.NewDB(), p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate testing store: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Errorf("failed to close testing store: %v", err)
		}
	})
	return ts
}

// NewTestingSQLiteStore returns a migrated store backed by the SQLite file at
// dsn. Opening the same dsn twice in a test reuses the existing schema and
// data, which is how the persistence tests exercise a restart.
func NewTestingSQLiteStore(ctx context.Context, t *testing.T, dsn string) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:          "dev",
		Driver:        "sqlite",
		DSN:           dsn,
		SessionSecret: "testing-secret",
	}
	driver, err := sqlite.NewDB(p)
	if err != nil {
		t.Fatalf("failed to open sqlite testing db: %v", err)
	}
	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate sqlite testing store: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Errorf("failed to close sqlite testing store: %v", err)
		}
	})
	return ts
}

// NewTestingPostgresStore returns a migrated store backed by the database at
// OIVMAP_POSTGRES_TEST_DSN, or skips the test when the variable is unset.
func NewTestingPostgresStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	dsn := os.Getenv("OIVMAP_POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("OIVMAP_POSTGRES_TEST_DSN is not set")
	}

	p := &profile.Profile{
		Mode:          "dev",
		Driver:        "postgres",
		DSN:           dsn,
		SessionSecret: "testing-secret",
	}
	driver, err := postgres.NewDB(p)
	if err != nil {
		t.Fatalf("failed to open postgres testing db: %v", err)
	}
	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate postgres testing store: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Errorf("failed to close postgres testing store: %v", err)
		}
	})
	return ts
}
