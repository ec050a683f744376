// Package test hosts the store-level integration tests. They run against a
// throwaway sqlite database in the test's temp directory.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/steamates/steamates/internal/profile"
	"github.com/steamates/steamates/store"
	"github.com/steamates/steamates/store/db/sqlite"
)

// NewTestingStore creates a migrated store backed by a fresh sqlite file.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	testProfile := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   dir,
		DSN:    filepath.Join(dir, "steamates_test.db"),
	}

	driver, err := sqlite.NewDB(testProfile)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	ts := store.New(driver, testProfile)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return ts
}
