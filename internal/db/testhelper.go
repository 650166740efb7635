package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestDataset seeds the sample dataset in t.TempDir(), opens it the way
// the service does, and registers cleanup. It returns the handle and the
// dataset path.
func OpenTestDataset(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chinook.db")
	if err := Seed(context.Background(), path); err != nil {
		t.Fatalf("seed test dataset: %v", err)
	}

	db, err := OpenDataset(path, 4)
	if err != nil {
		t.Fatalf("open test dataset: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, path
}
