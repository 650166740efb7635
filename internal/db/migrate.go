package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// RunSampleMigrations builds the embedded Chinook subset (Artist, Album,
// Genre, MediaType, Track) in db. Already applied versions are skipped.
func RunSampleMigrations(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(EmbedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// Seed writes a fresh sample dataset file at path.
func Seed(ctx context.Context, path string) error {
	db, err := OpenSQLite(path, "write", 0)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	if err := RunSampleMigrations(ctx, db); err != nil {
		return err
	}

	// Fold the WAL back into the main file so the dataset is a single file.
	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=DELETE"); err != nil {
		return fmt.Errorf("journal mode: %w", err)
	}
	return nil
}
