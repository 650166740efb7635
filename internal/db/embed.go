package db

import "embed"

// EmbedMigrations contains the sample dataset migration files.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
