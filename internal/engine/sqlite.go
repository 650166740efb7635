package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chinook-demo/internal/domain"
)

// SQLiteEngine runs queries directly against the dataset's SQLite handle.
// It never restricts the statement type: whatever SQL it is given runs.
type SQLiteEngine struct {
	db *sql.DB
}

// Compile-time interface checks.
var _ domain.SQLEngine = (*SQLiteEngine)(nil)
var _ domain.SchemaInspector = (*SQLiteEngine)(nil)

// NewSQLiteEngine wraps an open dataset handle. The engine takes ownership
// of db and closes it in Close.
func NewSQLiteEngine(db *sql.DB) *SQLiteEngine {
	return &SQLiteEngine{db: db}
}

// Query executes sqlQuery and decodes the full result.
func (e *SQLiteEngine) Query(ctx context.Context, sqlQuery string) (*domain.RawQueryResult, error) {
	rows, err := e.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return decodeRows(rows)
}

// Dialect names the SQL dialect queries are written in.
func (e *SQLiteEngine) Dialect() string { return "sqlite" }

// Close releases the underlying handle.
func (e *SQLiteEngine) Close() error { return e.db.Close() }

// ListTables returns user table names in name order.
func (e *SQLiteEngine) ListTables(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DescribeTable returns the table's CREATE statement and sample rows.
func (e *SQLiteEngine) DescribeTable(ctx context.Context, table string, sampleRows int) (string, error) {
	var createSQL string
	err := e.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&createSQL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("table %q does not exist", table)
	}
	if err != nil {
		return "", fmt.Errorf("describe %s: %w", table, err)
	}

	return describe(ctx, e, table, createSQL, sampleRows)
}
