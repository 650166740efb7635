package engine

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"strings"

	"github.com/duckdb/duckdb-go/v2"

	"chinook-demo/internal/ddl"
	"chinook-demo/internal/domain"
)

// duckCatalog is the alias the dataset is attached under.
const duckCatalog = "chinook"

// DuckDBEngine runs queries through an in-memory DuckDB that attaches the
// SQLite dataset read-only.
//
// Attachment happens when the pool opens a connection, i.e. on first use, so
// a missing dataset file fails the first query rather than startup.
type DuckDBEngine struct {
	db   *sql.DB
	path string
}

// Compile-time interface checks.
var _ domain.SQLEngine = (*DuckDBEngine)(nil)
var _ domain.SchemaInspector = (*DuckDBEngine)(nil)

// NewDuckDBEngine creates the DuckDB pool for the dataset at path.
func NewDuckDBEngine(path string) (*DuckDBEngine, error) {
	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		return attachDataset(context.Background(), execer, path)
	})
	if err != nil {
		return nil, fmt.Errorf("duckdb connector: %w", err)
	}
	return &DuckDBEngine{db: sql.OpenDB(connector), path: path}, nil
}

// attachDataset prepares a fresh DuckDB connection: it loads the sqlite
// extension, attaches the dataset and makes it the default catalog. USE is
// connection scoped, hence running this per connection.
func attachDataset(ctx context.Context, execer driver.ExecerContext, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("dataset %s: %w", path, err)
	}

	load, err := ddl.LoadExtension("sqlite")
	if err != nil {
		return err
	}
	attach, err := ddl.AttachSQLite(duckCatalog, path, true)
	if err != nil {
		return err
	}
	use, err := ddl.UseCatalog(duckCatalog)
	if err != nil {
		return err
	}

	for _, stmt := range []string{load, attach, use} {
		if _, err := execer.ExecContext(ctx, stmt, nil); err != nil {
			return fmt.Errorf("duckdb setup (%s): %w", stmt, err)
		}
	}
	return nil
}

// Query executes sqlQuery against the attached dataset.
func (e *DuckDBEngine) Query(ctx context.Context, sqlQuery string) (*domain.RawQueryResult, error) {
	rows, err := e.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return decodeRows(rows)
}

// Dialect names the SQL dialect queries are written in.
func (e *DuckDBEngine) Dialect() string { return "duckdb" }

// Close releases the DuckDB pool.
func (e *DuckDBEngine) Close() error { return e.db.Close() }

// ListTables returns the dataset's table names in name order.
func (e *DuckDBEngine) ListTables(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_catalog = ? ORDER BY table_name`,
		duckCatalog)
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

// DescribeTable rebuilds a CREATE statement from information_schema, since
// attached SQLite tables do not expose their original DDL, and appends
// sample rows.
func (e *DuckDBEngine) DescribeTable(ctx context.Context, table string, sampleRows int) (string, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_catalog = ? AND table_name = ? ORDER BY ordinal_position`,
		duckCatalog, table)
	if err != nil {
		return "", fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close() //nolint:errcheck

	var cols []string
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return "", fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, "\t"+ddl.QuoteIdentifier(name)+" "+typ)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("describe %s: %w", table, err)
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("table %q does not exist", table)
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (\n%s\n)", ddl.QuoteIdentifier(table), strings.Join(cols, ",\n"))
	return describe(ctx, e, table, createSQL, sampleRows)
}
