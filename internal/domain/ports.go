package domain

import (
	"context"
	"io"
)

// SQLEngine runs a SQL string against the dataset and returns the decoded
// rows, with column-name metadata, or fails.
// Implemented by engine.SQLiteEngine and engine.DuckDBEngine.
type SQLEngine interface {
	Query(ctx context.Context, sqlQuery string) (*RawQueryResult, error)
	Dialect() string
	Close() error
}

// SchemaInspector exposes the table listing and table descriptions the
// natural-language agent tools need.
type SchemaInspector interface {
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTable returns the table's CREATE statement followed by up to
	// sampleRows example rows.
	DescribeTable(ctx context.Context, table string, sampleRows int) (string, error)
}

// Fetcher downloads a dataset from a remote location into w.
// Implementations return *FetchStatusError when the remote answered with a
// non-success status and any other error for transport failures.
type Fetcher interface {
	Fetch(ctx context.Context, location string, w io.Writer) error
}

// FetchStatusError reports a remote that answered but did not succeed.
type FetchStatusError struct {
	Location   string
	StatusCode int
	Status     string
}

func (e *FetchStatusError) Error() string {
	if e.Status != "" {
		return "fetch " + e.Location + ": " + e.Status
	}
	return "fetch " + e.Location + ": unexpected status"
}

// Asker answers a free-text question with free text.
// Implemented by agent.Bridge.
type Asker interface {
	Ask(ctx context.Context, text string) (string, error)
}
