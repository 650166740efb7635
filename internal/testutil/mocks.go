// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"io"

	"chinook-demo/internal/domain"
)

// === SQL Engine Mock ===

// MockSQLEngine implements domain.SQLEngine and domain.SchemaInspector.
type MockSQLEngine struct {
	QueryFn         func(ctx context.Context, sqlQuery string) (*domain.RawQueryResult, error)
	ListTablesFn    func(ctx context.Context) ([]string, error)
	DescribeTableFn func(ctx context.Context, table string, sampleRows int) (string, error)
	DialectName     string
	Queries         []string // collected SQL for assertions
}

// Query implements the interface method for testing.
func (m *MockSQLEngine) Query(ctx context.Context, sqlQuery string) (*domain.RawQueryResult, error) {
	m.Queries = append(m.Queries, sqlQuery)
	if m.QueryFn != nil {
		return m.QueryFn(ctx, sqlQuery)
	}
	panic("unexpected call to MockSQLEngine.Query")
}

// Dialect implements the interface method for testing.
func (m *MockSQLEngine) Dialect() string {
	if m.DialectName == "" {
		return "mock"
	}
	return m.DialectName
}

// Close implements the interface method for testing.
func (m *MockSQLEngine) Close() error { return nil }

// ListTables implements the interface method for testing.
func (m *MockSQLEngine) ListTables(ctx context.Context) ([]string, error) {
	if m.ListTablesFn != nil {
		return m.ListTablesFn(ctx)
	}
	panic("unexpected call to MockSQLEngine.ListTables")
}

// DescribeTable implements the interface method for testing.
func (m *MockSQLEngine) DescribeTable(ctx context.Context, table string, sampleRows int) (string, error) {
	if m.DescribeTableFn != nil {
		return m.DescribeTableFn(ctx, table, sampleRows)
	}
	panic("unexpected call to MockSQLEngine.DescribeTable")
}

// === Asker Mock ===

// MockAsker implements domain.Asker for testing.
type MockAsker struct {
	AskFn func(ctx context.Context, text string) (string, error)
}

// Ask implements the interface method for testing.
func (m *MockAsker) Ask(ctx context.Context, text string) (string, error) {
	if m.AskFn != nil {
		return m.AskFn(ctx, text)
	}
	panic("unexpected call to MockAsker.Ask")
}

// === Fetcher Mock ===

// MockFetcher implements domain.Fetcher for testing.
type MockFetcher struct {
	FetchFn func(ctx context.Context, location string, w io.Writer) error
	Calls   int
}

// Fetch implements the interface method for testing.
func (m *MockFetcher) Fetch(ctx context.Context, location string, w io.Writer) error {
	m.Calls++
	if m.FetchFn != nil {
		return m.FetchFn(ctx, location, w)
	}
	panic("unexpected call to MockFetcher.Fetch")
}

// === Result builders ===

// Rows builds a RawQueryResult whose rows all share columns.
func Rows(columns []string, rows ...[]domain.Value) *domain.RawQueryResult {
	res := &domain.RawQueryResult{}
	for _, values := range rows {
		res.Rows = append(res.Rows, domain.RawRow{Columns: columns, Values: values})
	}
	return res
}

// ArtistRows returns the first two Chinook artists as a raw result.
func ArtistRows() *domain.RawQueryResult {
	return Rows([]string{"ArtistId", "Name"},
		[]domain.Value{domain.IntValue(1), domain.TextValue("AC/DC")},
		[]domain.Value{domain.IntValue(2), domain.TextValue("Accept")},
	)
}
