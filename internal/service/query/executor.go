// Package query runs SQL against the dataset and normalizes the result.
package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chinook-demo/internal/domain"
)

// Outcome is a successful run: the raw result as returned by the engine and
// its normalized table. Failures are returned as errors, never alongside an
// Outcome.
type Outcome struct {
	Raw   *domain.RawQueryResult
	Table *domain.TabularResult
}

// Executor runs SQL through the engine it was constructed with.
//
// It performs no validation and no statement-type restriction: any SQL it
// is handed runs, destructive statements included. Restricting what the
// natural-language agent may run is the agent's instructions' job.
type Executor struct {
	engine domain.SQLEngine
	logger *slog.Logger
}

// NewExecutor creates an Executor over eng.
func NewExecutor(eng domain.SQLEngine, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{engine: eng, logger: logger}
}

// Run executes sqlQuery and normalizes the result. Every failure, whether
// from the engine, the value decode, or normalization, is returned as a
// *domain.QueryExecutionError carrying the underlying message.
func (e *Executor) Run(ctx context.Context, sqlQuery string) (*Outcome, error) {
	if strings.TrimSpace(sqlQuery) == "" {
		err := domain.ErrValidation("sql query is required")
		return nil, &domain.QueryExecutionError{Message: err.Message, Err: err}
	}

	start := time.Now()
	raw, err := e.engine.Query(ctx, sqlQuery)
	if err != nil {
		return nil, e.fail(sqlQuery, start, err)
	}

	table, err := Normalize(raw)
	if err != nil {
		return nil, e.fail(sqlQuery, start, err)
	}

	e.logger.Debug("query executed",
		"sql", sqlQuery,
		"rows", table.RowCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Outcome{Raw: raw, Table: table}, nil
}

func (e *Executor) fail(sqlQuery string, start time.Time, err error) error {
	e.logger.Warn("query failed",
		"sql", sqlQuery,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	var qe *domain.QueryExecutionError
	if errors.As(err, &qe) {
		return qe
	}
	return domain.ErrQueryExecution(err)
}
