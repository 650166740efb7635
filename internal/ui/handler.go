// Package ui serves the browser front end: a SQL editor and an Ask AI page.
package ui

import (
	"context"
	"log/slog"
	"net/http"

	"chinook-demo/internal/domain"
	"chinook-demo/internal/render"
	"chinook-demo/internal/service/query"

	gomponents "maragu.dev/gomponents"
)

// QueryRunner runs SQL and returns the normalized outcome.
type QueryRunner interface {
	Run(ctx context.Context, sqlQuery string) (*query.Outcome, error)
}

// ResultRenderer turns a query outcome into the table shown on the page.
type ResultRenderer interface {
	Render(outcome *query.Outcome, runErr error, mode render.Mode) (*domain.TabularResult, error)
}

type Handler struct {
	Queries    QueryRunner
	Results    ResultRenderer
	Asker      domain.Asker
	Tables     domain.SchemaInspector // feeds the sidebar table list; optional
	Production bool
	Logger     *slog.Logger
}

func NewHandler(queries QueryRunner, results ResultRenderer, asker domain.Asker, tables domain.SchemaInspector, production bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Queries:    queries,
		Results:    results,
		Asker:      asker,
		Tables:     tables,
		Production: production,
		Logger:     logger,
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// runQuery executes sqlText and renders the outcome for the page.
func (h *Handler) runQuery(ctx context.Context, sqlText string) (*domain.TabularResult, error) {
	out, runErr := h.Queries.Run(ctx, sqlText)
	return h.Results.Render(out, runErr, render.Structured)
}

// tableNames lists the dataset's tables, or nothing when they cannot be read.
func (h *Handler) tableNames(ctx context.Context) []string {
	if h.Tables == nil {
		return nil
	}
	tables, err := h.Tables.ListTables(ctx)
	if err != nil {
		h.logger().Debug("list tables for sidebar", "error", err)
		return nil
	}
	return tables
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func parseFormOrRenderBadRequest(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Bad Request", "Invalid form payload."))
		return false
	}
	return true
}
