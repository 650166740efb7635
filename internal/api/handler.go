// Package api provides the HTTP handlers for the query service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"chinook-demo/internal/domain"
	"chinook-demo/internal/render"
	"chinook-demo/internal/service/query"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// QueryRunner runs SQL and returns the normalized outcome.
type QueryRunner interface {
	Run(ctx context.Context, sqlQuery string) (*query.Outcome, error)
}

// ResultRenderer turns the executor's (outcome, error) pair into the result
// served to clients.
type ResultRenderer interface {
	Render(outcome *query.Outcome, runErr error, mode render.Mode) (*domain.TabularResult, error)
}

// APIHandler serves the query and ask endpoints.
type APIHandler struct {
	queries QueryRunner
	results ResultRenderer
	asker   domain.Asker
	dataset string
	engine  string
	logger  *slog.Logger
}

// NewHandler creates an APIHandler. dataset and engine are reported by the
// health endpoint.
func NewHandler(queries QueryRunner, results ResultRenderer, asker domain.Asker, dataset, engine string, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{queries: queries, results: results, asker: asker, dataset: dataset, engine: engine, logger: logger}
}

// RunQuery handles POST /api/run-query.
func (h *APIHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	out, runErr := h.queries.Run(r.Context(), req.Query)
	table, err := h.results.Render(out, runErr, render.Structured)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// AskAI handles POST /api/ask-ai.
func (h *APIHandler) AskAI(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, r, h.logger, domain.ErrValidation("query is required"))
		return
	}

	answer, err := h.asker.Ask(r.Context(), req.Query)
	if err != nil {
		var agentErr *domain.AgentError
		if !errors.As(err, &agentErr) {
			err = domain.ErrAgent(err, "agent failed")
		}
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{Response: answer})
}

// Health handles GET /api/health.
func (h *APIHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Dataset: h.dataset, Engine: h.engine})
}

// decodeJSON reads a single JSON object into v. Any malformed body is a
// *domain.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return domain.ErrValidation("request body is required")
		case errors.As(err, &maxErr):
			return domain.ErrValidation("request body exceeds %d bytes", maxErr.Limit)
		default:
			return domain.ErrValidation("invalid request body: %v", err)
		}
	}
	if dec.More() {
		return domain.ErrValidation("invalid request body: %s", "unexpected data after JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
