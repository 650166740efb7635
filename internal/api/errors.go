package api

import (
	"errors"
	"log/slog"
	"net/http"

	"chinook-demo/internal/domain"
	"chinook-demo/internal/middleware"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var queryErr *domain.QueryExecutionError
	var validation *domain.ValidationError
	var agentErr *domain.AgentError

	switch {
	case errors.As(err, &queryErr):
		return http.StatusBadRequest
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &agentErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// detailFromError returns the message shown to clients. Errors outside the
// domain taxonomy may carry internals, so they get a generic message.
func detailFromError(err error) string {
	var queryErr *domain.QueryExecutionError
	var validation *domain.ValidationError
	var agentErr *domain.AgentError

	switch {
	case errors.As(err, &queryErr):
		return queryErr.Message
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &agentErr):
		return agentErr.Message
	default:
		return "internal server error"
	}
}

// writeError writes err as an ErrorResponse and logs it with the request ID.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := httpStatusFromDomainError(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, ErrorResponse{Code: status, Detail: detailFromError(err)})
}
