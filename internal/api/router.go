package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"chinook-demo/internal/middleware"
)

// RouterConfig holds what NewRouter mounts.
type RouterConfig struct {
	Handler     *APIHandler
	UI          http.Handler // mounted at /ui when set
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter builds the HTTP handler for the whole service.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.Recover(logger))

	r.Get("/openapi.json", serveOpenAPI)
	r.Get("/docs", serveDocs)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Post("/run-query", cfg.Handler.RunQuery)
		r.Post("/ask-ai", cfg.Handler.AskAI)
		r.Get("/health", cfg.Handler.Health)
	})

	if cfg.UI != nil {
		r.Mount("/ui", cfg.UI)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/ui", http.StatusFound)
		})
	}
	return r
}
