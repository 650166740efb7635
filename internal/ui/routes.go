package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chinook-demo/internal/ui/assets"
)

// Routes returns the UI router. It expects to be mounted at /ui.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.EnsureCSRFToken)
		r.Use(h.RequireCSRF)
		r.Get("/", h.SQLEditorPage)
		r.Post("/sql/run", h.SQLEditorRun)
		r.Post("/sql/download.csv", h.SQLEditorDownloadCSV)
		r.Get("/ask", h.AskPage)
		r.Post("/ask", h.AskSubmit)
	})
	return r
}
