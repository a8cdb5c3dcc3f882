package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"farm-crm/internal/db"
	"farm-crm/internal/importer"
)

// NewRouter creates and configures the Chi router
func NewRouter(database *db.DB, cfg importer.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(Logger)
	r.Use(CORS)

	// Create handlers
	h := NewHandlers(database, cfg)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/imports", h.ImportCSV)
		r.Get("/properties", h.ListProperties)
		r.Get("/properties/{parcelID}", h.GetProperty)
		r.Put("/properties/{parcelID}/contact", h.UpsertEnrichment)
		r.Get("/farms/{farm}/properties", h.ListFarmProperties)
		r.Put("/farms/{farm}/properties/{parcelID}", h.UpdateFarmLink)
	})

	return r
}
