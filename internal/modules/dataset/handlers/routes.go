package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all dataset routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/dataset", func(r chi.Router) {
		r.Get("/stats", h.HandleStats)
		r.Post("/refresh", h.HandleRefresh)
		r.Post("/import", h.HandleImport)
	})
}
