package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all surge detection routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/surges", func(r chi.Router) {
		r.Get("/", h.HandleSurges)
		r.Get("/trend", h.HandleTrend)
	})
}
