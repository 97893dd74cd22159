package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all skill analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/skills", func(r chi.Router) {
		r.Get("/timelines", h.HandleTimelines)
		r.Get("/emerging", h.HandleEmerging)
		r.Get("/{skill}/co-occurrence", h.HandleCoOccurrence)
	})
}
