package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all competitive analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/competition", func(r chi.Router) {
		r.Get("/timelines", h.HandleTimelines)
		r.Get("/positioning", h.HandlePositioning)
		r.Get("/war-zones", h.HandleWarZones)
	})
}
