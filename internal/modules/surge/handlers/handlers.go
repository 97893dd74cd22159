// Package handlers provides HTTP handlers for surge detection.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/talentwatch/internal/modules/dataset"
	"github.com/aristath/talentwatch/internal/modules/surge"
	"github.com/aristath/talentwatch/pkg/metrics"
)

// Handler handles surge detection HTTP requests
type Handler struct {
	dataset *dataset.Service
	opts    surge.Options
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewHandler creates a new surge handler
func NewHandler(ds *dataset.Service, opts surge.Options, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		dataset: ds,
		opts:    opts,
		metrics: m,
		log:     log.With().Str("handler", "surge").Logger(),
	}
}

// HandleSurges handles GET /api/surges. The optional ?category= query
// filters the surge list and rollups to one category.
func (h *Handler) HandleSurges(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := surge.Detect(h.dataset.Records(), h.opts, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Surge detection failed: "+err.Error())
		return
	}
	h.metrics.ObserveAnalysis("surge", time.Since(start))

	if category := r.URL.Query().Get("category"); category != "" {
		report = filterByCategory(report, category)
	}

	h.log.Debug().
		Int("surges", len(report.Surges)).
		Dur("elapsed", time.Since(start)).
		Msg("Surge detection completed")
	h.writeJSON(w, report)
}

// HandleTrend handles GET /api/surges/trend.
func (h *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	report, err := surge.Detect(h.dataset.Records(), h.opts, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Surge detection failed: "+err.Error())
		return
	}
	h.writeJSON(w, report.Trend)
}

func filterByCategory(report surge.Report, category string) surge.Report {
	filtered := surge.Report{Surges: []surge.Event{}, Trend: report.Trend}
	for _, ev := range report.Surges {
		if ev.Category == category {
			filtered.Surges = append(filtered.Surges, ev)
		}
	}
	for _, rollup := range report.Categories {
		if rollup.Category == category {
			filtered.Categories = append(filtered.Categories, rollup)
		}
	}
	return filtered
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
