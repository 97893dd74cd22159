// Package handlers provides HTTP handlers for competitive analysis.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/talentwatch/internal/modules/competition"
	"github.com/aristath/talentwatch/internal/modules/dataset"
	"github.com/aristath/talentwatch/pkg/metrics"
)

// Handler handles competitive analysis HTTP requests
type Handler struct {
	dataset    *dataset.Service
	opts       competition.Options
	yourAgency string // Default agency when the query omits one
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// NewHandler creates a new competition handler
func NewHandler(ds *dataset.Service, opts competition.Options, yourAgency string, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		dataset:    ds,
		opts:       opts,
		yourAgency: yourAgency,
		metrics:    m,
		log:        log.With().Str("handler", "competition").Logger(),
	}
}

// HandleTimelines handles GET /api/competition/timelines.
func (h *Handler) HandleTimelines(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	records := h.dataset.Records()
	now := time.Now()

	timelines, err := competition.Timelines(records, h.opts, now)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Timeline computation failed: "+err.Error())
		return
	}
	moves, err := competition.StrategicMoves(records, h.opts, now)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Strategic move computation failed: "+err.Error())
		return
	}
	h.metrics.ObserveAnalysis("competition_timelines", time.Since(start))

	h.writeJSON(w, map[string]interface{}{
		"timelines":       timelines,
		"strategic_moves": moves,
	})
}

// HandlePositioning handles GET /api/competition/positioning?agency=X.
func (h *Handler) HandlePositioning(w http.ResponseWriter, r *http.Request) {
	agency := h.agencyParam(r)
	if agency == "" {
		h.writeError(w, http.StatusBadRequest, "agency parameter is required")
		return
	}

	start := time.Now()
	matrix, err := competition.Positioning(h.dataset.Records(), h.opts, agency, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Positioning computation failed: "+err.Error())
		return
	}
	h.metrics.ObserveAnalysis("competition_positioning", time.Since(start))
	h.writeJSON(w, matrix)
}

// HandleWarZones handles GET /api/competition/war-zones?agency=X.
func (h *Handler) HandleWarZones(w http.ResponseWriter, r *http.Request) {
	agency := h.agencyParam(r)
	if agency == "" {
		h.writeError(w, http.StatusBadRequest, "agency parameter is required")
		return
	}

	start := time.Now()
	zones, err := competition.WarZones(h.dataset.Records(), h.opts, agency, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "War zone computation failed: "+err.Error())
		return
	}
	h.metrics.ObserveAnalysis("competition_war_zones", time.Since(start))
	h.writeJSON(w, zones)
}

func (h *Handler) agencyParam(r *http.Request) string {
	if agency := r.URL.Query().Get("agency"); agency != "" {
		return agency
	}
	return h.yourAgency
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
