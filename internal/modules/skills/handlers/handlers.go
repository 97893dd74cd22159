// Package handlers provides HTTP handlers for skill demand analysis.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/talentwatch/internal/modules/dataset"
	"github.com/aristath/talentwatch/internal/modules/skills"
	"github.com/aristath/talentwatch/pkg/metrics"
)

// Handler handles skill analysis HTTP requests
type Handler struct {
	dataset *dataset.Service
	opts    skills.Options
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewHandler creates a new skills handler
func NewHandler(ds *dataset.Service, opts skills.Options, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		dataset: ds,
		opts:    opts,
		metrics: m,
		log:     log.With().Str("handler", "skills").Logger(),
	}
}

// HandleTimelines handles GET /api/skills/timelines.
func (h *Handler) HandleTimelines(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	timelines, err := skills.Timelines(h.dataset.Records(), h.opts, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Skill timeline computation failed: "+err.Error())
		return
	}
	h.metrics.ObserveAnalysis("skills_timelines", time.Since(start))
	h.writeJSON(w, timelines)
}

// HandleEmerging handles GET /api/skills/emerging.
func (h *Handler) HandleEmerging(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	emerging, err := skills.DetectEmerging(h.dataset.Records(), h.opts, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Emerging skill detection failed: "+err.Error())
		return
	}
	h.metrics.ObserveAnalysis("skills_emerging", time.Since(start))
	h.writeJSON(w, emerging)
}

// HandleCoOccurrence handles GET /api/skills/{skill}/co-occurrence.
func (h *Handler) HandleCoOccurrence(w http.ResponseWriter, r *http.Request) {
	skill, err := url.PathUnescape(chi.URLParam(r, "skill"))
	if err != nil || skill == "" {
		h.writeError(w, http.StatusBadRequest, "Invalid skill name")
		return
	}

	start := time.Now()
	profile := skills.ProfileFor(h.dataset.Records(), skill, h.opts.Vocabulary)
	h.metrics.ObserveAnalysis("skills_profile", time.Since(start))
	h.writeJSON(w, profile)
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
