// Package handlers provides HTTP handlers for dataset management.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/talentwatch/internal/domain"
	"github.com/aristath/talentwatch/internal/modules/dataset"
	"github.com/aristath/talentwatch/pkg/metrics"
)

// maxImportRecords bounds one import request to keep memory predictable.
const maxImportRecords = 250000

// Handler handles dataset HTTP requests
type Handler struct {
	service *dataset.Service
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewHandler creates a new dataset handler
func NewHandler(service *dataset.Service, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		metrics: m,
		log:     log.With().Str("handler", "dataset").Logger(),
	}
}

// HandleStats handles GET /api/dataset/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.Stats())
}

// HandleRefresh handles POST /api/dataset/refresh: reload the in-memory
// snapshot from the store.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Refresh failed: "+err.Error())
		return
	}
	stats := h.service.Stats()
	h.metrics.DatasetRecords.Set(float64(stats.Records))
	h.writeJSON(w, stats)
}

// ImportRequest is the JSON body of POST /api/dataset/import.
type ImportRequest struct {
	Records []domain.JobRecord `json:"records"`
	Replace bool               `json:"replace"`
}

// HandleImport handles POST /api/dataset/import.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		h.writeError(w, http.StatusBadRequest, "No records provided")
		return
	}
	if len(req.Records) > maxImportRecords {
		h.writeError(w, http.StatusBadRequest, "Too many records in one import")
		return
	}

	stored, err := h.service.Import(req.Records, req.Replace)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Import failed: "+err.Error())
		return
	}

	stats := h.service.Stats()
	h.metrics.DatasetRecords.Set(float64(stats.Records))
	h.log.Info().Int("stored", stored).Bool("replace", req.Replace).Msg("Dataset import completed")
	h.writeJSON(w, map[string]interface{}{"stored": stored, "stats": stats})
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
