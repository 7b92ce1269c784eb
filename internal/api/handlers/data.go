package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/internal/s0_data"
	"github.com/wonny/pulse/backend/internal/s0_data/collector"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// DataHandler handles hard data build endpoints
// ⭐ SSOT: 하드 데이터 API 핸들러는 이 구조체에서만
type DataHandler struct {
	collector *collector.Collector
	store     *s0_data.Store
	logger    *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(col *collector.Collector, store *s0_data.Store, log *logger.Logger) *DataHandler {
	return &DataHandler{
		collector: col,
		store:     store,
		logger:    log,
	}
}

// BuildRequest represents a hard data build request
type BuildRequest struct {
	Universe string `json:"universe"` // universe name, or "all"
}

// BuildResponse represents a hard data build response
type BuildResponse struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Results []*contracts.BuildStats `json:"results"`
}

// Build triggers a hard data rebuild
// POST /api/data/build
func (h *DataHandler) Build(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Universe == "" {
		respondErrorCode(w, http.StatusBadRequest, "missing_universe", "Missing universe (name or \"all\")")
		return
	}

	h.logger.WithField("universe", req.Universe).Info("Hard data build triggered")

	if req.Universe == "all" {
		results, err := h.collector.BuildAll(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to build hard data")
			respondError(w, http.StatusInternalServerError, "Failed to build hard data")
			return
		}
		respondJSON(w, http.StatusOK, BuildResponse{
			Status:  "success",
			Message: "Hard data rebuilt for all universes",
			Results: results,
		})
		return
	}

	stats, err := h.collector.BuildUniverse(ctx, req.Universe)
	if err != nil {
		if errors.Is(err, contracts.ErrUniverseNotFound) {
			respondErrorCode(w, http.StatusNotFound, "unknown_universe", "Unknown universe")
			return
		}
		h.logger.WithError(err).Error("Failed to build hard data")
		respondError(w, http.StatusInternalServerError, "Failed to build hard data")
		return
	}

	respondJSON(w, http.StatusOK, BuildResponse{
		Status:  "success",
		Message: "Hard data rebuilt",
		Results: []*contracts.BuildStats{stats},
	})
}

// UniverseStatus describes one published hard data set
type UniverseStatus struct {
	Universe string    `json:"universe"`
	BuiltAt  time.Time `json:"built_at"`
	Symbols  int       `json:"symbols"`
}

// GetStatus lists the published hard data sets
// GET /api/data/status
func (h *DataHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	names := h.store.Universes()

	statuses := make([]UniverseStatus, 0, len(names))
	for _, name := range names {
		set, err := h.store.Get(name)
		if err != nil {
			continue
		}
		statuses = append(statuses, UniverseStatus{
			Universe: name,
			BuiltAt:  set.BuiltAt,
			Symbols:  set.Count(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"universes": statuses,
		"count":     len(statuses),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func respondErrorCode(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
