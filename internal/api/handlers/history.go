package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/internal/s1_universe"
	"github.com/wonny/pulse/backend/pkg/logger"
	"github.com/wonny/pulse/backend/pkg/redis"
)

// HistoryHandler serves archived breadth series
// ⭐ SSOT: 이력 API 핸들러는 이 구조체에서만
type HistoryHandler struct {
	archive contracts.BreadthArchive
	source  *s1_universe.Source
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(
	archive contracts.BreadthArchive,
	source *s1_universe.Source,
	cache *redis.Cache,
	log *logger.Logger,
) *HistoryHandler {
	return &HistoryHandler{
		archive: archive,
		source:  source,
		cache:   cache,
		logger:  log,
	}
}

// SeriesResponse is the archived series for one universe
type SeriesResponse struct {
	Universe string                    `json:"universe"`
	Rows     []contracts.HistoricalRow `json:"rows"`
	Count    int                       `json:"count"`
}

// GetSeries returns the full archived series, oldest first
// GET /api/history/{universe}
func (h *HistoryHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	universe := mux.Vars(r)["universe"]

	if _, err := h.source.Load(universe); errors.Is(err, contracts.ErrUniverseNotFound) {
		respondErrorCode(w, http.StatusNotFound, "unknown_universe", "Unknown universe")
		return
	}

	var cached SeriesResponse
	if hit, err := h.cache.Get(ctx, redis.HistoryKey(universe), &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	rows, err := h.archive.Series(ctx, universe)
	if err != nil {
		h.logger.WithError(err).WithField("universe", universe).Error("Failed to read breadth history")
		respondError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}

	resp := SeriesResponse{
		Universe: universe,
		Rows:     rows,
		Count:    len(rows),
	}

	if err := h.cache.Set(ctx, redis.HistoryKey(universe), resp, redis.TTLMedium); err != nil {
		h.logger.WithError(err).Warn("Failed to cache history series")
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetLatest returns the most recent archived row
// GET /api/history/{universe}/latest
func (h *HistoryHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	universe := mux.Vars(r)["universe"]

	if _, err := h.source.Load(universe); errors.Is(err, contracts.ErrUniverseNotFound) {
		respondErrorCode(w, http.StatusNotFound, "unknown_universe", "Unknown universe")
		return
	}

	row, err := h.archive.Latest(ctx, universe)
	if err != nil {
		h.logger.WithError(err).WithField("universe", universe).Error("Failed to read latest breadth row")
		respondError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}

	if row == nil {
		respondErrorCode(w, http.StatusNotFound, "no_history", "No archived rows for this universe yet")
		return
	}

	respondJSON(w, http.StatusOK, row)
}
