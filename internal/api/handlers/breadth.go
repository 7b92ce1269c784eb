package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/internal/s0_data"
	"github.com/wonny/pulse/backend/internal/s1_universe"
	"github.com/wonny/pulse/backend/internal/s2_breadth"
	"github.com/wonny/pulse/backend/pkg/logger"
	"github.com/wonny/pulse/backend/pkg/redis"
)

// BreadthHandler serves live breadth snapshots
// ⭐ SSOT: 브레드스 API 핸들러는 이 구조체에서만
type BreadthHandler struct {
	store   *s0_data.Store
	engine  *s2_breadth.Engine
	archive contracts.BreadthArchive
	source  *s1_universe.Source
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewBreadthHandler creates a new breadth handler
func NewBreadthHandler(
	store *s0_data.Store,
	engine *s2_breadth.Engine,
	archive contracts.BreadthArchive,
	source *s1_universe.Source,
	cache *redis.Cache,
	log *logger.Logger,
) *BreadthHandler {
	return &BreadthHandler{
		store:   store,
		engine:  engine,
		archive: archive,
		source:  source,
		cache:   cache,
		logger:  log,
	}
}

// GetBreadth recombines the universe's hard data with live quotes
// GET /api/breadth/{universe}
func (h *BreadthHandler) GetBreadth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	universe := mux.Vars(r)["universe"]

	// 완전한 스냅샷만 캐시되므로 히트는 그대로 응답
	var cached contracts.BreadthSnapshot
	if hit, err := h.cache.Get(ctx, redis.BreadthKey(universe), &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	set, err := h.store.Get(universe)
	if err != nil {
		if errors.Is(err, contracts.ErrHardDataNotBuilt) {
			// Separate a name nobody knows from one that is merely unbuilt
			if _, loadErr := h.source.Load(universe); errors.Is(loadErr, contracts.ErrUniverseNotFound) {
				respondErrorCode(w, http.StatusNotFound, "unknown_universe", "Unknown universe")
				return
			}
			respondErrorCode(w, http.StatusConflict, "hard_data_not_built", "Hard data not built yet, trigger a daily build first")
			return
		}
		h.logger.WithError(err).Error("Failed to read hard data")
		respondError(w, http.StatusInternalServerError, "Failed to read hard data")
		return
	}

	snapshot, err := h.engine.Snapshot(ctx, set)
	if err != nil {
		h.logger.WithError(err).WithField("universe", universe).Error("Failed to compute breadth")
		respondError(w, http.StatusInternalServerError, "Failed to compute breadth")
		return
	}

	if row, ok := snapshot.HistoricalRow(); ok {
		// 완전한 스냅샷은 이력에 반영 (요청 실패로 이어지지 않음)
		if err := h.archive.Upsert(ctx, universe, row); err != nil {
			h.logger.WithError(err).WithField("universe", universe).Error("Failed to archive breadth row")
		}

		if err := h.cache.Set(ctx, redis.BreadthKey(universe), snapshot, redis.TTLShort); err != nil {
			h.logger.WithError(err).Warn("Failed to cache breadth snapshot")
		}
	}

	respondJSON(w, http.StatusOK, snapshot)
}
