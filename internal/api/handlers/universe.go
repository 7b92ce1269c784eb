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

// UniverseHandler serves universe listings and constituent refreshes
// ⭐ SSOT: 유니버스 API 핸들러는 이 구조체에서만
type UniverseHandler struct {
	source  *s1_universe.Source
	scraper *s1_universe.Scraper
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewUniverseHandler creates a new universe handler
func NewUniverseHandler(
	source *s1_universe.Source,
	scraper *s1_universe.Scraper,
	cache *redis.Cache,
	log *logger.Logger,
) *UniverseHandler {
	return &UniverseHandler{
		source:  source,
		scraper: scraper,
		cache:   cache,
		logger:  log,
	}
}

// List returns all known universe names
// GET /api/universes
func (h *UniverseHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []string
	if hit, err := h.cache.Get(ctx, redis.UniverseListKey(), &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"universes": cached,
			"count":     len(cached),
		})
		return
	}

	names, err := h.source.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list universes")
		respondError(w, http.StatusInternalServerError, "Failed to list universes")
		return
	}

	if err := h.cache.Set(ctx, redis.UniverseListKey(), names, redis.TTLLong); err != nil {
		h.logger.WithError(err).Warn("Failed to cache universe list")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"universes": names,
		"count":     len(names),
	})
}

// Get returns the normalized symbols of one universe
// GET /api/universes/{name}
func (h *UniverseHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	symbols, err := h.source.Load(name)
	if err != nil {
		if errors.Is(err, contracts.ErrUniverseNotFound) {
			respondErrorCode(w, http.StatusNotFound, "unknown_universe", "Unknown universe")
			return
		}
		h.logger.WithError(err).WithField("universe", name).Error("Failed to load universe")
		respondError(w, http.StatusInternalServerError, "Failed to load universe")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"universe": name,
		"symbols":  symbols,
		"count":    len(symbols),
	})
}

// Refresh re-scrapes the constituents page and rewrites the universe file
// POST /api/universes/{name}/refresh
func (h *UniverseHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := mux.Vars(r)["name"]

	symbols, err := h.scraper.FetchConstituents(ctx, name)
	if err != nil {
		if errors.Is(err, contracts.ErrRefreshNotConfigured) {
			respondErrorCode(w, http.StatusNotFound, "refresh_not_configured", "No constituents page configured for this universe")
			return
		}
		h.logger.WithError(err).WithField("universe", name).Error("Failed to fetch constituents")
		respondErrorCode(w, http.StatusBadGateway, "provider_error", "Failed to fetch constituents")
		return
	}

	if err := h.source.Save(name, symbols); err != nil {
		h.logger.WithError(err).WithField("universe", name).Error("Failed to save universe")
		respondError(w, http.StatusInternalServerError, "Failed to save universe")
		return
	}

	if err := h.cache.Delete(ctx, redis.UniverseListKey()); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate universe list cache")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"universe": name,
		"symbols":  len(symbols),
	})
}
