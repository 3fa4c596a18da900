package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/rushboard/challenge-api/internal/models"
	"go.uber.org/zap"
)

const (
	statsCacheKey = "stats:overview"
	statsCacheTTL = 60 * time.Second
)

// StatsHandler serves the public stats overview. Counts change rarely, so
// results are cached in Redis for a short window when a client is available.
type StatsHandler struct {
	repo   database.StatsStore
	cache  *redis.Client
	logger *zap.Logger
}

// NewStatsHandler creates a new stats handler. cache may be nil; every request
// then hits the database directly.
func NewStatsHandler(repo database.StatsStore, cache *redis.Client, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{repo: repo, cache: cache, logger: logger}
}

// RegisterRoutes registers the stats route.
func (h *StatsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Overview).Methods("GET")
}

// Overview returns published-content counts.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached := h.fromCache(ctx); cached != nil {
		respondData(w, http.StatusOK, cached)
		return
	}

	stats, err := h.repo.Overview(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch stats",
			map[string]any{"error": err.Error()})
		return
	}

	h.toCache(ctx, stats)
	respondData(w, http.StatusOK, stats)
}

func (h *StatsHandler) fromCache(ctx context.Context) *models.StatsOverview {
	if h.cache == nil {
		return nil
	}
	raw, err := h.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warn("stats_cache_read_failed", zap.Error(err))
		}
		return nil
	}
	var stats models.StatsOverview
	if err := json.Unmarshal(raw, &stats); err != nil {
		h.logger.Warn("stats_cache_decode_failed", zap.Error(err))
		return nil
	}
	return &stats
}

func (h *StatsHandler) toCache(ctx context.Context, stats *models.StatsOverview) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
		h.logger.Warn("stats_cache_write_failed", zap.Error(err))
	}
}
