package handlers

import (
	"net/http"
	"time"

	"argus/internal/domain/models"
	"argus/internal/domain/services"
	"argus/internal/infrastructure/cache"
	"argus/pkg/logger"
)

// StatsHandler handles fleet statistics endpoints
type StatsHandler struct {
	apps       services.AppStore
	exclusions services.ExclusionStore
	cache      *cache.RedisCache
	logger     *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(apps services.AppStore, exclusions services.ExclusionStore, c *cache.RedisCache, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		apps:       apps,
		exclusions: exclusions,
		cache:      c,
		logger:     log.WithComponent("stats"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		var cached models.FleetStats
		if err := h.cache.GetJSON(r.Context(), cache.KeyStats, &cached); err == nil {
			w.Header().Set("Cache-Control", "public, max-age=300")
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	stats, err := h.computeStats(r)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute stats")
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	if h.cache != nil {
		_ = h.cache.SetJSON(r.Context(), cache.KeyStats, stats, 5*time.Minute)
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	respondJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) computeStats(r *http.Request) (*models.FleetStats, error) {
	records, err := h.apps.List(r.Context())
	if err != nil {
		return nil, err
	}

	stats := &models.FleetStats{
		TotalApps:   len(records),
		ByRiskLevel: make(map[string]int),
		ByCategory:  make(map[string]int),
	}

	var scoreSum int
	for _, rec := range records {
		stats.ByRiskLevel[string(rec.RiskLevel)]++
		stats.ByCategory[string(rec.Category)]++
		if rec.IsSystemApp {
			stats.SystemApps++
		}
		scoreSum += rec.RiskScore
		if rec.LastScannedAt.After(stats.LastScanAt) {
			stats.LastScanAt = rec.LastScannedAt
		}
	}
	if len(records) > 0 {
		stats.AverageRiskScore = float64(scoreSum) / float64(len(records))
	}

	if h.exclusions != nil {
		excluded, err := h.exclusions.List(r.Context())
		if err != nil {
			return nil, err
		}
		stats.ExcludedApps = len(excluded)
	}

	return stats, nil
}
