package handlers

import (
	"net/http"
	"time"

	"argus/internal/domain/models"
	"argus/internal/domain/services"
	"argus/internal/infrastructure/cache"
	"argus/pkg/logger"
)

// PrivacyHandler handles fleet privacy report endpoints
type PrivacyHandler struct {
	provider   services.InventoryProvider
	privacy    *services.PrivacyCalculator
	exclusions services.ExclusionStore
	cache      *cache.RedisCache
	logger     *logger.Logger
}

// NewPrivacyHandler creates a new privacy handler
func NewPrivacyHandler(provider services.InventoryProvider, privacy *services.PrivacyCalculator, exclusions services.ExclusionStore, c *cache.RedisCache, log *logger.Logger) *PrivacyHandler {
	return &PrivacyHandler{
		provider:   provider,
		privacy:    privacy,
		exclusions: exclusions,
		cache:      c,
		logger:     log.WithComponent("privacy-handler"),
	}
}

// Report handles GET /api/v1/privacy/report
func (h *PrivacyHandler) Report(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		var cached models.PrivacyReport
		if err := h.cache.GetJSON(r.Context(), cache.KeyPrivacyReport, &cached); err == nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	snapshot, err := h.provider.Snapshot(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch inventory for privacy report")
		respondError(w, http.StatusServiceUnavailable, "inventory unavailable")
		return
	}

	excluded, err := excludedSet(r.Context(), h.exclusions)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list exclusions")
		respondError(w, http.StatusInternalServerError, "failed to build privacy report")
		return
	}

	// Excluded packages stay out of every analysis surface, this one included.
	apps := make([]*models.InstalledApp, 0, len(snapshot))
	for i := range snapshot {
		if excluded[snapshot[i].PackageName] {
			continue
		}
		apps = append(apps, &snapshot[i])
	}

	report := h.privacy.Report(apps, time.Now())

	if h.cache != nil {
		_ = h.cache.SetJSON(r.Context(), cache.KeyPrivacyReport, report, 5*time.Minute)
	}

	respondJSON(w, http.StatusOK, report)
}
