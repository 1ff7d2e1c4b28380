package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"argus/internal/domain/models"
	"argus/internal/domain/services"
	"argus/internal/infrastructure/cache"
	"argus/pkg/logger"
)

// ScanHandler handles scan trigger and result endpoints
type ScanHandler struct {
	scheduler  *services.Scheduler
	apps       services.AppStore
	exclusions services.ExclusionStore
	cache      *cache.RedisCache
	logger     *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scheduler *services.Scheduler, apps services.AppStore, exclusions services.ExclusionStore, c *cache.RedisCache, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scheduler:  scheduler,
		apps:       apps,
		exclusions: exclusions,
		cache:      c,
		logger:     log.WithComponent("scan-handler"),
	}
}

// Trigger handles POST /api/v1/scan. The scan runs synchronously, the
// response carries the cached summary once it completes.
func (h *ScanHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.ScanNow(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("on-demand scan failed")
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	var summary models.ScanSummary
	if h.cache != nil {
		if err := h.cache.GetCachedScanSummary(r.Context(), &summary); err == nil {
			respondJSON(w, http.StatusOK, summary)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// Results handles GET /api/v1/scan/results. Excluded packages are
// filtered out, a record persisted before its exclusion never surfaces.
func (h *ScanHandler) Results(w http.ResponseWriter, r *http.Request) {
	records, err := h.apps.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list scan results")
		respondError(w, http.StatusInternalServerError, "failed to list scan results")
		return
	}

	excluded, err := excludedSet(r.Context(), h.exclusions)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list exclusions")
		respondError(w, http.StatusInternalServerError, "failed to list scan results")
		return
	}

	filtered := make([]*models.AppRecord, 0, len(records))
	for _, rec := range records {
		if excluded[rec.PackageName] {
			continue
		}
		filtered = append(filtered, rec)
	}
	records = filtered

	respondJSON(w, http.StatusOK, map[string]any{
		"total":        len(records),
		"results":      records,
		"generated_at": time.Now().UTC(),
	})
}

// Result handles GET /api/v1/scan/results/{package}
func (h *ScanHandler) Result(w http.ResponseWriter, r *http.Request) {
	packageName := chi.URLParam(r, "package")
	if packageName == "" {
		respondError(w, http.StatusBadRequest, "package name is required")
		return
	}

	isExcluded, err := h.exclusions.Contains(r.Context(), packageName)
	if err != nil {
		h.logger.Error().Err(err).Str("package", packageName).Msg("failed to check exclusion")
		respondError(w, http.StatusInternalServerError, "failed to get scan result")
		return
	}
	if isExcluded {
		respondError(w, http.StatusNotFound, "no scan result for package")
		return
	}

	rec, err := h.apps.Get(r.Context(), packageName)
	if err != nil {
		h.logger.Error().Err(err).Str("package", packageName).Msg("failed to get scan result")
		respondError(w, http.StatusInternalServerError, "failed to get scan result")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "no scan result for package")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// excludedSet loads the exclusion list as a package-name set
func excludedSet(ctx context.Context, store services.ExclusionStore) (map[string]bool, error) {
	records, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(records))
	for _, rec := range records {
		out[rec.PackageName] = true
	}
	return out, nil
}
