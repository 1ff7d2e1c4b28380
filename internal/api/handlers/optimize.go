package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"argus/internal/domain/services"
	"argus/pkg/logger"
)

// OptimizeHandler handles security optimization endpoints
type OptimizeHandler struct {
	apps      services.AppStore
	optimizer *services.SecurityOptimizer
	logger    *logger.Logger
}

// NewOptimizeHandler creates a new optimize handler
func NewOptimizeHandler(apps services.AppStore, optimizer *services.SecurityOptimizer, log *logger.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		apps:      apps,
		optimizer: optimizer,
		logger:    log.WithComponent("optimize-handler"),
	}
}

// Optimize handles POST /api/v1/optimize/{package}. The advice is purely
// advisory, the stored record is not modified.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	packageName := chi.URLParam(r, "package")
	if packageName == "" {
		respondError(w, http.StatusBadRequest, "package name is required")
		return
	}

	rec, err := h.apps.Get(r.Context(), packageName)
	if err != nil {
		h.logger.Error().Err(err).Str("package", packageName).Msg("failed to load app record")
		respondError(w, http.StatusInternalServerError, "failed to load app record")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "no analyzed record for package")
		return
	}

	advice := h.optimizer.Optimize(rec, time.Now())
	respondJSON(w, http.StatusOK, advice)
}
