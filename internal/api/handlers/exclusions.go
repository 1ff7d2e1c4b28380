package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"argus/internal/domain/models"
	"argus/internal/domain/services"
	"argus/pkg/logger"
)

// ExclusionsHandler handles exclusion management endpoints
type ExclusionsHandler struct {
	exclusions services.ExclusionStore
	apps       services.AppStore
	feedback   *services.FeedbackService
	logger     *logger.Logger
}

// NewExclusionsHandler creates a new exclusions handler
func NewExclusionsHandler(exclusions services.ExclusionStore, apps services.AppStore, feedback *services.FeedbackService, log *logger.Logger) *ExclusionsHandler {
	return &ExclusionsHandler{
		exclusions: exclusions,
		apps:       apps,
		feedback:   feedback,
		logger:     log.WithComponent("exclusions-handler"),
	}
}

// List handles GET /api/v1/exclusions
func (h *ExclusionsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.exclusions.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list exclusions")
		respondError(w, http.StatusInternalServerError, "failed to list exclusions")
		return
	}

	if records == nil {
		records = []*models.ExclusionRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total":      len(records),
		"exclusions": records,
	})
}

// Add handles POST /api/v1/exclusions/{package}
func (h *ExclusionsHandler) Add(w http.ResponseWriter, r *http.Request) {
	packageName := chi.URLParam(r, "package")
	if packageName == "" {
		respondError(w, http.StatusBadRequest, "package name is required")
		return
	}

	var body struct {
		AppName string `json:"app_name"`
	}
	// Body is optional, ignore decode errors on empty bodies
	_ = json.NewDecoder(r.Body).Decode(&body)

	rec := &models.ExclusionRecord{
		PackageName: packageName,
		AppName:     body.AppName,
		ExcludedAt:  time.Now(),
	}
	if err := h.exclusions.Add(r.Context(), rec); err != nil {
		h.logger.Error().Err(err).Str("package", packageName).Msg("failed to add exclusion")
		respondError(w, http.StatusInternalServerError, "failed to add exclusion")
		return
	}

	// An excluded package must never reappear in analysis results, so the
	// persisted record goes too. The per-package lock keeps a concurrent
	// scan from interleaving with the delete.
	unlock := h.feedback.LockPackage(packageName)
	err := h.apps.Delete(r.Context(), packageName)
	unlock()
	if err != nil {
		h.logger.Error().Err(err).Str("package", packageName).Msg("failed to delete excluded app record")
		respondError(w, http.StatusInternalServerError, "failed to delete app record")
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// Remove handles DELETE /api/v1/exclusions/{package}
func (h *ExclusionsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	packageName := chi.URLParam(r, "package")
	if packageName == "" {
		respondError(w, http.StatusBadRequest, "package name is required")
		return
	}

	if err := h.exclusions.Remove(r.Context(), packageName); err != nil {
		h.logger.Error().Err(err).Str("package", packageName).Msg("failed to remove exclusion")
		respondError(w, http.StatusInternalServerError, "failed to remove exclusion")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
