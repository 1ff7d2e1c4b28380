package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"argus/internal/domain/models"
	"argus/internal/domain/services"
	"argus/pkg/logger"
)

// FeedbackHandler handles user feedback endpoints
type FeedbackHandler struct {
	feedback *services.FeedbackService
	logger   *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedback *services.FeedbackService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		logger:   log.WithComponent("feedback-handler"),
	}
}

// FeedbackRequest is the body for recording feedback
type FeedbackRequest struct {
	Type string `json:"type"`
}

// Record handles POST /api/v1/feedback/{package}
func (h *FeedbackHandler) Record(w http.ResponseWriter, r *http.Request) {
	packageName := chi.URLParam(r, "package")
	if packageName == "" {
		respondError(w, http.StatusBadRequest, "package name is required")
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fbType := models.FeedbackType(strings.ToUpper(req.Type))
	if !fbType.Valid() {
		respondError(w, http.StatusBadRequest, "type must be TRUSTED or FLAGGED")
		return
	}

	rec, err := h.feedback.Record(r.Context(), packageName, fbType)
	if err != nil {
		if errors.Is(err, services.ErrAppNotFound) {
			respondError(w, http.StatusNotFound, "no analyzed record for package")
			return
		}
		h.logger.Error().Err(err).Str("package", packageName).Msg("failed to record feedback")
		respondError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// ImportRequest carries the legacy flat-string feedback encoding
type ImportRequest struct {
	Encoded string `json:"encoded"`
}

// Import handles POST /api/v1/feedback/import, accepting the flat-string
// encoding produced by earlier releases.
func (h *FeedbackHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Encoded == "" {
		respondError(w, http.StatusBadRequest, "encoded is required")
		return
	}

	imported, err := h.feedback.ImportLegacy(r.Context(), req.Encoded)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to import legacy feedback")
		respondError(w, http.StatusInternalServerError, "failed to import feedback")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"imported": imported})
}
