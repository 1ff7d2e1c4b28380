package handlers

import (
	"net/http"
	"time"

	"argus/internal/domain/models"
	"argus/internal/domain/services"
	"argus/pkg/logger"
)

// RecommendationsHandler handles recommendation endpoints
type RecommendationsHandler struct {
	apps        services.AppStore
	recommender *services.Recommender
	logger      *logger.Logger
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(apps services.AppStore, recommender *services.Recommender, log *logger.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{
		apps:        apps,
		recommender: recommender,
		logger:      log.WithComponent("recommendations-handler"),
	}
}

// List handles GET /api/v1/recommendations. Recommendations are derived
// from current records on every request, nothing is persisted.
func (h *RecommendationsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.apps.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load app records")
		respondError(w, http.StatusInternalServerError, "failed to generate recommendations")
		return
	}

	recs := h.recommender.Generate(records, time.Now())
	if recs == nil {
		recs = []models.Recommendation{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total":           len(recs),
		"recommendations": recs,
		"generated_at":    time.Now().UTC(),
	})
}
