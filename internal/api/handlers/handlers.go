package handlers

import (
	"encoding/json"
	"net/http"

	"argus/internal/domain/services"
	"argus/internal/infrastructure/cache"
	"argus/internal/inventory"
	"argus/internal/streaming"
	"argus/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health          *HealthHandler
	Inventory       *InventoryHandler
	Scan            *ScanHandler
	Recommendations *RecommendationsHandler
	Feedback        *FeedbackHandler
	Exclusions      *ExclusionsHandler
	Privacy         *PrivacyHandler
	Optimize        *OptimizeHandler
	Stats           *StatsHandler
	Streaming       *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Apps        services.AppStore
	Exclusions  services.ExclusionStore
	Feedback    *services.FeedbackService
	Scheduler   *services.Scheduler
	Recommender *services.Recommender
	Privacy     *services.PrivacyCalculator
	Optimizer   *services.SecurityOptimizer
	Inventory   *inventory.ReportedProvider
	Provider    services.InventoryProvider
	Cache       *cache.RedisCache
	EventBus    *streaming.EventBus
	WSHub       *streaming.WebSocketHub
	Logger      *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:          NewHealthHandler(deps.Cache, deps.Apps, deps.Logger),
		Inventory:       NewInventoryHandler(deps.Inventory, deps.Logger),
		Scan:            NewScanHandler(deps.Scheduler, deps.Apps, deps.Exclusions, deps.Cache, deps.Logger),
		Recommendations: NewRecommendationsHandler(deps.Apps, deps.Recommender, deps.Logger),
		Feedback:        NewFeedbackHandler(deps.Feedback, deps.Logger),
		Exclusions:      NewExclusionsHandler(deps.Exclusions, deps.Apps, deps.Feedback, deps.Logger),
		Privacy:         NewPrivacyHandler(deps.Provider, deps.Privacy, deps.Exclusions, deps.Cache, deps.Logger),
		Optimize:        NewOptimizeHandler(deps.Apps, deps.Optimizer, deps.Logger),
		Stats:           NewStatsHandler(deps.Apps, deps.Exclusions, deps.Cache, deps.Logger),
		Streaming:       NewStreamingHandler(deps.WSHub, deps.EventBus, deps.Logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
