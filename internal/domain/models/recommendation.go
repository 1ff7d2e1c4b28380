package models

import (
	"time"

	"github.com/google/uuid"
)

// RecommendationPriority ranks recommendations for display ordering
type RecommendationPriority string

const (
	PriorityCritical RecommendationPriority = "critical"
	PriorityHigh     RecommendationPriority = "high"
	PriorityMedium   RecommendationPriority = "medium"
	PriorityLow      RecommendationPriority = "low"
)

// Ordinal returns a comparable rank for a priority (higher = more urgent)
func (p RecommendationPriority) Ordinal() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// RecommendationType tags the advised action
type RecommendationType string

const (
	RecommendationUninstallApp     RecommendationType = "uninstall_app"
	RecommendationRevokePermission RecommendationType = "revoke_permission"
	RecommendationReviewApp        RecommendationType = "review_app"
)

// Recommendation is an advisory entry derived from the current app records.
// Recommendations are ephemeral: regenerated on every request, never
// persisted.
type Recommendation struct {
	ID          uuid.UUID              `json:"id"`
	Type        RecommendationType     `json:"type"`
	Priority    RecommendationPriority `json:"priority"`
	PackageName string                 `json:"package_name"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Category    AppCategory            `json:"category"`
	Actionable  bool                   `json:"actionable"`
	Confidence  float64                `json:"confidence"` // 0.0-1.0
	Impact      string                 `json:"impact,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// SortKey is the ordering key for recommendation lists: descending by
// priority first, confidence second.
func (r *Recommendation) SortKey() float64 {
	return float64(r.Priority.Ordinal())*1000 + r.Confidence*100
}
