package services

import (
	"fmt"
	"time"

	"argus/internal/domain/models"
)

// Potential score reductions per advised action
const (
	revokeDangerousReduction  = 5
	reviewSuspiciousReduction = 3
	systemAppReviewReduction  = 10
	systemAppReviewThreshold  = 70
)

// SecurityOptimizer estimates how much an app's risk score could drop if
// the user acted on its permissions. Purely advisory: it never mutates the
// app record, the caller decides whether to surface the advice.
type SecurityOptimizer struct {
	classifier *Classifier
}

// NewSecurityOptimizer creates a new security optimizer
func NewSecurityOptimizer(classifier *Classifier) *SecurityOptimizer {
	return &SecurityOptimizer{classifier: classifier}
}

// Optimize computes the advisory delta for one analyzed app
func (o *SecurityOptimizer) Optimize(rec *models.AppRecord, now time.Time) *models.OptimizationAdvice {
	advice := &models.OptimizationAdvice{
		PackageName:   rec.PackageName,
		OriginalScore: rec.RiskScore,
		GeneratedAt:   now,
	}

	dangerous := 0
	for _, p := range rec.Permissions {
		if o.classifier.Classify(p).Dangerous {
			dangerous++
		}
	}
	if dangerous > 0 {
		advice.Reduction += revokeDangerousReduction * dangerous
		advice.Recommendations = append(advice.Recommendations,
			fmt.Sprintf("Revoke %d dangerous permission(s)", dangerous))
	}

	if rec.SuspiciousCount > 0 {
		advice.Reduction += reviewSuspiciousReduction * rec.SuspiciousCount
		advice.Recommendations = append(advice.Recommendations,
			fmt.Sprintf("Review %d suspicious permission(s)", rec.SuspiciousCount))
	}

	if rec.IsSystemApp && rec.RiskScore > systemAppReviewThreshold {
		advice.Reduction += systemAppReviewReduction
		advice.Recommendations = append(advice.Recommendations,
			"High-risk system app: review with the device vendor")
	}

	advice.OptimizedScore = rec.RiskScore - advice.Reduction
	if advice.OptimizedScore < 0 {
		advice.OptimizedScore = 0
	}

	return advice
}
