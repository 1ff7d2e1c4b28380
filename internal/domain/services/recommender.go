package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"argus/internal/domain/models"
	"argus/pkg/logger"
)

// maxRecommendations bounds the generated list after ranking
const maxRecommendations = 20

// Rule confidences
const (
	uninstallConfidence = 0.95
	revokeConfidence    = 0.85
)

// Recommender derives ranked advisory entries from the current app records.
// Output is ephemeral: regenerated on each call, never persisted.
//
// Only critical and high priority rules exist. The priority type admits
// medium/low values for forward compatibility, but no generation rules are
// defined for them.
type Recommender struct {
	classifier *Classifier
	logger     *logger.Logger
}

// NewRecommender creates a new recommendation engine
func NewRecommender(classifier *Classifier, log *logger.Logger) *Recommender {
	return &Recommender{
		classifier: classifier,
		logger:     log.WithComponent("recommender"),
	}
}

// Generate produces the ranked, de-duplicated recommendation list for the
// given records
func (g *Recommender) Generate(records []*models.AppRecord, now time.Time) []models.Recommendation {
	var out []models.Recommendation

	for _, rec := range records {
		if rec.IsSystemApp {
			continue
		}

		switch rec.RiskLevel {
		case models.RiskLevelCritical:
			out = append(out, models.Recommendation{
				ID:          uuid.New(),
				Type:        models.RecommendationUninstallApp,
				Priority:    models.PriorityCritical,
				PackageName: rec.PackageName,
				Title:       fmt.Sprintf("Uninstall %s", rec.AppName),
				Message:     fmt.Sprintf("%s scored %d/100 and is rated critical risk. Uninstalling it is strongly advised.", rec.AppName, rec.RiskScore),
				Category:    rec.Category,
				Actionable:  true,
				Confidence:  uninstallConfidence,
				Impact:      "Removes the highest-risk app from the device",
				GeneratedAt: now,
			})

		case models.RiskLevelHigh:
			if !g.hasDangerousSuspicious(rec) {
				continue
			}
			out = append(out, models.Recommendation{
				ID:          uuid.New(),
				Type:        models.RecommendationRevokePermission,
				Priority:    models.PriorityHigh,
				PackageName: rec.PackageName,
				Title:       fmt.Sprintf("Review permissions of %s", rec.AppName),
				Message:     fmt.Sprintf("%s holds %d suspicious permission(s) and is rated high risk. Revoke the ones it does not need.", rec.AppName, rec.SuspiciousCount),
				Category:    rec.Category,
				Actionable:  true,
				Confidence:  revokeConfidence,
				Impact:      "Reduces the app's access to sensitive data",
				GeneratedAt: now,
			})
		}
	}

	out = rankAndDedupe(out)

	g.logger.Debug().Int("count", len(out)).Msg("recommendations generated")
	return out
}

// hasDangerousSuspicious reports whether at least one of the record's
// suspicious permissions is classified dangerous
func (g *Recommender) hasDangerousSuspicious(rec *models.AppRecord) bool {
	for _, p := range rec.SuspiciousPerms {
		if g.classifier.Classify(p).Dangerous {
			return true
		}
	}
	return false
}

// rankAndDedupe sorts descending by (priority, confidence), removes
// duplicate (type, title) pairs keeping the first occurrence, and truncates
// to maxRecommendations.
func rankAndDedupe(recs []models.Recommendation) []models.Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].SortKey() > recs[j].SortKey()
	})

	seen := make(map[string]bool, len(recs))
	out := recs[:0]
	for _, r := range recs {
		key := string(r.Type) + "\x00" + r.Title
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}
