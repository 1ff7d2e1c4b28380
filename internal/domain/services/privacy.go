package services

import (
	"time"

	"argus/internal/domain/models"
)

// Per-category privacy penalties, subtracted from a starting score of 1.0
const (
	sensitivePermPenalty = 0.1
	locationPenalty      = 0.15
	contactsPenalty      = 0.15
	smsPenalty           = 0.2
	cameraMicPenalty     = 0.15
)

// PrivacyCalculator derives an independent 0.0-1.0 privacy score per app
// and aggregates the fleet-wide report. Like the risk scorer it is pure.
type PrivacyCalculator struct {
	classifier *Classifier
}

// NewPrivacyCalculator creates a new privacy impact calculator
func NewPrivacyCalculator(classifier *Classifier) *PrivacyCalculator {
	return &PrivacyCalculator{classifier: classifier}
}

// Assess computes the privacy impact of one app
func (p *PrivacyCalculator) Assess(app *models.InstalledApp) models.AppPrivacyImpact {
	score := 1.0
	var concerns []string

	cats := p.classifier.Categories(app.Permissions)

	sensitive := 0
	for _, perm := range app.Permissions {
		if p.classifier.Classify(perm).Dangerous {
			sensitive++
		}
	}
	score -= float64(sensitive) * sensitivePermPenalty

	if cats[models.PermissionCategoryLocation] {
		score -= locationPenalty
		concerns = append(concerns, "Can access device location")
	}
	if cats[models.PermissionCategoryContacts] {
		score -= contactsPenalty
		concerns = append(concerns, "Can read the contact list")
	}
	if cats[models.PermissionCategorySMS] {
		score -= smsPenalty
		concerns = append(concerns, "Can access text messages")
	}
	if cats[models.PermissionCategoryCamera] || cats[models.PermissionCategoryMicrophone] {
		score -= cameraMicPenalty
		concerns = append(concerns, "Can record via camera or microphone")
	}

	if score < 0 {
		score = 0
	}

	return models.AppPrivacyImpact{
		PackageName: app.PackageName,
		AppName:     app.AppName,
		Score:       score,
		Level:       privacyLevelForApp(score),
		Concerns:    concerns,
	}
}

// Report aggregates per-app impacts into a fleet-wide privacy report
func (p *PrivacyCalculator) Report(apps []*models.InstalledApp, now time.Time) *models.PrivacyReport {
	report := &models.PrivacyReport{
		TotalApps:   len(apps),
		ByLevel:     make(map[string]int),
		Apps:        make([]models.AppPrivacyImpact, 0, len(apps)),
		GeneratedAt: now,
	}

	sum := 0.0
	for _, app := range apps {
		impact := p.Assess(app)
		report.Apps = append(report.Apps, impact)
		report.ByLevel[string(impact.Level)]++
		sum += impact.Score
	}

	if len(apps) > 0 {
		report.AverageScore = sum / float64(len(apps))
	} else {
		report.AverageScore = 1.0
	}
	report.Overall = privacyLevelOverall(report.AverageScore)

	return report
}

// privacyLevelForApp is the per-app threshold table
func privacyLevelForApp(score float64) models.PrivacyLevel {
	switch {
	case score >= 0.9:
		return models.PrivacyExcellent
	case score >= 0.7:
		return models.PrivacyGood
	case score >= 0.5:
		return models.PrivacyModerate
	case score >= 0.3:
		return models.PrivacyPoor
	default:
		return models.PrivacyCritical
	}
}

// privacyLevelOverall rates the fleet average. The cut points deliberately
// differ from the per-app table: a fleet mean hides outliers, so the
// overall rating degrades earlier.
func privacyLevelOverall(avg float64) models.PrivacyLevel {
	switch {
	case avg >= 0.85:
		return models.PrivacyExcellent
	case avg >= 0.65:
		return models.PrivacyGood
	case avg >= 0.45:
		return models.PrivacyModerate
	case avg >= 0.25:
		return models.PrivacyPoor
	default:
		return models.PrivacyCritical
	}
}
