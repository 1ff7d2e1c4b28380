package models

import "time"

// PrivacyLevel rates an app's (or the fleet's) privacy posture
type PrivacyLevel string

const (
	PrivacyExcellent PrivacyLevel = "excellent"
	PrivacyGood      PrivacyLevel = "good"
	PrivacyModerate  PrivacyLevel = "moderate"
	PrivacyPoor      PrivacyLevel = "poor"
	PrivacyCritical  PrivacyLevel = "critical"
)

// AppPrivacyImpact is the per-app privacy assessment
type AppPrivacyImpact struct {
	PackageName string       `json:"package_name"`
	AppName     string       `json:"app_name"`
	Score       float64      `json:"score"` // 0.0-1.0, higher is better
	Level       PrivacyLevel `json:"level"`
	Concerns    []string     `json:"concerns"`
}

// PrivacyReport aggregates per-app privacy scores across the fleet
type PrivacyReport struct {
	TotalApps    int                `json:"total_apps"`
	AverageScore float64            `json:"average_score"`
	Overall      PrivacyLevel       `json:"overall"`
	ByLevel      map[string]int     `json:"by_level"`
	Apps         []AppPrivacyImpact `json:"apps"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// OptimizationAdvice is the advisory output of the security optimizer.
// It never mutates the underlying app record.
type OptimizationAdvice struct {
	PackageName     string    `json:"package_name"`
	OriginalScore   int       `json:"original_score"`
	OptimizedScore  int       `json:"optimized_score"`
	Reduction       int       `json:"reduction"`
	Recommendations []string  `json:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// ScanSummary describes the outcome of one scan cycle
type ScanSummary struct {
	ScanID      string        `json:"scan_id"`
	Apps        int           `json:"apps"`
	Scanned     int           `json:"scanned"`
	Excluded    int           `json:"excluded"`
	Flagged     int           `json:"flagged"`
	Failed      int           `json:"failed"`
	Preserved   int           `json:"preserved"` // feedback-preserved records
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
}

// FleetStats summarizes the current state of all analyzed apps
type FleetStats struct {
	TotalApps        int            `json:"total_apps"`
	ByRiskLevel      map[string]int `json:"by_risk_level"`
	ByCategory       map[string]int `json:"by_category"`
	SystemApps       int            `json:"system_apps"`
	ExcludedApps     int            `json:"excluded_apps"`
	AverageRiskScore float64        `json:"average_risk_score"`
	LastScanAt       time.Time      `json:"last_scan_at,omitempty"`
}
