package models

import (
	"time"
)

// RiskLevel represents the discrete risk category of an app
type RiskLevel string

const (
	RiskLevelCritical RiskLevel = "critical"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMinimal  RiskLevel = "minimal"
	RiskLevelUnknown  RiskLevel = "unknown"
)

// Ordinal returns a comparable rank for a risk level (higher = riskier)
func (r RiskLevel) Ordinal() int {
	switch r {
	case RiskLevelCritical:
		return 5
	case RiskLevelHigh:
		return 4
	case RiskLevelMedium:
		return 3
	case RiskLevelLow:
		return 2
	case RiskLevelMinimal:
		return 1
	default:
		return 0
	}
}

// RiskLevelForScore maps a 0-100 risk score to a level using the primary
// threshold table. The feedback recompute path uses a stricter table, see
// RiskLevelForAdjustedScore.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLevelCritical
	case score >= 60:
		return RiskLevelHigh
	case score >= 40:
		return RiskLevelMedium
	case score >= 20:
		return RiskLevelLow
	case score >= 10:
		return RiskLevelMinimal
	default:
		return RiskLevelUnknown
	}
}

// RiskLevelForAdjustedScore maps a feedback-adjusted score to a level.
// The cut points intentionally differ from the primary table: user-adjusted
// scores are held to stricter thresholds before alarming.
func RiskLevelForAdjustedScore(score int) RiskLevel {
	switch {
	case score >= 85:
		return RiskLevelCritical
	case score >= 70:
		return RiskLevelHigh
	case score >= 50:
		return RiskLevelMedium
	case score >= 30:
		return RiskLevelLow
	case score >= 10:
		return RiskLevelMinimal
	default:
		return RiskLevelUnknown
	}
}

// AppCategory is the user-facing classification of an app
type AppCategory string

const (
	AppCategoryFinance       AppCategory = "finance"
	AppCategoryGame          AppCategory = "game"
	AppCategorySocial        AppCategory = "social"
	AppCategoryCommunication AppCategory = "communication"
	AppCategoryTool          AppCategory = "tool"
	AppCategoryOther         AppCategory = "other"
)

// InstalledApp is one entry of a device inventory snapshot, as reported by
// the platform package manager. Treated as immutable for the duration of a
// scan cycle.
type InstalledApp struct {
	PackageName string      `json:"package_name"`
	AppName     string      `json:"app_name"`
	Permissions []string    `json:"permissions"`
	Category    AppCategory `json:"category"`
	VersionName string      `json:"version_name"`
	VersionCode int64       `json:"version_code"`
	TargetSDK   int         `json:"target_sdk"`
	MinSDK      int         `json:"min_sdk"`
	InstalledAt time.Time   `json:"installed_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	IsSystemApp bool        `json:"is_system_app"`
	IsEnabled   bool        `json:"is_enabled"`
	SizeBytes   int64       `json:"size_bytes"`
}

// HasInternet reports whether the app requested network access
func (a *InstalledApp) HasInternet() bool {
	for _, p := range a.Permissions {
		if p == "android.permission.INTERNET" {
			return true
		}
	}
	return false
}

// AppRecord is the persisted analysis state of one installed application.
// Writes are always whole-record replacements.
type AppRecord struct {
	PackageName     string      `json:"package_name"`
	AppName         string      `json:"app_name"`
	Permissions     []string    `json:"permissions"`
	Category        AppCategory `json:"category"`
	RiskScore       int         `json:"risk_score"` // 0-100
	RiskLevel       RiskLevel   `json:"risk_level"`
	TrustScore      float64     `json:"trust_score"` // 0.0-1.0
	SuspiciousPerms []string    `json:"suspicious_permissions"`
	SuspiciousCount int         `json:"suspicious_count"`
	CriticalCount   int         `json:"critical_count"`
	RiskFactors     []string    `json:"risk_factors,omitempty"`
	VersionName     string      `json:"version_name"`
	VersionCode     int64       `json:"version_code"`
	TargetSDK       int         `json:"target_sdk"`
	MinSDK          int         `json:"min_sdk"`
	IsSystemApp     bool        `json:"is_system_app"`
	IsEnabled       bool        `json:"is_enabled"`
	HasInternet     bool        `json:"has_internet"`
	SizeBytes       int64       `json:"size_bytes"`
	InstalledAt     time.Time   `json:"installed_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	LastScannedAt   time.Time   `json:"last_scanned_at"`
}

// SamePermissions reports whether the record's permission set matches the
// given list, ignoring order and duplicates.
func (r *AppRecord) SamePermissions(perms []string) bool {
	if r == nil {
		return false
	}
	have := make(map[string]struct{}, len(r.Permissions))
	for _, p := range r.Permissions {
		have[p] = struct{}{}
	}
	want := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		want[p] = struct{}{}
	}
	if len(have) != len(want) {
		return false
	}
	for p := range want {
		if _, ok := have[p]; !ok {
			return false
		}
	}
	return true
}

// ExclusionRecord marks a package as manually removed from analysis.
// An excluded package is never rescanned and never reappears in results
// until explicitly restored.
type ExclusionRecord struct {
	PackageName string    `json:"package_name"`
	AppName     string    `json:"app_name"`
	ExcludedAt  time.Time `json:"excluded_at"`
}

// DefaultTrustScore is the trust assigned to a freshly observed app before
// any user feedback exists.
const DefaultTrustScore = 0.5
