package services

import (
	"math"
	"strings"
	"time"

	"argus/internal/domain/models"
	"argus/pkg/logger"
)

// Sub-score weights. Each sub-score is clamped to [0,100] before weighting.
const (
	weightPermission = 0.40
	weightMetadata   = 0.25
	weightBehavior   = 0.20
	weightThreat     = 0.15
)

// Permission pattern penalties
const (
	spywareComboPenalty      = 40 // camera + microphone + internet
	locationInternetPenalty  = 25
	criticalPermPenalty      = 8 // per distinct critical permission
	excessPermPenalty        = 3 // per permission over the category threshold
)

// Metadata penalties
const (
	systemAppCredit     = -20
	freshInstallPenalty = 15
	oldSDKPenalty       = 25
	debugBuildPenalty   = 30

	freshInstallWindow = 7 * 24 * time.Hour
	minModernSDK       = 26
)

// Behavior penalties
const (
	permNameRatioPenalty   = 25 // many permissions for a simply-named app
	generatedNamePenalty   = 20
	permsPerNameWord       = 3
	generatedSegmentMinLen = 10
)

// categoryPermissionBudget is the permission count above which an app of
// that category is penalized for requesting more than its kind plausibly
// needs.
var categoryPermissionBudget = map[models.AppCategory]int{
	models.AppCategoryFinance:       6,
	models.AppCategoryGame:          8,
	models.AppCategorySocial:        10,
	models.AppCategoryCommunication: 12,
	models.AppCategoryTool:          7,
	models.AppCategoryOther:         10,
}

// packageBlocklist stands in for a real threat intelligence feed: a package
// name containing any of these substrings scores the full threat sub-score.
var packageBlocklist = []string{
	"droidjack",
	"ahmyth",
	"spynote",
	"flexispy",
	"mspy.",
	"cerberus.stealth",
}

// RiskAssessment is the scorer's output for one app
type RiskAssessment struct {
	Score           int
	Level           models.RiskLevel
	Factors         []string
	SuspiciousPerms []string
	CriticalCount   int
}

// RiskScorer computes a 0-100 heuristic risk score for an installed app
// from four weighted sub-scores. Scoring is pure: no I/O, no mutation of
// its input, identical output for identical input.
type RiskScorer struct {
	classifier *Classifier
	logger     *logger.Logger
}

// NewRiskScorer creates a new risk scorer
func NewRiskScorer(classifier *Classifier, log *logger.Logger) *RiskScorer {
	return &RiskScorer{
		classifier: classifier,
		logger:     log.WithComponent("risk-scorer"),
	}
}

// Score computes the risk assessment for one app at the given reference time
func (s *RiskScorer) Score(app *models.InstalledApp, now time.Time) RiskAssessment {
	var factors []string

	perm, permFactors := s.permissionScore(app)
	factors = append(factors, permFactors...)

	meta, metaFactors := s.metadataScore(app, now)
	factors = append(factors, metaFactors...)

	behavior, behaviorFactors := s.behaviorScore(app)
	factors = append(factors, behaviorFactors...)

	threat, threatFactors := s.threatScore(app)
	factors = append(factors, threatFactors...)

	weighted := weightPermission*float64(clampScore(perm)) +
		weightMetadata*float64(clampScore(meta)) +
		weightBehavior*float64(clampScore(behavior)) +
		weightThreat*float64(clampScore(threat))

	final := clampScore(int(math.Round(weighted)))

	_, dangerous := s.classifier.ClassifyAll(app.Permissions)
	critical := 0
	for _, p := range app.Permissions {
		if s.classifier.IsCritical(p) {
			critical++
		}
	}

	return RiskAssessment{
		Score:           final,
		Level:           models.RiskLevelForScore(final),
		Factors:         factors,
		SuspiciousPerms: dangerous,
		CriticalCount:   critical,
	}
}

// permissionScore scores the app's permission request pattern
func (s *RiskScorer) permissionScore(app *models.InstalledApp) (int, []string) {
	score := 0
	var factors []string

	cats := s.classifier.Categories(app.Permissions)
	internet := app.HasInternet()

	if cats[models.PermissionCategoryCamera] && cats[models.PermissionCategoryMicrophone] && internet {
		score += spywareComboPenalty
		factors = append(factors, "camera, microphone and internet access combined")
	}
	if cats[models.PermissionCategoryLocation] && internet {
		score += locationInternetPenalty
		factors = append(factors, "location access with internet access")
	}

	critical := make(map[string]bool)
	for _, p := range app.Permissions {
		if s.classifier.IsCritical(p) {
			critical[strings.ToUpper(p)] = true
		}
	}
	if len(critical) > 0 {
		score += criticalPermPenalty * len(critical)
		factors = append(factors, "requests sensitive permissions")
	}

	budget, ok := categoryPermissionBudget[app.Category]
	if !ok {
		budget = categoryPermissionBudget[models.AppCategoryOther]
	}
	if excess := len(app.Permissions) - budget; excess > 0 {
		score += excessPermPenalty * excess
		factors = append(factors, "requests more permissions than typical for its category")
	}

	return score, factors
}

// metadataScore scores install-time and build metadata
func (s *RiskScorer) metadataScore(app *models.InstalledApp, now time.Time) (int, []string) {
	score := 0
	var factors []string

	if app.IsSystemApp {
		score += systemAppCredit
	}
	if !app.InstalledAt.IsZero() && now.Sub(app.InstalledAt) < freshInstallWindow {
		score += freshInstallPenalty
		factors = append(factors, "installed within the last week")
	}
	if app.TargetSDK > 0 && app.TargetSDK < minModernSDK {
		score += oldSDKPenalty
		factors = append(factors, "targets an outdated platform version")
	}
	version := strings.ToLower(app.VersionName)
	if strings.Contains(version, "debug") || strings.Contains(version, "test") {
		score += debugBuildPenalty
		factors = append(factors, "debug or test build")
	}

	return score, factors
}

// behaviorScore applies naming heuristics: simply-named apps hoarding
// permissions, and machine-generated package segments.
func (s *RiskScorer) behaviorScore(app *models.InstalledApp) (int, []string) {
	score := 0
	var factors []string

	words := len(strings.Fields(app.AppName))
	if words > 0 && len(app.Permissions) > permsPerNameWord*words {
		score += permNameRatioPenalty
		factors = append(factors, "permission count is high for such a simple app name")
	}

	for _, seg := range strings.Split(app.PackageName, ".") {
		if looksGenerated(seg) {
			score += generatedNamePenalty
			factors = append(factors, "package name looks machine generated")
			break
		}
	}

	return score, factors
}

// threatScore matches the package name against the static blocklist
func (s *RiskScorer) threatScore(app *models.InstalledApp) (int, []string) {
	pkg := strings.ToLower(app.PackageName)
	for _, bad := range packageBlocklist {
		if strings.Contains(pkg, bad) {
			return 100, []string{"package name matches a known threat entry"}
		}
	}
	return 0, nil
}

// looksGenerated reports whether a package segment resembles an
// algorithmically generated identifier: long, alphanumeric, digit-heavy.
func looksGenerated(seg string) bool {
	if len(seg) < generatedSegmentMinLen {
		return false
	}
	digits := 0
	for _, r := range seg {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return digits*2 >= len(seg)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
