package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/domain/models"
)

func newTestRecommender() *Recommender {
	return NewRecommender(NewClassifier(), testLogger())
}

func TestGenerateCriticalApp(t *testing.T) {
	now := time.Now()
	records := []*models.AppRecord{
		{
			PackageName: "com.example.bad",
			AppName:     "Bad App",
			RiskScore:   85,
			RiskLevel:   models.RiskLevelCritical,
			Category:    models.AppCategoryOther,
		},
	}

	got := newTestRecommender().Generate(records, now)

	require.Len(t, got, 1)
	assert.Equal(t, models.RecommendationUninstallApp, got[0].Type)
	assert.Equal(t, models.PriorityCritical, got[0].Priority)
	assert.Equal(t, "Uninstall Bad App", got[0].Title)
	assert.Equal(t, 0.95, got[0].Confidence)
	assert.True(t, got[0].Actionable)
}

func TestGenerateSkipsSystemApps(t *testing.T) {
	records := []*models.AppRecord{
		{
			PackageName: "com.vendor.core",
			AppName:     "Vendor Core",
			RiskScore:   90,
			RiskLevel:   models.RiskLevelCritical,
			IsSystemApp: true,
		},
	}

	got := newTestRecommender().Generate(records, time.Now())
	assert.Empty(t, got)
}

func TestGenerateHighRiskNeedsDangerousSuspicious(t *testing.T) {
	now := time.Now()
	records := []*models.AppRecord{
		{
			PackageName:     "com.example.spyish",
			AppName:         "Spyish",
			RiskScore:       65,
			RiskLevel:       models.RiskLevelHigh,
			SuspiciousPerms: []string{"android.permission.CAMERA"},
			SuspiciousCount: 1,
		},
		{
			PackageName:     "com.example.plain",
			AppName:         "Plain",
			RiskScore:       62,
			RiskLevel:       models.RiskLevelHigh,
			SuspiciousPerms: []string{"android.permission.VIBRATE"},
			SuspiciousCount: 1,
		},
	}

	got := newTestRecommender().Generate(records, now)

	require.Len(t, got, 1)
	assert.Equal(t, "com.example.spyish", got[0].PackageName)
	assert.Equal(t, models.RecommendationRevokePermission, got[0].Type)
	assert.Equal(t, models.PriorityHigh, got[0].Priority)
}

func TestGenerateOrdering(t *testing.T) {
	now := time.Now()
	records := []*models.AppRecord{
		{
			PackageName:     "com.example.high",
			AppName:         "High",
			RiskScore:       65,
			RiskLevel:       models.RiskLevelHigh,
			SuspiciousPerms: []string{"android.permission.READ_SMS"},
			SuspiciousCount: 1,
		},
		{
			PackageName: "com.example.critical",
			AppName:     "Critical",
			RiskScore:   88,
			RiskLevel:   models.RiskLevelCritical,
		},
	}

	got := newTestRecommender().Generate(records, now)

	require.Len(t, got, 2)
	assert.Equal(t, models.PriorityCritical, got[0].Priority)
	assert.Equal(t, models.PriorityHigh, got[1].Priority)
}

func TestGenerateDedupesByTypeAndTitle(t *testing.T) {
	// Two records for apps with the same display name produce the same
	// (type, title) pair. Only the first survives.
	records := []*models.AppRecord{
		{
			PackageName: "com.example.clone.a",
			AppName:     "Clone",
			RiskScore:   85,
			RiskLevel:   models.RiskLevelCritical,
		},
		{
			PackageName: "com.example.clone.b",
			AppName:     "Clone",
			RiskScore:   82,
			RiskLevel:   models.RiskLevelCritical,
		},
	}

	got := newTestRecommender().Generate(records, time.Now())

	require.Len(t, got, 1)
	assert.Equal(t, "com.example.clone.a", got[0].PackageName)
}

func TestGenerateCap(t *testing.T) {
	var records []*models.AppRecord
	for i := 0; i < 30; i++ {
		records = append(records, &models.AppRecord{
			PackageName: fmt.Sprintf("com.example.app%d", i),
			AppName:     fmt.Sprintf("App %d", i),
			RiskScore:   85,
			RiskLevel:   models.RiskLevelCritical,
		})
	}

	got := newTestRecommender().Generate(records, time.Now())
	assert.Len(t, got, maxRecommendations)
}

func TestGenerateEmptyInput(t *testing.T) {
	got := newTestRecommender().Generate(nil, time.Now())
	assert.Empty(t, got)
}
