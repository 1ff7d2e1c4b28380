package streaming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"argus/internal/domain/models"
)

func flaggedEvent(pkg string, level models.RiskLevel) *ScanEvent {
	return &ScanEvent{
		Type:        EventTypeAppFlagged,
		PackageName: pkg,
		RiskLevel:   level,
	}
}

func TestSubscriptionMatchesEverythingByDefault(t *testing.T) {
	sub := &Subscription{}

	assert.True(t, sub.Matches(&ScanEvent{Type: EventTypeScanStarted}))
	assert.True(t, sub.Matches(&ScanEvent{Type: EventTypeScanCompleted}))
	assert.True(t, sub.Matches(flaggedEvent("com.example.app", models.RiskLevelMinimal)))
}

func TestSubscriptionTypeFilter(t *testing.T) {
	sub := &Subscription{Types: []EventType{EventTypeAppFlagged}}

	assert.True(t, sub.Matches(flaggedEvent("com.example.app", models.RiskLevelHigh)))
	assert.False(t, sub.Matches(&ScanEvent{Type: EventTypeScanCompleted}))
}

func TestSubscriptionMinRiskLevel(t *testing.T) {
	sub := &Subscription{MinRiskLevel: models.RiskLevelHigh}

	assert.True(t, sub.Matches(flaggedEvent("a", models.RiskLevelCritical)))
	assert.True(t, sub.Matches(flaggedEvent("a", models.RiskLevelHigh)))
	assert.False(t, sub.Matches(flaggedEvent("a", models.RiskLevelMedium)))
}

func TestSubscriptionMinRiskLevelSuppressesLifecycle(t *testing.T) {
	sub := &Subscription{MinRiskLevel: models.RiskLevelHigh}
	assert.False(t, sub.Matches(&ScanEvent{Type: EventTypeScanCompleted}))

	sub.IncludeLifecycle = true
	assert.True(t, sub.Matches(&ScanEvent{Type: EventTypeScanCompleted}))
}

func TestSubscriptionPackageFilter(t *testing.T) {
	sub := &Subscription{Packages: []string{"com.example.watched"}}

	assert.True(t, sub.Matches(flaggedEvent("com.example.watched", models.RiskLevelLow)))
	assert.False(t, sub.Matches(flaggedEvent("com.example.other", models.RiskLevelCritical)))

	// Package filters only constrain app_flagged events.
	assert.True(t, sub.Matches(&ScanEvent{Type: EventTypeScanStarted}))
}

func TestNewAppFlaggedEvent(t *testing.T) {
	rec := &models.AppRecord{
		PackageName: "com.example.bad",
		AppName:     "Bad App",
		RiskScore:   82,
		RiskLevel:   models.RiskLevelCritical,
		RiskFactors: []string{"requests sensitive permissions"},
	}

	ev := NewAppFlaggedEvent("scan-1", rec)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, EventTypeAppFlagged, ev.Type)
	assert.Equal(t, "scan-1", ev.ScanID)
	assert.Equal(t, "com.example.bad", ev.PackageName)
	assert.Equal(t, 82, ev.RiskScore)
	assert.Equal(t, models.RiskLevelCritical, ev.RiskLevel)
	assert.False(t, ev.Timestamp.IsZero())
}
