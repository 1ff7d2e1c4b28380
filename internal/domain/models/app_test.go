package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{100, RiskLevelCritical},
		{80, RiskLevelCritical},
		{79, RiskLevelHigh},
		{60, RiskLevelHigh},
		{59, RiskLevelMedium},
		{40, RiskLevelMedium},
		{39, RiskLevelLow},
		{20, RiskLevelLow},
		{19, RiskLevelMinimal},
		{10, RiskLevelMinimal},
		{9, RiskLevelUnknown},
		{0, RiskLevelUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestRiskLevelForAdjustedScore(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{85, RiskLevelCritical},
		{84, RiskLevelHigh},
		{70, RiskLevelHigh},
		{69, RiskLevelMedium},
		{50, RiskLevelMedium},
		{49, RiskLevelLow},
		{30, RiskLevelLow},
		{29, RiskLevelMinimal},
		{10, RiskLevelMinimal},
		{9, RiskLevelUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForAdjustedScore(tt.score), "score %d", tt.score)
	}
}

// The two tables disagree in the 80-84 band on purpose.
func TestAdjustedTableIsStricter(t *testing.T) {
	assert.Equal(t, RiskLevelCritical, RiskLevelForScore(82))
	assert.Equal(t, RiskLevelHigh, RiskLevelForAdjustedScore(82))
}

func TestRiskLevelOrdinal(t *testing.T) {
	levels := []RiskLevel{
		RiskLevelUnknown,
		RiskLevelMinimal,
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelCritical,
	}
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i].Ordinal(), levels[i-1].Ordinal())
	}
	assert.Equal(t, 0, RiskLevel("bogus").Ordinal())
}

func TestSamePermissions(t *testing.T) {
	rec := &AppRecord{
		Permissions: []string{
			"android.permission.CAMERA",
			"android.permission.INTERNET",
		},
	}

	assert.True(t, rec.SamePermissions([]string{
		"android.permission.INTERNET",
		"android.permission.CAMERA",
	}))
	// Duplicates collapse, set semantics.
	assert.True(t, rec.SamePermissions([]string{
		"android.permission.CAMERA",
		"android.permission.CAMERA",
		"android.permission.INTERNET",
	}))
	assert.False(t, rec.SamePermissions([]string{
		"android.permission.CAMERA",
	}))
	assert.False(t, rec.SamePermissions([]string{
		"android.permission.CAMERA",
		"android.permission.INTERNET",
		"android.permission.READ_SMS",
	}))

	var nilRec *AppRecord
	assert.False(t, nilRec.SamePermissions(nil))

	empty := &AppRecord{}
	assert.True(t, empty.SamePermissions(nil))
}

func TestHasInternet(t *testing.T) {
	app := &InstalledApp{Permissions: []string{"android.permission.INTERNET"}}
	assert.True(t, app.HasInternet())

	app = &InstalledApp{Permissions: []string{"android.permission.CAMERA"}}
	assert.False(t, app.HasInternet())
}
