package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/domain/models"
)

func newTestFeedbackService() (*FeedbackService, *memAppStore, *memFeedbackStore) {
	apps := newMemAppStore()
	fbs := newMemFeedbackStore()
	return NewFeedbackService(apps, fbs, testLogger()), apps, fbs
}

func TestRecordTrusted(t *testing.T) {
	ctx := context.Background()
	svc, apps, fbs := newTestFeedbackService()

	require.NoError(t, apps.Upsert(ctx, &models.AppRecord{
		PackageName: "com.example.app",
		RiskScore:   60,
		RiskLevel:   models.RiskLevelHigh,
		TrustScore:  0.5,
	}))

	got, err := svc.Record(ctx, "com.example.app", models.FeedbackTrusted)
	require.NoError(t, err)

	assert.Equal(t, 35, got.RiskScore)
	assert.Equal(t, models.RiskLevelLow, got.RiskLevel)
	assert.Equal(t, 0.75, got.TrustScore)

	stored, err := apps.Get(ctx, "com.example.app")
	require.NoError(t, err)
	assert.Equal(t, 35, stored.RiskScore)

	fb, err := fbs.Get(ctx, "com.example.app")
	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, models.FeedbackTrusted, fb.Type)
	assert.Equal(t, models.DefaultFeedbackAdjustment, fb.Adjustment)
	assert.Equal(t, 0.75, fb.TrustScore)
}

func TestRecordFlagged(t *testing.T) {
	ctx := context.Background()
	svc, apps, _ := newTestFeedbackService()

	require.NoError(t, apps.Upsert(ctx, &models.AppRecord{
		PackageName: "com.example.app",
		RiskScore:   60,
		RiskLevel:   models.RiskLevelHigh,
		TrustScore:  0.5,
	}))

	got, err := svc.Record(ctx, "com.example.app", models.FeedbackFlagged)
	require.NoError(t, err)

	assert.Equal(t, 85, got.RiskScore)
	assert.Equal(t, models.RiskLevelCritical, got.RiskLevel)
	assert.Equal(t, 0.25, got.TrustScore)
}

func TestRecordScoreAndTrustClamps(t *testing.T) {
	ctx := context.Background()
	svc, apps, _ := newTestFeedbackService()

	require.NoError(t, apps.Upsert(ctx, &models.AppRecord{
		PackageName: "com.example.low",
		RiskScore:   20,
		TrustScore:  0.9,
	}))

	got, err := svc.Record(ctx, "com.example.low", models.FeedbackTrusted)
	require.NoError(t, err)

	assert.Equal(t, models.MinAdjustedScore, got.RiskScore)
	assert.Equal(t, models.RiskLevelUnknown, got.RiskLevel)
	assert.Equal(t, 1.0, got.TrustScore)
}

func TestRecordUnknownPackage(t *testing.T) {
	svc, _, _ := newTestFeedbackService()

	_, err := svc.Record(context.Background(), "com.example.missing", models.FeedbackTrusted)
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestRecordInvalidType(t *testing.T) {
	svc, _, _ := newTestFeedbackService()

	_, err := svc.Record(context.Background(), "com.example.app", models.FeedbackType("MAYBE"))
	assert.Error(t, err)
}

func TestMergeWithoutFeedback(t *testing.T) {
	svc, _, _ := newTestFeedbackService()

	fresh := &models.AppRecord{PackageName: "com.example.app", RiskScore: 42}

	assert.Same(t, fresh, svc.Merge(nil, fresh, nil))
	assert.Same(t, fresh, svc.Merge(&models.AppRecord{}, fresh, nil))
	assert.Same(t, fresh, svc.Merge(nil, fresh, &models.FeedbackRecord{}))
}

func TestMergePreservesOnSamePermissions(t *testing.T) {
	svc, _, _ := newTestFeedbackService()

	prior := &models.AppRecord{
		PackageName:     "com.example.app",
		Permissions:     []string{"android.permission.CAMERA", "android.permission.INTERNET"},
		RiskScore:       15,
		RiskLevel:       models.RiskLevelMinimal,
		TrustScore:      0.75,
		SuspiciousPerms: []string{"android.permission.CAMERA"},
		SuspiciousCount: 1,
		CriticalCount:   1,
		RiskFactors:     []string{"requests sensitive permissions"},
		VersionName:     "1.0",
	}
	fresh := &models.AppRecord{
		PackageName:     "com.example.app",
		Permissions:     []string{"android.permission.INTERNET", "android.permission.CAMERA"},
		RiskScore:       40,
		RiskLevel:       models.RiskLevelMedium,
		TrustScore:      models.DefaultTrustScore,
		SuspiciousPerms: []string{"android.permission.CAMERA"},
		SuspiciousCount: 1,
		CriticalCount:   1,
		RiskFactors:     []string{"requests sensitive permissions"},
		VersionName:     "2.0",
	}
	fb := &models.FeedbackRecord{
		PackageName: "com.example.app",
		Type:        models.FeedbackTrusted,
		Adjustment:  25,
		TrustScore:  0.75,
	}

	got := svc.Merge(prior, fresh, fb)

	assert.Equal(t, 15, got.RiskScore)
	assert.Equal(t, models.RiskLevelMinimal, got.RiskLevel)
	assert.Equal(t, 0.75, got.TrustScore)
	assert.Equal(t, prior.SuspiciousPerms, got.SuspiciousPerms)
	assert.Equal(t, prior.RiskFactors, got.RiskFactors)
	assert.Equal(t, "2.0", got.VersionName)
}

func TestMergeRecomputesOnChangedPermissions(t *testing.T) {
	svc, _, _ := newTestFeedbackService()

	prior := &models.AppRecord{
		PackageName: "com.example.app",
		Permissions: []string{"android.permission.INTERNET"},
		RiskScore:   15,
	}
	fresh := &models.AppRecord{
		PackageName: "com.example.app",
		Permissions: []string{"android.permission.INTERNET", "android.permission.CAMERA"},
		RiskScore:   40,
		RiskLevel:   models.RiskLevelMedium,
		TrustScore:  models.DefaultTrustScore,
	}
	fb := &models.FeedbackRecord{
		PackageName: "com.example.app",
		Type:        models.FeedbackFlagged,
		Adjustment:  10,
		TrustScore:  0.3,
	}

	got := svc.Merge(prior, fresh, fb)

	assert.Equal(t, 50, got.RiskScore)
	assert.Equal(t, models.RiskLevelMedium, got.RiskLevel)
	assert.Equal(t, 0.3, got.TrustScore)
}

func TestMergeDefaultsNonPositiveAdjustment(t *testing.T) {
	svc, _, _ := newTestFeedbackService()

	prior := &models.AppRecord{
		PackageName: "com.example.app",
		Permissions: []string{"android.permission.INTERNET"},
	}
	fresh := &models.AppRecord{
		PackageName: "com.example.app",
		Permissions: []string{"android.permission.CAMERA"},
		RiskScore:   40,
	}
	fb := &models.FeedbackRecord{
		PackageName: "com.example.app",
		Type:        models.FeedbackTrusted,
		Adjustment:  0,
		TrustScore:  0.75,
	}

	got := svc.Merge(prior, fresh, fb)

	assert.Equal(t, 15, got.RiskScore)
	assert.Equal(t, models.RiskLevelMinimal, got.RiskLevel)
}

func TestParseLegacyFeedback(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2024, 11, 15, 6, 13, 20, 0, time.UTC)

	encoded := "com.a:TRUSTED:30:0.8:1731651200000" +
		"|com.b:flagged" +
		"|com.c:TRUSTED:xx:9.5:-1" +
		"|  " +
		"|:TRUSTED" +
		"|com.d" +
		"|com.e:MAYBE"

	got := ParseLegacyFeedback(encoded, now)
	require.Len(t, got, 3)

	assert.Equal(t, "com.a", got[0].PackageName)
	assert.Equal(t, models.FeedbackTrusted, got[0].Type)
	assert.Equal(t, 30, got[0].Adjustment)
	assert.Equal(t, 0.8, got[0].TrustScore)
	assert.True(t, got[0].RecordedAt.Equal(ts), "got %v", got[0].RecordedAt)

	// Type is case-insensitive, missing fields take defaults.
	assert.Equal(t, "com.b", got[1].PackageName)
	assert.Equal(t, models.FeedbackFlagged, got[1].Type)
	assert.Equal(t, models.DefaultFeedbackAdjustment, got[1].Adjustment)
	assert.Equal(t, defaultLegacyTrust, got[1].TrustScore)
	assert.Equal(t, now, got[1].RecordedAt)

	// Malformed fields default per field, the entry itself survives.
	assert.Equal(t, "com.c", got[2].PackageName)
	assert.Equal(t, models.DefaultFeedbackAdjustment, got[2].Adjustment)
	assert.Equal(t, defaultLegacyTrust, got[2].TrustScore)
	assert.Equal(t, now, got[2].RecordedAt)
}

func TestImportLegacy(t *testing.T) {
	ctx := context.Background()
	svc, _, fbs := newTestFeedbackService()

	n, err := svc.ImportLegacy(ctx, "com.a:TRUSTED|com.b:FLAGGED:40|junk")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fb, err := fbs.Get(ctx, "com.b")
	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, 40, fb.Adjustment)
}
