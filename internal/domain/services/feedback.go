package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"argus/internal/domain/models"
	"argus/pkg/logger"
)

// Trust delta applied alongside the score adjustment when feedback is
// recorded. Trust and risk score move together, never independently.
const feedbackTrustDelta = 0.25

// Default trust substituted for a malformed legacy record field
const defaultLegacyTrust = 0.5

// FeedbackService records user trust/flag judgments and reconciles them
// with freshly computed scan results. All score-affecting writes for a
// package go through a per-package lock so a concurrent scan and feedback
// action cannot lose updates.
type FeedbackService struct {
	apps     AppStore
	feedback FeedbackStore
	logger   *logger.Logger

	locks packageLocks
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(apps AppStore, feedback FeedbackStore, log *logger.Logger) *FeedbackService {
	return &FeedbackService{
		apps:     apps,
		feedback: feedback,
		logger:   log.WithComponent("feedback"),
	}
}

// Record applies a TRUSTED or FLAGGED judgment to a package: the app's risk
// score and trust score are adjusted together and the feedback record is
// overwritten (latest write wins). Returns ErrAppNotFound without writing
// anything if the package has no analyzed record.
func (f *FeedbackService) Record(ctx context.Context, packageName string, fbType models.FeedbackType) (*models.AppRecord, error) {
	if !fbType.Valid() {
		return nil, fmt.Errorf("invalid feedback type %q", fbType)
	}

	unlock := f.locks.lock(packageName)
	defer unlock()

	rec, err := f.apps.Get(ctx, packageName)
	if err != nil {
		return nil, fmt.Errorf("failed to load app record: %w", err)
	}
	if rec == nil {
		return nil, ErrAppNotFound
	}

	adjusted := *rec
	switch fbType {
	case models.FeedbackTrusted:
		adjusted.RiskScore = maxInt(models.MinAdjustedScore, rec.RiskScore-models.DefaultFeedbackAdjustment)
		adjusted.TrustScore = clampTrust(rec.TrustScore + feedbackTrustDelta)
	case models.FeedbackFlagged:
		adjusted.RiskScore = minInt(models.MaxAdjustedScore, rec.RiskScore+models.DefaultFeedbackAdjustment)
		adjusted.TrustScore = clampTrust(rec.TrustScore - feedbackTrustDelta)
	}
	adjusted.RiskLevel = models.RiskLevelForAdjustedScore(adjusted.RiskScore)

	fb := &models.FeedbackRecord{
		PackageName: packageName,
		Type:        fbType,
		Adjustment:  models.DefaultFeedbackAdjustment,
		TrustScore:  adjusted.TrustScore,
		RecordedAt:  time.Now(),
	}
	if err := f.feedback.Put(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}
	if err := f.apps.Upsert(ctx, &adjusted); err != nil {
		return nil, fmt.Errorf("failed to store adjusted record: %w", err)
	}

	f.logger.Info().
		Str("package", packageName).
		Str("type", string(fbType)).
		Int("score", adjusted.RiskScore).
		Float64("trust", adjusted.TrustScore).
		Msg("feedback recorded")

	return &adjusted, nil
}

// Merge reconciles a freshly computed record with the prior state and any
// stored feedback. Pure: callers persist the returned record.
//
//   - no feedback on file: the fresh record is accepted unchanged
//   - feedback + identical permission set: the prior score, level and trust
//     are carried over verbatim; only non-scoring metadata is refreshed
//   - feedback + changed permissions: the fresh score is recomputed with
//     the stored adjustment applied, and trust is taken from the feedback
//     record rather than recomputed
func (f *FeedbackService) Merge(prior *models.AppRecord, fresh *models.AppRecord, fb *models.FeedbackRecord) *models.AppRecord {
	if fb == nil || prior == nil {
		return fresh
	}

	if prior.SamePermissions(fresh.Permissions) {
		preserved := *fresh
		preserved.RiskScore = prior.RiskScore
		preserved.RiskLevel = prior.RiskLevel
		preserved.TrustScore = prior.TrustScore
		preserved.SuspiciousPerms = prior.SuspiciousPerms
		preserved.SuspiciousCount = prior.SuspiciousCount
		preserved.CriticalCount = prior.CriticalCount
		preserved.RiskFactors = prior.RiskFactors
		return &preserved
	}

	adjustment := fb.Adjustment
	if adjustment <= 0 {
		adjustment = models.DefaultFeedbackAdjustment
	}

	merged := *fresh
	switch fb.Type {
	case models.FeedbackTrusted:
		merged.RiskScore = maxInt(models.MinAdjustedScore, fresh.RiskScore-adjustment)
	case models.FeedbackFlagged:
		merged.RiskScore = minInt(models.MaxAdjustedScore, fresh.RiskScore+adjustment)
	}
	merged.RiskLevel = models.RiskLevelForAdjustedScore(merged.RiskScore)
	merged.TrustScore = fb.TrustScore
	return &merged
}

// Lookup returns the stored feedback for a package, nil if none exists
func (f *FeedbackService) Lookup(ctx context.Context, packageName string) (*models.FeedbackRecord, error) {
	return f.feedback.Get(ctx, packageName)
}

// LockPackage acquires the per-package merge lock, returning the unlock
// function. The scanner holds it across its read-compute-write sequence.
func (f *FeedbackService) LockPackage(packageName string) func() {
	return f.locks.lock(packageName)
}

// ImportLegacy parses the flat-string feedback encoding used by earlier
// releases and stores each parsed record. Malformed fields are substituted
// with defaults, never rejected.
func (f *FeedbackService) ImportLegacy(ctx context.Context, encoded string) (int, error) {
	records := ParseLegacyFeedback(encoded, time.Now())
	for _, rec := range records {
		if err := f.feedback.Put(ctx, rec); err != nil {
			return 0, fmt.Errorf("failed to import feedback for %s: %w", rec.PackageName, err)
		}
	}
	return len(records), nil
}

// ParseLegacyFeedback decodes the legacy "pkg:TYPE:adjustment:trust:ts"
// records joined by "|". Per-field defaulting: adjustment 25, trust 0.5,
// timestamp now. Entries without a package name or a valid type are
// skipped entirely.
func ParseLegacyFeedback(encoded string, now time.Time) []*models.FeedbackRecord {
	var out []*models.FeedbackRecord

	for _, entry := range strings.Split(encoded, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, ":")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}

		fbType := models.FeedbackType(strings.ToUpper(fields[1]))
		if !fbType.Valid() {
			continue
		}

		rec := &models.FeedbackRecord{
			PackageName: fields[0],
			Type:        fbType,
			Adjustment:  models.DefaultFeedbackAdjustment,
			TrustScore:  defaultLegacyTrust,
			RecordedAt:  now,
		}
		if len(fields) > 2 {
			if adj, err := strconv.Atoi(fields[2]); err == nil && adj > 0 {
				rec.Adjustment = adj
			}
		}
		if len(fields) > 3 {
			if trust, err := strconv.ParseFloat(fields[3], 64); err == nil && trust >= 0 && trust <= 1 {
				rec.TrustScore = trust
			}
		}
		if len(fields) > 4 {
			if ts, err := strconv.ParseInt(fields[4], 10, 64); err == nil && ts > 0 {
				rec.RecordedAt = time.UnixMilli(ts)
			}
		}
		out = append(out, rec)
	}

	return out
}

// packageLocks is a keyed mutex: one lock per package name. Write volume
// is low, so entries are never evicted.
type packageLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *packageLocks) lock(key string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func clampTrust(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
