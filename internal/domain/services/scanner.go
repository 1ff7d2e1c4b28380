package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"argus/internal/domain/models"
	"argus/pkg/logger"
)

// scanAttempts is the number of tries for transient I/O during a scan,
// covering both the inventory snapshot and per-app storage access.
const scanAttempts = 3

// Delay between retry attempts. Variable so tests can shorten it.
var scanRetryDelay = 2 * time.Second

// InventoryProvider supplies the current set of installed apps
type InventoryProvider interface {
	Snapshot(ctx context.Context) ([]models.InstalledApp, error)
}

// SummaryCache stores the latest scan summary for fast retrieval
type SummaryCache interface {
	CacheScanSummary(ctx context.Context, summary any, ttl time.Duration) error
}

// EventPublisher publishes scan lifecycle and per-app risk events
type EventPublisher interface {
	PublishScanStarted(ctx context.Context, scanID string, apps int) error
	PublishScanCompleted(ctx context.Context, summary *models.ScanSummary) error
	PublishScanFailed(ctx context.Context, scanID string, err error) error
	PublishAppFlagged(ctx context.Context, scanID string, rec *models.AppRecord) error
}

// Scanner runs the analysis pipeline over the device inventory: fetch the
// snapshot, drop excluded packages, score each remaining app, reconcile
// with stored user feedback and persist the result.
type Scanner struct {
	inventory  InventoryProvider
	apps       AppStore
	exclusions ExclusionStore
	scorer     *RiskScorer
	feedback   *FeedbackService
	publisher  EventPublisher
	summaries  SummaryCache
	logger     *logger.Logger
}

// SetSummaryCache wires an optional summary cache
func (s *Scanner) SetSummaryCache(c SummaryCache) {
	s.summaries = c
}

// NewScanner creates a new scanner
func NewScanner(
	inventory InventoryProvider,
	apps AppStore,
	exclusions ExclusionStore,
	scorer *RiskScorer,
	feedback *FeedbackService,
	publisher EventPublisher,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		inventory:  inventory,
		apps:       apps,
		exclusions: exclusions,
		scorer:     scorer,
		feedback:   feedback,
		publisher:  publisher,
		logger:     log.WithComponent("scanner"),
	}
}

// RunScan executes a full scan and returns its summary. Per-app failures
// are logged and skipped, the scan only fails as a whole when the
// inventory snapshot cannot be fetched.
func (s *Scanner) RunScan(ctx context.Context) (*models.ScanSummary, error) {
	scanID := uuid.New().String()
	started := time.Now()
	log := s.logger.WithScan(scanID)

	snapshot, err := s.fetchSnapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scan failed, inventory unavailable")
		if s.publisher != nil {
			s.publisher.PublishScanFailed(ctx, scanID, err)
		}
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	log.Info().Int("apps", len(snapshot)).Msg("scan started")
	if s.publisher != nil {
		s.publisher.PublishScanStarted(ctx, scanID, len(snapshot))
	}

	summary := &models.ScanSummary{
		ScanID: scanID,
		Apps:   len(snapshot),
	}

	for i := range snapshot {
		app := &snapshot[i]

		excluded, err := s.exclusions.Contains(ctx, app.PackageName)
		if err != nil {
			log.Warn().Err(err).Str("package", app.PackageName).Msg("exclusion check failed, scanning anyway")
		}
		if excluded {
			summary.Excluded++
			continue
		}

		rec, preserved, err := s.scanAppWithRetry(ctx, app)
		if err != nil {
			log.Warn().Err(err).Str("package", app.PackageName).Msg("failed to scan app")
			summary.Failed++
			continue
		}
		summary.Scanned++
		if preserved {
			summary.Preserved++
		}

		if rec.RiskLevel == models.RiskLevelHigh || rec.RiskLevel == models.RiskLevelCritical {
			summary.Flagged++
			if s.publisher != nil {
				s.publisher.PublishAppFlagged(ctx, scanID, rec)
			}
		}
	}

	summary.Duration = time.Since(started)
	summary.CompletedAt = time.Now()

	// A scan where storage swallowed every app is a failed scan, not a
	// quiet success. Partial failures are counted and reported instead.
	if summary.Failed > 0 && summary.Scanned == 0 {
		err := fmt.Errorf("all %d apps failed to scan", summary.Failed)
		log.Error().Err(err).Msg("scan failed, storage unavailable")
		if s.publisher != nil {
			s.publisher.PublishScanFailed(ctx, scanID, err)
		}
		return nil, err
	}

	log.Info().
		Int("scanned", summary.Scanned).
		Int("excluded", summary.Excluded).
		Int("flagged", summary.Flagged).
		Int("failed", summary.Failed).
		Int("preserved", summary.Preserved).
		Dur("duration", summary.Duration).
		Msg("scan completed")

	if s.summaries != nil {
		if err := s.summaries.CacheScanSummary(ctx, summary, time.Hour); err != nil {
			log.Warn().Err(err).Msg("failed to cache scan summary")
		}
	}
	if s.publisher != nil {
		s.publisher.PublishScanCompleted(ctx, summary)
	}

	return summary, nil
}

// scanAppWithRetry retries scanApp on failure. App record and feedback
// storage share the transient-failure policy of the inventory snapshot:
// up to scanAttempts tries, then the app counts as failed for this cycle.
func (s *Scanner) scanAppWithRetry(ctx context.Context, app *models.InstalledApp) (*models.AppRecord, bool, error) {
	var lastErr error
	for attempt := 1; attempt <= scanAttempts; attempt++ {
		rec, preserved, err := s.scanApp(ctx, app)
		if err == nil {
			return rec, preserved, nil
		}
		lastErr = err
		s.logger.Warn().Err(err).Str("package", app.PackageName).Int("attempt", attempt).Msg("app scan attempt failed")

		if attempt < scanAttempts {
			select {
			case <-ctx.Done():
				return nil, false, ctx.Err()
			case <-time.After(scanRetryDelay):
			}
		}
	}
	return nil, false, lastErr
}

// scanApp analyzes one app and persists the reconciled record. The
// per-package lock is held across the read-compute-write sequence so a
// concurrent feedback action cannot interleave. The second return value
// reports whether a prior feedback-adjusted result was preserved.
func (s *Scanner) scanApp(ctx context.Context, app *models.InstalledApp) (*models.AppRecord, bool, error) {
	unlock := s.feedback.LockPackage(app.PackageName)
	defer unlock()

	prior, err := s.apps.Get(ctx, app.PackageName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load prior record: %w", err)
	}
	fb, err := s.feedback.Lookup(ctx, app.PackageName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load feedback: %w", err)
	}

	fresh := s.analyze(app, time.Now())
	merged := s.feedback.Merge(prior, fresh, fb)
	preserved := fb != nil && prior != nil && prior.SamePermissions(app.Permissions)

	if err := s.apps.Upsert(ctx, merged); err != nil {
		return nil, false, fmt.Errorf("failed to store record: %w", err)
	}

	return merged, preserved, nil
}

// analyze builds a fresh record for an app from classification and scoring
func (s *Scanner) analyze(app *models.InstalledApp, now time.Time) *models.AppRecord {
	assessment := s.scorer.Score(app, now)

	return &models.AppRecord{
		PackageName:     app.PackageName,
		AppName:         app.AppName,
		Permissions:     app.Permissions,
		Category:        app.Category,
		RiskScore:       assessment.Score,
		RiskLevel:       assessment.Level,
		TrustScore:      models.DefaultTrustScore,
		SuspiciousPerms: assessment.SuspiciousPerms,
		SuspiciousCount: len(assessment.SuspiciousPerms),
		CriticalCount:   assessment.CriticalCount,
		RiskFactors:     assessment.Factors,
		VersionName:     app.VersionName,
		VersionCode:     app.VersionCode,
		TargetSDK:       app.TargetSDK,
		MinSDK:          app.MinSDK,
		IsSystemApp:     app.IsSystemApp,
		IsEnabled:       app.IsEnabled,
		HasInternet:     app.HasInternet(),
		SizeBytes:       app.SizeBytes,
		InstalledAt:     app.InstalledAt,
		UpdatedAt:       app.UpdatedAt,
		LastScannedAt:   now,
	}
}

func (s *Scanner) fetchSnapshot(ctx context.Context) ([]models.InstalledApp, error) {
	var lastErr error
	for attempt := 1; attempt <= scanAttempts; attempt++ {
		snapshot, err := s.inventory.Snapshot(ctx)
		if err == nil {
			return snapshot, nil
		}
		lastErr = err
		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("inventory snapshot failed")

		if attempt < scanAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(scanRetryDelay):
			}
		}
	}
	return nil, lastErr
}
