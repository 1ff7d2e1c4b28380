package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"argus/internal/domain/models"
	"argus/pkg/logger"
)

// ErrNoSnapshot is returned when no device has reported an inventory yet
var ErrNoSnapshot = errors.New("no inventory snapshot available")

// ErrSnapshotStale is returned when the newest reported inventory is older
// than the configured freshness window
var ErrSnapshotStale = errors.New("inventory snapshot is stale")

// Default freshness window for reported snapshots. A device that has not
// reported within this window is treated as offline.
const defaultMaxAge = 24 * time.Hour

// ReportedProvider serves the most recent inventory snapshot pushed by a
// device agent. Safe for concurrent use.
type ReportedProvider struct {
	maxAge time.Duration
	logger *logger.Logger

	mu         sync.RWMutex
	apps       []models.InstalledApp
	reportedAt time.Time
	deviceID   string
}

// NewReportedProvider creates a provider fed by agent reports. A zero
// maxAge uses the default freshness window.
func NewReportedProvider(maxAge time.Duration, log *logger.Logger) *ReportedProvider {
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	return &ReportedProvider{
		maxAge: maxAge,
		logger: log.WithComponent("inventory"),
	}
}

// Report replaces the stored snapshot with a fresh one from a device agent
func (p *ReportedProvider) Report(deviceID string, apps []models.InstalledApp) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.apps = make([]models.InstalledApp, len(apps))
	copy(p.apps, apps)
	p.reportedAt = time.Now()
	p.deviceID = deviceID

	p.logger.Info().
		Str("device", deviceID).
		Int("apps", len(apps)).
		Msg("inventory reported")
}

// Snapshot returns a copy of the latest reported inventory
func (p *ReportedProvider) Snapshot(ctx context.Context) ([]models.InstalledApp, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.reportedAt.IsZero() {
		return nil, ErrNoSnapshot
	}
	if time.Since(p.reportedAt) > p.maxAge {
		return nil, ErrSnapshotStale
	}

	out := make([]models.InstalledApp, len(p.apps))
	copy(out, p.apps)
	return out, nil
}

// ReportedAt returns when the current snapshot was received, zero if none
func (p *ReportedProvider) ReportedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reportedAt
}
