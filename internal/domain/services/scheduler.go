package services

import (
	"context"
	"time"

	"argus/pkg/logger"
)

// Scan interval bounds. Configured values outside this range are clamped,
// never rejected.
const (
	DefaultScanInterval = 15 * time.Minute
	MinScanInterval     = 5 * time.Minute
	MaxScanInterval     = 720 * time.Minute
)

const scanLockKey = "scan:running"

// ScanLocker provides a distributed lock so at most one scan runs at a
// time across all instances. A nil locker degrades to per-process
// scheduling only.
type ScanLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// Scheduler runs periodic scans and serves on-demand triggers
type Scheduler struct {
	scanner  *Scanner
	locker   ScanLocker
	interval time.Duration
	logger   *logger.Logger

	trigger chan chan error
}

// NewScheduler creates a new scheduler with the given interval, clamped
// to the allowed range.
func NewScheduler(scanner *Scanner, locker ScanLocker, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		locker:   locker,
		interval: ClampScanInterval(interval),
		logger:   log.WithComponent("scheduler"),
		trigger:  make(chan chan error, 1),
	}
}

// ClampScanInterval normalizes a configured scan interval. Zero or
// negative values fall back to the default.
func ClampScanInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return DefaultScanInterval
	}
	if interval < MinScanInterval {
		return MinScanInterval
	}
	if interval > MaxScanInterval {
		return MaxScanInterval
	}
	return interval
}

// Interval returns the effective scan interval
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run executes the scheduling loop until the context is canceled. The
// first scan runs immediately rather than waiting a full interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runGuarded(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopping")
			return
		case <-ticker.C:
			s.runGuarded(ctx)
		case done := <-s.trigger:
			done <- s.runGuarded(ctx)
		}
	}
}

// ScanNow triggers an immediate scan and waits for it to finish. Returns
// without scanning if the scheduler is stopped before the trigger is
// picked up.
func (s *Scheduler) ScanNow(ctx context.Context) error {
	done := make(chan error, 1)
	select {
	case s.trigger <- done:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runGuarded runs one scan under the distributed lock. When another
// instance holds the lock the scan is skipped silently.
func (s *Scheduler) runGuarded(ctx context.Context) error {
	if s.locker != nil {
		acquired, err := s.locker.AcquireLock(ctx, scanLockKey, s.interval)
		if err != nil {
			s.logger.Warn().Err(err).Msg("scan lock unavailable, proceeding without it")
		} else if !acquired {
			s.logger.Debug().Msg("scan already running elsewhere, skipping")
			return nil
		} else {
			defer func() {
				if err := s.locker.ReleaseLock(ctx, scanLockKey); err != nil {
					s.logger.Warn().Err(err).Msg("failed to release scan lock")
				}
			}()
		}
	}

	_, err := s.scanner.RunScan(ctx)
	return err
}
