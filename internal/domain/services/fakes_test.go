package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"argus/internal/domain/models"
	"argus/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewDefault()
}

// memAppStore is an in-memory AppStore for tests
type memAppStore struct {
	mu              sync.Mutex
	records         map[string]*models.AppRecord
	failGet         bool
	failGetPkg      string
	failGetAttempts int // fail the first N Get calls
	getCalls        int
}

func newMemAppStore() *memAppStore {
	return &memAppStore{records: make(map[string]*models.AppRecord)}
}

func (s *memAppStore) Get(_ context.Context, pkg string) (*models.AppRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.failGet || (s.failGetPkg != "" && s.failGetPkg == pkg) {
		return nil, errors.New("store unavailable")
	}
	if s.getCalls <= s.failGetAttempts {
		return nil, errors.New("store unavailable")
	}
	rec, ok := s.records[pkg]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memAppStore) List(_ context.Context) ([]*models.AppRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.AppRecord, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PackageName < out[j].PackageName })
	return out, nil
}

func (s *memAppStore) Upsert(_ context.Context, rec *models.AppRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.PackageName] = &cp
	return nil
}

func (s *memAppStore) Delete(_ context.Context, pkg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, pkg)
	return nil
}

// memFeedbackStore is an in-memory FeedbackStore for tests
type memFeedbackStore struct {
	mu      sync.Mutex
	records map[string]*models.FeedbackRecord
}

func newMemFeedbackStore() *memFeedbackStore {
	return &memFeedbackStore{records: make(map[string]*models.FeedbackRecord)}
}

func (s *memFeedbackStore) Get(_ context.Context, pkg string) (*models.FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[pkg]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memFeedbackStore) List(_ context.Context) ([]*models.FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.FeedbackRecord, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memFeedbackStore) Put(_ context.Context, rec *models.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.PackageName] = &cp
	return nil
}

func (s *memFeedbackStore) Delete(_ context.Context, pkg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, pkg)
	return nil
}

// memExclusionStore is an in-memory ExclusionStore for tests
type memExclusionStore struct {
	mu      sync.Mutex
	records map[string]*models.ExclusionRecord
}

func newMemExclusionStore() *memExclusionStore {
	return &memExclusionStore{records: make(map[string]*models.ExclusionRecord)}
}

func (s *memExclusionStore) List(_ context.Context) ([]*models.ExclusionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ExclusionRecord, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memExclusionStore) Contains(_ context.Context, pkg string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[pkg]
	return ok, nil
}

func (s *memExclusionStore) Add(_ context.Context, rec *models.ExclusionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.PackageName] = &cp
	return nil
}

func (s *memExclusionStore) Remove(_ context.Context, pkg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, pkg)
	return nil
}

// staticInventory serves a fixed snapshot, optionally failing the first
// N calls
type staticInventory struct {
	mu       sync.Mutex
	apps     []models.InstalledApp
	failures int
	calls    int
}

func (p *staticInventory) Snapshot(_ context.Context) ([]models.InstalledApp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("inventory unavailable")
	}
	out := make([]models.InstalledApp, len(p.apps))
	copy(out, p.apps)
	return out, nil
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu        sync.Mutex
	started   int
	completed int
	failed    int
	flagged   []string
}

func (p *recordingPublisher) PublishScanStarted(_ context.Context, _ string, _ int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	return nil
}

func (p *recordingPublisher) PublishScanCompleted(_ context.Context, _ *models.ScanSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	return nil
}

func (p *recordingPublisher) PublishScanFailed(_ context.Context, _ string, _ error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
	return nil
}

func (p *recordingPublisher) PublishAppFlagged(_ context.Context, _ string, rec *models.AppRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flagged = append(p.flagged, rec.PackageName)
	return nil
}
