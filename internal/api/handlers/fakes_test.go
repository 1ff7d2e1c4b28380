package handlers

import (
	"context"
	"sync"

	"argus/internal/domain/models"
	"argus/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewDefault()
}

// In-memory stores backing handler tests

type memAppStore struct {
	mu      sync.Mutex
	records map[string]*models.AppRecord
}

func newMemAppStore() *memAppStore {
	return &memAppStore{records: make(map[string]*models.AppRecord)}
}

func (s *memAppStore) Get(_ context.Context, pkg string) (*models.AppRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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

// fixedInventory serves a fixed snapshot
type fixedInventory struct {
	apps []models.InstalledApp
}

func (p *fixedInventory) Snapshot(_ context.Context) ([]models.InstalledApp, error) {
	out := make([]models.InstalledApp, len(p.apps))
	copy(out, p.apps)
	return out, nil
}
