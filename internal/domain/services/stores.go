package services

import (
	"context"
	"errors"

	"argus/internal/domain/models"
)

// Storage errors
var (
	// ErrAppNotFound is returned when an operation references a package
	// that has no analyzed record
	ErrAppNotFound = errors.New("app record not found")
)

// AppStore persists analyzed app records. Implementations must treat every
// write as a whole-record replacement; a failed write leaves the prior
// record intact. Get returns (nil, nil) when no record exists.
type AppStore interface {
	Get(ctx context.Context, packageName string) (*models.AppRecord, error)
	List(ctx context.Context) ([]*models.AppRecord, error)
	Upsert(ctx context.Context, rec *models.AppRecord) error
	Delete(ctx context.Context, packageName string) error
}

// FeedbackStore persists user feedback records, at most one per package
// with latest-write-wins semantics. Get returns (nil, nil) when no
// feedback exists.
type FeedbackStore interface {
	Get(ctx context.Context, packageName string) (*models.FeedbackRecord, error)
	List(ctx context.Context) ([]*models.FeedbackRecord, error)
	Put(ctx context.Context, rec *models.FeedbackRecord) error
	Delete(ctx context.Context, packageName string) error
}

// ExclusionStore tracks packages manually removed from analysis
type ExclusionStore interface {
	List(ctx context.Context) ([]*models.ExclusionRecord, error)
	Contains(ctx context.Context, packageName string) (bool, error)
	Add(ctx context.Context, rec *models.ExclusionRecord) error
	Remove(ctx context.Context, packageName string) error
}
