package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"argus/internal/domain/services"
)

// Repositories bundles all postgres-backed stores
type Repositories struct {
	Apps       *AppRepository
	Feedback   *FeedbackRepository
	Exclusions *ExclusionRepository
}

// New creates all repositories on a shared pool
func New(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Apps:       NewAppRepository(pool),
		Feedback:   NewFeedbackRepository(pool),
		Exclusions: NewExclusionRepository(pool),
	}
}

var (
	_ services.AppStore       = (*AppRepository)(nil)
	_ services.FeedbackStore  = (*FeedbackRepository)(nil)
	_ services.ExclusionStore = (*ExclusionRepository)(nil)
)
