package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"argus/internal/domain/models"
)

// ExclusionRepository handles exclusion persistence
type ExclusionRepository struct {
	pool *pgxpool.Pool
}

// NewExclusionRepository creates a new exclusion repository
func NewExclusionRepository(pool *pgxpool.Pool) *ExclusionRepository {
	return &ExclusionRepository{pool: pool}
}

// List returns all exclusions ordered by package name
func (r *ExclusionRepository) List(ctx context.Context) ([]*models.ExclusionRecord, error) {
	query := `SELECT package_name, app_name, excluded_at FROM exclusions ORDER BY package_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exclusions: %w", err)
	}
	defer rows.Close()

	var out []*models.ExclusionRecord
	for rows.Next() {
		var rec models.ExclusionRecord
		if err := rows.Scan(&rec.PackageName, &rec.AppName, &rec.ExcludedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Contains reports whether a package is excluded
func (r *ExclusionRepository) Contains(ctx context.Context, packageName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM exclusions WHERE package_name = $1)`, packageName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check exclusion: %w", err)
	}
	return exists, nil
}

// Add marks a package as excluded, idempotent
func (r *ExclusionRepository) Add(ctx context.Context, rec *models.ExclusionRecord) error {
	query := `
		INSERT INTO exclusions (package_name, app_name, excluded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (package_name) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, rec.PackageName, rec.AppName, rec.ExcludedAt)
	if err != nil {
		return fmt.Errorf("failed to add exclusion: %w", err)
	}
	return nil
}

// Remove restores a package to analysis, idempotent
func (r *ExclusionRepository) Remove(ctx context.Context, packageName string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exclusions WHERE package_name = $1`, packageName)
	if err != nil {
		return fmt.Errorf("failed to remove exclusion: %w", err)
	}
	return nil
}
