package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"argus/internal/domain/models"
)

// FeedbackRepository handles user feedback persistence
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Get fetches feedback for one package, returning (nil, nil) when absent
func (r *FeedbackRepository) Get(ctx context.Context, packageName string) (*models.FeedbackRecord, error) {
	query := `
		SELECT package_name, feedback_type, adjustment, trust_score, recorded_at
		FROM feedback_records WHERE package_name = $1`

	rec, err := scanFeedbackRecord(r.pool.QueryRow(ctx, query, packageName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return rec, nil
}

// List returns all feedback records
func (r *FeedbackRepository) List(ctx context.Context) ([]*models.FeedbackRecord, error) {
	query := `
		SELECT package_name, feedback_type, adjustment, trust_score, recorded_at
		FROM feedback_records ORDER BY package_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var out []*models.FeedbackRecord
	for rows.Next() {
		rec, err := scanFeedbackRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Put replaces the feedback for a package, latest write wins
func (r *FeedbackRepository) Put(ctx context.Context, rec *models.FeedbackRecord) error {
	query := `
		INSERT INTO feedback_records (package_name, feedback_type, adjustment, trust_score, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (package_name) DO UPDATE SET
			feedback_type = EXCLUDED.feedback_type,
			adjustment = EXCLUDED.adjustment,
			trust_score = EXCLUDED.trust_score,
			recorded_at = EXCLUDED.recorded_at`

	_, err := r.pool.Exec(ctx, query,
		rec.PackageName, string(rec.Type), rec.Adjustment, rec.TrustScore, rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}

// Delete removes the feedback for a package
func (r *FeedbackRepository) Delete(ctx context.Context, packageName string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM feedback_records WHERE package_name = $1`, packageName)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

func scanFeedbackRecord(row pgx.Row) (*models.FeedbackRecord, error) {
	var rec models.FeedbackRecord
	var fbType string

	err := row.Scan(&rec.PackageName, &fbType, &rec.Adjustment, &rec.TrustScore, &rec.RecordedAt)
	if err != nil {
		return nil, err
	}

	rec.Type = models.FeedbackType(fbType)
	return &rec, nil
}
