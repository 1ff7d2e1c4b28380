package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"argus/internal/domain/models"
)

// AppRepository handles app record persistence
type AppRepository struct {
	pool *pgxpool.Pool
}

// NewAppRepository creates a new app repository
func NewAppRepository(pool *pgxpool.Pool) *AppRepository {
	return &AppRepository{pool: pool}
}

const appColumns = `package_name, app_name, permissions, category, risk_score, risk_level,
	trust_score, suspicious_perms, suspicious_count, critical_count, risk_factors,
	version_name, version_code, target_sdk, min_sdk, is_system_app, is_enabled,
	has_internet, size_bytes, installed_at, updated_at, last_scanned_at`

// Get fetches one app record, returning (nil, nil) when absent
func (r *AppRepository) Get(ctx context.Context, packageName string) (*models.AppRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM app_records WHERE package_name = $1`, appColumns)

	rec, err := scanAppRecord(r.pool.QueryRow(ctx, query, packageName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get app record: %w", err)
	}
	return rec, nil
}

// List returns all app records ordered by descending risk score
func (r *AppRepository) List(ctx context.Context) ([]*models.AppRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM app_records ORDER BY risk_score DESC, package_name`, appColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list app records: %w", err)
	}
	defer rows.Close()

	var out []*models.AppRecord
	for rows.Next() {
		rec, err := scanAppRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Upsert replaces the record for a package
func (r *AppRepository) Upsert(ctx context.Context, rec *models.AppRecord) error {
	query := `
		INSERT INTO app_records (
			package_name, app_name, permissions, category, risk_score, risk_level,
			trust_score, suspicious_perms, suspicious_count, critical_count, risk_factors,
			version_name, version_code, target_sdk, min_sdk, is_system_app, is_enabled,
			has_internet, size_bytes, installed_at, updated_at, last_scanned_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		ON CONFLICT (package_name) DO UPDATE SET
			app_name = EXCLUDED.app_name,
			permissions = EXCLUDED.permissions,
			category = EXCLUDED.category,
			risk_score = EXCLUDED.risk_score,
			risk_level = EXCLUDED.risk_level,
			trust_score = EXCLUDED.trust_score,
			suspicious_perms = EXCLUDED.suspicious_perms,
			suspicious_count = EXCLUDED.suspicious_count,
			critical_count = EXCLUDED.critical_count,
			risk_factors = EXCLUDED.risk_factors,
			version_name = EXCLUDED.version_name,
			version_code = EXCLUDED.version_code,
			target_sdk = EXCLUDED.target_sdk,
			min_sdk = EXCLUDED.min_sdk,
			is_system_app = EXCLUDED.is_system_app,
			is_enabled = EXCLUDED.is_enabled,
			has_internet = EXCLUDED.has_internet,
			size_bytes = EXCLUDED.size_bytes,
			installed_at = EXCLUDED.installed_at,
			updated_at = EXCLUDED.updated_at,
			last_scanned_at = EXCLUDED.last_scanned_at`

	_, err := r.pool.Exec(ctx, query,
		rec.PackageName, rec.AppName, rec.Permissions, string(rec.Category),
		rec.RiskScore, string(rec.RiskLevel), rec.TrustScore,
		rec.SuspiciousPerms, rec.SuspiciousCount, rec.CriticalCount, rec.RiskFactors,
		rec.VersionName, rec.VersionCode, rec.TargetSDK, rec.MinSDK,
		rec.IsSystemApp, rec.IsEnabled, rec.HasInternet, rec.SizeBytes,
		rec.InstalledAt, rec.UpdatedAt, rec.LastScannedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert app record: %w", err)
	}
	return nil
}

// Delete removes the record for a package
func (r *AppRepository) Delete(ctx context.Context, packageName string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM app_records WHERE package_name = $1`, packageName)
	if err != nil {
		return fmt.Errorf("failed to delete app record: %w", err)
	}
	return nil
}

func scanAppRecord(row pgx.Row) (*models.AppRecord, error) {
	var rec models.AppRecord
	var category, level string

	err := row.Scan(
		&rec.PackageName, &rec.AppName, &rec.Permissions, &category,
		&rec.RiskScore, &level, &rec.TrustScore,
		&rec.SuspiciousPerms, &rec.SuspiciousCount, &rec.CriticalCount, &rec.RiskFactors,
		&rec.VersionName, &rec.VersionCode, &rec.TargetSDK, &rec.MinSDK,
		&rec.IsSystemApp, &rec.IsEnabled, &rec.HasInternet, &rec.SizeBytes,
		&rec.InstalledAt, &rec.UpdatedAt, &rec.LastScannedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Category = models.AppCategory(category)
	rec.RiskLevel = models.RiskLevel(level)
	return &rec, nil
}
