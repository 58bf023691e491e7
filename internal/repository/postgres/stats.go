package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type statsRepository struct {
	db DBTX
}

func NewStatsRepository(db DBTX) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) UpsertMonthly(ctx context.Context, s *domain.TenantMonthlyStat) error {
	s.UpdatedAt = time.Now().UTC()
	query := `INSERT INTO tenant_monthly_stats (tenant_id, month, year, kind, value, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (tenant_id, month, year, kind)
	          DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query, s.TenantID, s.Month, s.Year, s.Kind, s.Value, s.UpdatedAt)
	return err
}

func (r *statsRepository) UpsertYearly(ctx context.Context, s *domain.TenantYearlyStat) error {
	s.UpdatedAt = time.Now().UTC()
	query := `INSERT INTO tenant_yearly_stats (tenant_id, year, kind, value, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (tenant_id, year, kind)
	          DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query, s.TenantID, s.Year, s.Kind, s.Value, s.UpdatedAt)
	return err
}

func (r *statsRepository) ListMonthly(ctx context.Context, tenantID uuid.UUID, year int) ([]domain.TenantMonthlyStat, error) {
	query := `SELECT tenant_id, month, year, kind, value, updated_at
	          FROM tenant_monthly_stats WHERE tenant_id = $1 AND year = $2 ORDER BY month, kind`
	rows, err := r.db.QueryContext(ctx, query, tenantID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.TenantMonthlyStat
	for rows.Next() {
		var s domain.TenantMonthlyStat
		if err := rows.Scan(&s.TenantID, &s.Month, &s.Year, &s.Kind, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) ListYearly(ctx context.Context, tenantID uuid.UUID) ([]domain.TenantYearlyStat, error) {
	query := `SELECT tenant_id, year, kind, value, updated_at
	          FROM tenant_yearly_stats WHERE tenant_id = $1 ORDER BY year DESC, kind`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.TenantYearlyStat
	for rows.Next() {
		var s domain.TenantYearlyStat
		if err := rows.Scan(&s.TenantID, &s.Year, &s.Kind, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
