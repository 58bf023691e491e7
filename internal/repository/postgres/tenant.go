package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type tenantRepository struct {
	db DBTX
}

func NewTenantRepository(db DBTX) repository.TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	query := `SELECT id, code, name, email, currency, timezone, locale, charge_unit, is_deleted, created_at, updated_at
	          FROM tenants WHERE id = $1 AND is_deleted = FALSE`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Code, &t.Name, &t.Email, &t.Currency, &t.Timezone, &t.Locale,
		&t.ChargeUnit, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("tenant", id.String())
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tenantRepository) ListActive(ctx context.Context) ([]domain.Tenant, error) {
	query := `SELECT id, code, name, email, currency, timezone, locale, charge_unit, is_deleted, created_at, updated_at
	          FROM tenants WHERE is_deleted = FALSE ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Email, &t.Currency, &t.Timezone,
			&t.Locale, &t.ChargeUnit, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *tenantRepository) GetChargeType(ctx context.Context, tenantID, id uuid.UUID) (*domain.ChargeType, error) {
	ct := &domain.ChargeType{}
	query := `SELECT id, tenant_id, name, unit FROM charge_types WHERE id = $1 AND tenant_id = $2`
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(&ct.ID, &ct.TenantID, &ct.Name, &ct.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("charge type", id.String())
	}
	if err != nil {
		return nil, err
	}
	return ct, nil
}
