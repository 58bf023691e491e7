package service

import (
	"context"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

// TenantService resolves the tenant behind a principal. A missing or
// soft-deleted tenant is a NotFoundError.
type TenantService interface {
	Resolve(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
}

type tenantService struct {
	store repository.Store
}

func NewTenantService(store repository.Store) TenantService {
	return &tenantService{store: store}
}

func (s *tenantService) Resolve(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.store.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		return nil, domain.FailOp("resolve tenant", err)
	}
	return tenant, nil
}
