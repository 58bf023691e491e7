package service

import (
	"context"
	"time"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
	"rentalfleet-backend/internal/security"
)

// statsService reads the precomputed aggregates; the cron in internal/jobs
// writes them.
type statsService struct {
	store repository.Store
}

func NewStatsService(store repository.Store) StatsService {
	return &statsService{store: store}
}

func (s *statsService) Monthly(ctx context.Context, p security.Principal, year int) ([]domain.TenantMonthlyStat, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	stats, err := s.store.Stats().ListMonthly(ctx, p.TenantID, year)
	if err != nil {
		return nil, domain.FailOp("list monthly stats", err)
	}
	return stats, nil
}

func (s *statsService) Yearly(ctx context.Context, p security.Principal) ([]domain.TenantYearlyStat, error) {
	stats, err := s.store.Stats().ListYearly(ctx, p.TenantID)
	if err != nil {
		return nil, domain.FailOp("list yearly stats", err)
	}
	return stats, nil
}
