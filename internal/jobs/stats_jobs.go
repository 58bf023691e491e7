package jobs

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/logger"
)

// RecomputeMonthlyStats rebuilds every month of the current year for each
// active tenant: earnings (payments minus refunds on completed rentals),
// completed rental counts and per-status counts.
func (jr *JobRunner) RecomputeMonthlyStats() {
	jr.runWithRecovery("RecomputeMonthlyStats", func() {
		ctx := context.Background()
		now := time.Now().UTC()
		year := now.Year()

		jr.forEachTenant(ctx, "RecomputeMonthlyStats", func(ctx context.Context, tenant domain.Tenant) error {
			for month := 1; month <= 12; month++ {
				from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
				if from.After(now) {
					break
				}
				to := from.AddDate(0, 1, 0)
				if err := jr.recomputeMonth(ctx, tenant, month, year, from, to); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (jr *JobRunner) recomputeMonth(ctx context.Context, tenant domain.Tenant, month, year int, from, to time.Time) error {
	payments, err := jr.store.Payments().SumBetween(ctx, tenant.ID, domain.TransactionKindPayment, from, to)
	if err != nil {
		return err
	}
	refunds, err := jr.store.Payments().SumBetween(ctx, tenant.ID, domain.TransactionKindRefund, from, to)
	if err != nil {
		return err
	}
	earnings := payments.Sub(refunds)

	completed, err := jr.store.Bookings().CountStartingBetween(ctx, tenant.ID, domain.BookingStatusCompleted, from, to)
	if err != nil {
		return err
	}
	byStatus, err := jr.store.Bookings().CountByStatusBetween(ctx, tenant.ID, from, to)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	upsert := func(kind domain.StatKind, value decimal.Decimal) error {
		return jr.store.Stats().UpsertMonthly(ctx, &domain.TenantMonthlyStat{
			TenantID:  tenant.ID,
			Month:     month,
			Year:      year,
			Kind:      kind,
			Value:     value,
			UpdatedAt: now,
		})
	}

	if err := upsert(domain.StatKindMonthlyEarnings, earnings); err != nil {
		return err
	}
	if err := upsert(domain.StatKindMonthlyRentals, decimal.NewFromInt(int64(completed))); err != nil {
		return err
	}
	for status, count := range byStatus {
		if err := upsert(domain.MonthlyStatusKind(status), decimal.NewFromInt(int64(count))); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeYearlyStats rebuilds the current and prior year aggregates:
// revenue, rental count, new customers and average rental duration.
func (jr *JobRunner) RecomputeYearlyStats() {
	jr.runWithRecovery("RecomputeYearlyStats", func() {
		ctx := context.Background()
		current := time.Now().UTC().Year()

		jr.forEachTenant(ctx, "RecomputeYearlyStats", func(ctx context.Context, tenant domain.Tenant) error {
			for _, year := range []int{current - 1, current} {
				if err := jr.recomputeYear(ctx, tenant, year); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (jr *JobRunner) recomputeYear(ctx context.Context, tenant domain.Tenant, year int) error {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	payments, err := jr.store.Payments().SumBetween(ctx, tenant.ID, domain.TransactionKindPayment, from, to)
	if err != nil {
		return err
	}
	refunds, err := jr.store.Payments().SumBetween(ctx, tenant.ID, domain.TransactionKindRefund, from, to)
	if err != nil {
		return err
	}
	revenue := payments.Sub(refunds)

	rentals, err := jr.store.Bookings().CountStartingBetween(ctx, tenant.ID, domain.BookingStatusCompleted, from, to)
	if err != nil {
		return err
	}
	newCustomers, err := jr.store.Customers().CountCreatedBetween(ctx, tenant.ID, from, to)
	if err != nil {
		return err
	}
	avgDuration, err := jr.store.Bookings().AvgCompletedDurationDays(ctx, tenant.ID, from, to)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	upsert := func(kind domain.StatKind, value decimal.Decimal) error {
		return jr.store.Stats().UpsertYearly(ctx, &domain.TenantYearlyStat{
			TenantID:  tenant.ID,
			Year:      year,
			Kind:      kind,
			Value:     value,
			UpdatedAt: now,
		})
	}

	if err := upsert(domain.StatKindYearlyRevenue, revenue); err != nil {
		return err
	}
	if err := upsert(domain.StatKindYearlyRentals, decimal.NewFromInt(int64(rentals))); err != nil {
		return err
	}
	if err := upsert(domain.StatKindYearlyNewCustomers, decimal.NewFromInt(int64(newCustomers))); err != nil {
		return err
	}
	if err := upsert(domain.StatKindYearlyAvgDuration, avgDuration); err != nil {
		return err
	}

	logger.Debug("Yearly stats recomputed", "tenant_id", tenant.ID, "year", year)
	return nil
}
