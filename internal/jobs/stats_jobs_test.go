package jobs

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/realtime"
	"rentalfleet-backend/internal/service"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestRecomputeMonthlyStats(t *testing.T) {
	tenantID := uuid.New()
	store := newMockStore()
	store.tenants.On("ListActive", mock.Anything).Return([]domain.Tenant{{ID: tenantID, Code: "ACME"}}, nil)
	store.payments.On("SumBetween", mock.Anything, tenantID, domain.TransactionKindPayment, mock.Anything, mock.Anything).Return(d("535"), nil)
	store.payments.On("SumBetween", mock.Anything, tenantID, domain.TransactionKindRefund, mock.Anything, mock.Anything).Return(d("100"), nil)
	store.bookings.On("CountStartingBetween", mock.Anything, tenantID, domain.BookingStatusCompleted, mock.Anything, mock.Anything).Return(3, nil)
	store.bookings.On("CountByStatusBetween", mock.Anything, tenantID, mock.Anything, mock.Anything).
		Return(map[domain.BookingStatus]int{
			domain.BookingStatusCompleted: 3,
			domain.BookingStatusCanceled:  1,
		}, nil)
	store.stats.On("UpsertMonthly", mock.Anything, mock.AnythingOfType("*domain.TenantMonthlyStat")).Return(nil)

	jr := NewJobRunner(store, service.NewDispatcher(store, nil, nil, realtime.NewHub()), nil)
	jr.RecomputeMonthlyStats()

	// Earnings are payments minus refunds.
	store.stats.AssertCalled(t, "UpsertMonthly", mock.Anything, mock.MatchedBy(func(s *domain.TenantMonthlyStat) bool {
		return s.Kind == domain.StatKindMonthlyEarnings && s.Value.Equal(d("435"))
	}))
	store.stats.AssertCalled(t, "UpsertMonthly", mock.Anything, mock.MatchedBy(func(s *domain.TenantMonthlyStat) bool {
		return s.Kind == domain.StatKindMonthlyRentals && s.Value.Equal(d("3"))
	}))
	store.stats.AssertCalled(t, "UpsertMonthly", mock.Anything, mock.MatchedBy(func(s *domain.TenantMonthlyStat) bool {
		return s.Kind == domain.MonthlyStatusKind(domain.BookingStatusCanceled) && s.Value.Equal(d("1"))
	}))
}

func TestRecomputeYearlyStats(t *testing.T) {
	tenantID := uuid.New()
	store := newMockStore()
	store.tenants.On("ListActive", mock.Anything).Return([]domain.Tenant{{ID: tenantID, Code: "ACME"}}, nil)
	store.payments.On("SumBetween", mock.Anything, tenantID, domain.TransactionKindPayment, mock.Anything, mock.Anything).Return(d("10000"), nil)
	store.payments.On("SumBetween", mock.Anything, tenantID, domain.TransactionKindRefund, mock.Anything, mock.Anything).Return(d("500"), nil)
	store.bookings.On("CountStartingBetween", mock.Anything, tenantID, domain.BookingStatusCompleted, mock.Anything, mock.Anything).Return(24, nil)
	store.customers.On("CountCreatedBetween", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(7, nil)
	store.bookings.On("AvgCompletedDurationDays", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(d("3.5"), nil)
	store.stats.On("UpsertYearly", mock.Anything, mock.AnythingOfType("*domain.TenantYearlyStat")).Return(nil)

	jr := NewJobRunner(store, service.NewDispatcher(store, nil, nil, realtime.NewHub()), nil)
	jr.RecomputeYearlyStats()

	for kind, want := range map[domain.StatKind]decimal.Decimal{
		domain.StatKindYearlyRevenue:      d("9500"),
		domain.StatKindYearlyRentals:      d("24"),
		domain.StatKindYearlyNewCustomers: d("7"),
		domain.StatKindYearlyAvgDuration:  d("3.5"),
	} {
		kind, want := kind, want
		store.stats.AssertCalled(t, "UpsertYearly", mock.Anything, mock.MatchedBy(func(s *domain.TenantYearlyStat) bool {
			return s.Kind == kind && s.Value.Equal(want)
		}))
	}

	// Both current and prior year are rebuilt.
	calls := 0
	for _, c := range store.stats.Calls {
		if c.Method == "UpsertYearly" {
			calls++
		}
	}
	if calls != 8 {
		t.Fatalf("expected 8 yearly upserts (4 kinds x 2 years), got %d", calls)
	}
}

func TestStatsJobs_TenantFailureDoesNotStopSweep(t *testing.T) {
	okTenant := uuid.New()
	badTenant := uuid.New()
	store := newMockStore()
	store.tenants.On("ListActive", mock.Anything).Return([]domain.Tenant{
		{ID: badTenant, Code: "BAD"},
		{ID: okTenant, Code: "OK"},
	}, nil)
	store.payments.On("SumBetween", mock.Anything, badTenant, mock.Anything, mock.Anything, mock.Anything).
		Return(decimal.Zero, errors.New("connection reset"))
	store.payments.On("SumBetween", mock.Anything, okTenant, mock.Anything, mock.Anything, mock.Anything).Return(d("0"), nil)
	store.bookings.On("CountStartingBetween", mock.Anything, okTenant, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	store.bookings.On("CountByStatusBetween", mock.Anything, okTenant, mock.Anything, mock.Anything).
		Return(map[domain.BookingStatus]int{}, nil)
	store.stats.On("UpsertMonthly", mock.Anything, mock.Anything).Return(nil)

	jr := NewJobRunner(store, service.NewDispatcher(store, nil, nil, realtime.NewHub()), nil)
	jr.RecomputeMonthlyStats()

	store.stats.AssertCalled(t, "UpsertMonthly", mock.Anything, mock.MatchedBy(func(s *domain.TenantMonthlyStat) bool {
		return s.TenantID == okTenant
	}))
}
