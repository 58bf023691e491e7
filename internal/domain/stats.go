package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StatKind string

const (
	StatKindMonthlyEarnings StatKind = "MONTHLY_EARNINGS"
	StatKindMonthlyRentals  StatKind = "MONTHLY_RENTALS"
	// Per-status monthly counts use StatKindMonthlyStatusPrefix + status.
	StatKindMonthlyStatusPrefix StatKind = "MONTHLY_RENTALS_"

	StatKindYearlyRevenue      StatKind = "YEARLY_REVENUE"
	StatKindYearlyRentals      StatKind = "YEARLY_RENTALS"
	StatKindYearlyNewCustomers StatKind = "YEARLY_NEW_CUSTOMERS"
	StatKindYearlyAvgDuration  StatKind = "YEARLY_AVG_DURATION"
)

// MonthlyStatusKind builds the per-status monthly stat kind.
func MonthlyStatusKind(status BookingStatus) StatKind {
	return StatKindMonthlyStatusPrefix + StatKind(status)
}

// TenantMonthlyStat is a precomputed aggregate keyed by
// (tenant, month, year, kind); upserted by the stats cron, read-only elsewhere.
type TenantMonthlyStat struct {
	TenantID  uuid.UUID       `json:"tenant_id"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Kind      StatKind        `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TenantYearlyStat is a precomputed aggregate keyed by (tenant, year, kind).
type TenantYearlyStat struct {
	TenantID  uuid.UUID       `json:"tenant_id"`
	Year      int             `json:"year"`
	Kind      StatKind        `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}
