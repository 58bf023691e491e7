package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChargeUnit is the billing unit a tenant prices rentals in.
type ChargeUnit string

const (
	ChargeUnitDay   ChargeUnit = "DAY"
	ChargeUnitWeek  ChargeUnit = "WEEK"
	ChargeUnitMonth ChargeUnit = "MONTH"
)

// Tenant is a rental company account and the unit of data isolation.
// Every query in the system is scoped by tenant id.
type Tenant struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Currency   string     `json:"currency"`
	Timezone   string     `json:"timezone"`
	Locale     string     `json:"locale"`
	ChargeUnit ChargeUnit `json:"charge_unit"`
	IsDeleted  bool       `json:"is_deleted"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Location returns the tenant's time.Location, falling back to UTC when the
// configured timezone is absent or unknown.
func (t *Tenant) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ChargeType is a tenant-defined billing policy referenced by bookings.
type ChargeType struct {
	ID       uuid.UUID  `json:"id"`
	TenantID uuid.UUID  `json:"tenant_id"`
	Name     string     `json:"name"`
	Unit     ChargeUnit `json:"unit"`
}
