package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusReserved    VehicleStatus = "RESERVED"
	VehicleStatusRented      VehicleStatus = "RENTED"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusRetired     VehicleStatus = "RETIRED"
)

// Vehicle is a rentable asset belonging to one tenant. Its status is mutated
// only through booking transitions and maintenance workflows.
type Vehicle struct {
	ID        uuid.UUID       `json:"id"`
	TenantID  uuid.UUID       `json:"tenant_id"`
	Make      string          `json:"make"`
	Model     string          `json:"model"`
	Year      int             `json:"year"`
	Plate     string          `json:"plate"`
	DayRate   decimal.Decimal `json:"day_rate"`
	Status    VehicleStatus   `json:"status"`
	IsDeleted bool            `json:"is_deleted"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Label is the display name used on documents and notifications.
func (v *Vehicle) Label() string {
	return v.Make + " " + v.Model + " (" + v.Plate + ")"
}
