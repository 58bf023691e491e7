package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice tracks the externally rendered invoice PDF for a booking.
// Regeneration replaces the URL; the number is assigned once and kept.
type Invoice struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	BookingID   uuid.UUID       `json:"booking_id"`
	Number      string          `json:"number"`
	Amount      decimal.Decimal `json:"amount"`
	URL         string          `json:"url"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Agreement tracks the externally rendered rental agreement PDF for a booking.
type Agreement struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	Reference   string    `json:"reference"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}
