package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalValues is the itemized financial breakdown of a booking, one-to-one
// with its parent and mutated only inside the same transaction.
//
// Invariant: NetTotal = SubTotal + TotalExtras + Deposit, where
// SubTotal = BasePrice - Discount + DeliveryFee + CollectionFee + AdditionalDriverFee.
type RentalValues struct {
	ID                  uuid.UUID       `json:"id"`
	TenantID            uuid.UUID       `json:"tenant_id"`
	BookingID           uuid.UUID       `json:"booking_id"`
	BasePrice           decimal.Decimal `json:"base_price"`
	Discount            decimal.Decimal `json:"discount"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	CollectionFee       decimal.Decimal `json:"collection_fee"`
	Deposit             decimal.Decimal `json:"deposit"`
	AdditionalDriverFee decimal.Decimal `json:"additional_driver_fee"`
	TotalExtras         decimal.Decimal `json:"total_extras"`
	SubTotal            decimal.Decimal `json:"sub_total"`
	NetTotal            decimal.Decimal `json:"net_total"`
	CustomBasePrice     bool            `json:"custom_base_price"`
	CustomDiscount      bool            `json:"custom_discount"`
	CustomSubTotal      bool            `json:"custom_sub_total"`
	CustomNetTotal      bool            `json:"custom_net_total"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// RentalExtra is an add-on service, equipment or insurance line item attached
// to a booking's values. Its amount is resolved by its own price policy at
// selection time and never recomputed afterwards.
type RentalExtra struct {
	ID       uuid.UUID       `json:"id"`
	TenantID uuid.UUID       `json:"tenant_id"`
	ValuesID uuid.UUID       `json:"values_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	IsCustom bool            `json:"is_custom"`
}
