package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindPayment TransactionKind = "PAYMENT"
	TransactionKindRefund  TransactionKind = "REFUND"
)

// PaymentTransaction records money received from or returned to a customer
// for a booking. Monthly earnings are the sum of payments minus refunds.
type PaymentTransaction struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	BookingID  uuid.UUID       `json:"booking_id"`
	Kind       TransactionKind `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}
