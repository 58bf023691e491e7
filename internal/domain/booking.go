package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusDeclined  BookingStatus = "DECLINED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusDeclined, BookingStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo enforces the booking lifecycle:
// PENDING -> CONFIRMED|DECLINED|CANCELED, CONFIRMED -> ACTIVE|DECLINED|CANCELED,
// ACTIVE -> terminal. Terminal states are absorbing.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusDeclined || next == BookingStatusCanceled
	case BookingStatusConfirmed:
		return next == BookingStatusActive || next == BookingStatusDeclined || next == BookingStatusCanceled
	case BookingStatusActive:
		return next.IsTerminal() && next != BookingStatusDeclined && next != BookingStatusCanceled
	}
	return false
}

// Booking is the central aggregate: one vehicle reserved by one or more
// drivers for a date range, with a financial breakdown and derived documents.
type Booking struct {
	ID               uuid.UUID     `json:"id"`
	TenantID         uuid.UUID     `json:"tenant_id"`
	VehicleID        uuid.UUID     `json:"vehicle_id"`
	ChargeTypeID     uuid.UUID     `json:"charge_type_id"`
	Number           int           `json:"number"`
	Code             string        `json:"code"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	PickupLocationID uuid.UUID     `json:"pickup_location_id"`
	ReturnLocationID uuid.UUID     `json:"return_location_id"`
	Status           BookingStatus `json:"status"`
	IsDeleted        bool          `json:"is_deleted"`
	CreatedAt        time.Time     `json:"created_at"`
	CreatedBy        *uuid.UUID    `json:"created_by,omitempty"`
	UpdatedAt        time.Time     `json:"updated_at"`
	UpdatedBy        *uuid.UUID    `json:"updated_by,omitempty"`
}

// DurationDays is the billed rental length: calendar days between start and
// end rounded up, never less than one.
func (b *Booking) DurationDays() int {
	d := b.EndDate.Sub(b.StartDate)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// RentalDriver links a customer to a booking. Exactly one driver per booking
// carries IsPrimary.
type RentalDriver struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	IsPrimary  bool      `json:"is_primary"`
}

// RentalActivity is an audit row recorded on every lifecycle transition.
type RentalActivity struct {
	ID         uuid.UUID     `json:"id"`
	TenantID   uuid.UUID     `json:"tenant_id"`
	BookingID  uuid.UUID     `json:"booking_id"`
	Action     string        `json:"action"`
	FromStatus BookingStatus `json:"from_status"`
	ToStatus   BookingStatus `json:"to_status"`
	ActorID    *uuid.UUID    `json:"actor_id,omitempty"`
	Note       string        `json:"note"`
	OccurredAt time.Time     `json:"occurred_at"`
}
