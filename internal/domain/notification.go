package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationKindBookingRequest     NotificationKind = "BOOKING_REQUEST"
	NotificationKindPickupReminder     NotificationKind = "PICKUP_REMINDER"
	NotificationKindReturnReminder     NotificationKind = "RETURN_REMINDER"
	NotificationKindUnconfirmedBooking NotificationKind = "UNCONFIRMED_BOOKING"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityNormal NotificationPriority = "NORMAL"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

// TenantNotification is an event raised for a tenant's operators. Read state
// lives in a per-user join table so multiple operators track it independently.
// DedupKey makes reminder inserts idempotent within their window.
type TenantNotification struct {
	ID         uuid.UUID            `json:"id"`
	TenantID   uuid.UUID            `json:"tenant_id"`
	BookingID  *uuid.UUID           `json:"booking_id,omitempty"`
	Kind       NotificationKind     `json:"kind"`
	Priority   NotificationPriority `json:"priority"`
	Message    string               `json:"message"`
	ActionLink string               `json:"action_link"`
	DedupKey   string               `json:"-"`
	IsRead     bool                 `json:"is_read"`
	CreatedAt  time.Time            `json:"created_at"`
}

// NotificationReadStatus marks a notification read by one operator.
type NotificationReadStatus struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	ReadAt         time.Time `json:"read_at"`
}
