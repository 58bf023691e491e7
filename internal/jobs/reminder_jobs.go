package jobs

import (
	"context"
	"fmt"
	"time"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/logger"
)

// Reminder scans target the UTC day exactly N days out, so each booking
// alerts once per kind; the dedup key keeps the hourly re-runs within that
// day idempotent.

// ScanUnconfirmedBookings alerts tenants about PENDING bookings starting
// three days from now.
func (jr *JobRunner) ScanUnconfirmedBookings() {
	jr.runWithRecovery("ScanUnconfirmedBookings", func() {
		ctx := context.Background()
		from, to := dayWindow(3)

		jr.forEachTenant(ctx, "ScanUnconfirmedBookings", func(ctx context.Context, tenant domain.Tenant) error {
			bookings, err := jr.store.Bookings().ListStartingBetween(ctx, tenant.ID,
				[]domain.BookingStatus{domain.BookingStatusPending}, from, to)
			if err != nil {
				return err
			}
			for _, b := range bookings {
				jr.raise(ctx, tenant, b, domain.NotificationKindUnconfirmedBooking,
					domain.NotificationPriorityHigh,
					fmt.Sprintf("Booking %s starts %s and is still unconfirmed", b.Code, b.StartDate.In(tenant.Location()).Format("02 Jan")))
			}
			return nil
		})
	})
}

// ScanPickupReminders alerts tenants about confirmed bookings starting one
// day from now.
func (jr *JobRunner) ScanPickupReminders() {
	jr.runWithRecovery("ScanPickupReminders", func() {
		ctx := context.Background()
		from, to := dayWindow(1)

		jr.forEachTenant(ctx, "ScanPickupReminders", func(ctx context.Context, tenant domain.Tenant) error {
			bookings, err := jr.store.Bookings().ListStartingBetween(ctx, tenant.ID,
				[]domain.BookingStatus{domain.BookingStatusConfirmed}, from, to)
			if err != nil {
				return err
			}
			for _, b := range bookings {
				jr.raise(ctx, tenant, b, domain.NotificationKindPickupReminder,
					domain.NotificationPriorityNormal,
					fmt.Sprintf("Booking %s is due for pickup %s", b.Code, b.StartDate.In(tenant.Location()).Format("02 Jan 15:04")))
			}
			return nil
		})
	})
}

// ScanReturnReminders alerts tenants about active rentals ending one day
// from now.
func (jr *JobRunner) ScanReturnReminders() {
	jr.runWithRecovery("ScanReturnReminders", func() {
		ctx := context.Background()
		from, to := dayWindow(1)

		jr.forEachTenant(ctx, "ScanReturnReminders", func(ctx context.Context, tenant domain.Tenant) error {
			bookings, err := jr.store.Bookings().ListEndingBetween(ctx, tenant.ID,
				[]domain.BookingStatus{domain.BookingStatusActive}, from, to)
			if err != nil {
				return err
			}
			for _, b := range bookings {
				jr.raise(ctx, tenant, b, domain.NotificationKindReturnReminder,
					domain.NotificationPriorityNormal,
					fmt.Sprintf("Booking %s is due for return %s", b.Code, b.EndDate.In(tenant.Location()).Format("02 Jan 15:04")))
			}
			return nil
		})
	})
}

func (jr *JobRunner) raise(ctx context.Context, tenant domain.Tenant, b domain.Booking, kind domain.NotificationKind, priority domain.NotificationPriority, message string) {
	bookingID := b.ID
	n := &domain.TenantNotification{
		TenantID:   tenant.ID,
		BookingID:  &bookingID,
		Kind:       kind,
		Priority:   priority,
		Message:    message,
		ActionLink: "/bookings/" + b.ID.String(),
		DedupKey:   dedupKey(b, kind),
	}
	created, err := jr.dispatcher.Notify(ctx, n)
	if err != nil {
		logger.Error("Failed to raise reminder notification",
			"tenant_id", tenant.ID, "booking_id", b.ID, "kind", kind, "error", err)
		return
	}
	if !created {
		return
	}
	if jr.email != nil && tenant.Email != "" {
		subject := fmt.Sprintf("Reminder: booking %s", b.Code)
		if err := jr.email.SendReminder(ctx, tenant.Email, subject, message); err != nil {
			logger.Error("Failed to send reminder email",
				"tenant_id", tenant.ID, "booking_id", b.ID, "error", err)
		}
	}
}

// dedupKey is {bookingID}:{kind}:{yyyy-mm-dd}, unique per booking, kind and
// UTC day.
func dedupKey(b domain.Booking, kind domain.NotificationKind) string {
	return fmt.Sprintf("%s:%s:%s", b.ID, kind, time.Now().UTC().Format("2006-01-02"))
}

// dayWindow is the half-open UTC day exactly offset days out.
func dayWindow(offset int) (time.Time, time.Time) {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, offset), day.AddDate(0, 0, offset+1)
}
