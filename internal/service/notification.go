package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/logger"
	"rentalfleet-backend/internal/realtime"
	"rentalfleet-backend/internal/repository"
	"rentalfleet-backend/internal/security"
)

// Dispatcher fans a booking event out to its interested parties: customer
// email, tenant email, the persisted tenant notification and the websocket
// channel. Every leg is best effort; a failed leg is logged and never blocks
// or cancels its siblings.
type Dispatcher struct {
	store    repository.Store
	email    EmailService
	messages MessageSender
	hub      *realtime.Hub
}

func NewDispatcher(store repository.Store, email EmailService, messages MessageSender, hub *realtime.Hub) *Dispatcher {
	return &Dispatcher{store: store, email: email, messages: messages, hub: hub}
}

// BookingCreated runs the storefront fan-out. It detaches from the request
// and waits for all legs before returning control to the scheduler.
func (d *Dispatcher) BookingCreated(tenant *domain.Tenant, detail *BookingDetail) {
	go d.bookingCreated(tenant, detail)
}

func (d *Dispatcher) bookingCreated(tenant *domain.Tenant, detail *BookingDetail) {
	ctx, cancel := context.WithTimeout(context.Background(), postCommitBudget)
	defer cancel()

	booking := detail.Booking
	customer, err := d.primaryCustomer(ctx, tenant.ID, detail.Drivers)
	if err != nil {
		logger.Error("booking fan-out: primary customer lookup failed",
			"tenant_id", tenant.ID, "booking_id", booking.ID, "error", err)
	}

	var wg sync.WaitGroup
	leg := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("booking fan-out leg panicked",
						"leg", name, "tenant_id", tenant.ID, "booking_id", booking.ID, "panic", r)
				}
			}()
			if err := fn(); err != nil {
				logger.Error("booking fan-out leg failed",
					"leg", name, "tenant_id", tenant.ID, "booking_id", booking.ID, "error", err)
			}
		}()
	}

	if customer != nil && customer.Email != "" {
		leg("customer email", func() error {
			return d.email.SendBookingReceived(ctx, customer.Email, customer.FullName(), booking.Code)
		})
	}
	if tenant.Email != "" {
		leg("tenant email", func() error {
			return d.email.SendNewBookingAlert(ctx, tenant.Email, tenant.Name, booking.Code)
		})
	}
	if d.messages != nil && customer != nil && customer.Phone != "" {
		leg("customer message", func() error {
			return d.messages.Send(ctx, []string{customer.Phone}, "booking_received", map[string]string{
				"customer": customer.FullName(),
				"code":     booking.Code,
			})
		})
	}
	leg("tenant notification", func() error {
		_, err := d.Notify(ctx, &domain.TenantNotification{
			TenantID:   tenant.ID,
			BookingID:  &booking.ID,
			Kind:       domain.NotificationKindBookingRequest,
			Priority:   domain.NotificationPriorityHigh,
			Message:    fmt.Sprintf("New booking request %s", booking.Code),
			ActionLink: "/bookings/" + booking.ID.String(),
		})
		return err
	})

	wg.Wait()
}

// BookingConfirmed mails the primary driver their confirmation, attaching the
// generated documents when present.
func (d *Dispatcher) BookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	drivers, err := d.store.Drivers().ListByBooking(ctx, booking.TenantID, booking.ID)
	if err != nil {
		return err
	}
	customer, err := d.primaryCustomer(ctx, booking.TenantID, drivers)
	if err != nil {
		return err
	}
	if customer == nil || customer.Email == "" {
		return nil
	}

	var attachments []string
	if inv, err := d.store.Documents().GetInvoiceByBooking(ctx, booking.TenantID, booking.ID); err == nil {
		attachments = append(attachments, inv.URL)
	}
	if ag, err := d.store.Documents().GetAgreementByBooking(ctx, booking.TenantID, booking.ID); err == nil {
		attachments = append(attachments, ag.URL)
	}
	return d.email.SendBookingConfirmed(ctx, customer.Email, customer.FullName(), booking.Code, attachments)
}

// Notify persists the notification and, when it was actually created (a
// dedup-key hit is silently skipped), pushes it over the tenant's websocket
// channel. It reports whether a new notification was raised.
func (d *Dispatcher) Notify(ctx context.Context, n *domain.TenantNotification) (bool, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Priority == "" {
		n.Priority = domain.NotificationPriorityNormal
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	created, err := d.store.Notifications().Create(ctx, n)
	if err != nil || !created {
		return false, err
	}
	if d.hub != nil {
		d.hub.Broadcast(n.TenantID, realtime.Event{Kind: string(n.Kind), Payload: n})
	}
	return true, nil
}

func (d *Dispatcher) primaryCustomer(ctx context.Context, tenantID uuid.UUID, drivers []domain.RentalDriver) (*domain.Customer, error) {
	for _, dr := range drivers {
		if dr.IsPrimary {
			return d.store.Customers().GetByID(ctx, tenantID, dr.CustomerID)
		}
	}
	return nil, nil
}

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) List(ctx context.Context, p security.Principal, page, pageSize int) ([]domain.TenantNotification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.store.Notifications().List(ctx, p.TenantID, p.UserID, page, pageSize)
	if err != nil {
		return nil, 0, domain.FailOp("list notifications", err)
	}
	return items, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, p security.Principal, notificationID uuid.UUID) error {
	if err := s.store.Notifications().MarkRead(ctx, p.TenantID, p.UserID, notificationID); err != nil {
		return domain.FailOp("mark notification read", err)
	}
	return nil
}
