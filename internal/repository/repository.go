package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/domain"
)

// Store bundles all repositories plus the transaction scope. WithTx runs fn
// against a Store whose repositories share one database transaction; fn
// returning an error rolls everything back.
//
// Every repository method takes the tenant id explicitly and every query is
// scoped by it. A missing tenant predicate is a cross-tenant data leak, not
// just a bug.
type Store interface {
	Tenants() TenantRepository
	Vehicles() VehicleRepository
	Customers() CustomerRepository
	Locations() LocationRepository
	Bookings() BookingRepository
	Drivers() DriverRepository
	Values() ValuesRepository
	Documents() DocumentRepository
	Activities() ActivityRepository
	Notifications() NotificationRepository
	Payments() PaymentRepository
	Stats() StatsRepository

	WithTx(ctx context.Context, fn func(Store) error) error
}

type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	ListActive(ctx context.Context) ([]domain.Tenant, error)
	GetChargeType(ctx context.Context, tenantID, id uuid.UUID) (*domain.ChargeType, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Vehicle, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.VehicleStatus) error
}

type CustomerRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Customer, error)
	CountCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int, error)
}

type LocationRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Location, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.BookingStatus, actorID *uuid.UUID) error
	NextNumber(ctx context.Context, tenantID uuid.UUID) (int, error)
	List(ctx context.Context, tenantID uuid.UUID, status string, page, pageSize int) ([]domain.Booking, int, error)

	// Reminder-scan windows.
	ListStartingBetween(ctx context.Context, tenantID uuid.UUID, statuses []domain.BookingStatus, from, to time.Time) ([]domain.Booking, error)
	ListEndingBetween(ctx context.Context, tenantID uuid.UUID, statuses []domain.BookingStatus, from, to time.Time) ([]domain.Booking, error)

	// Stats aggregates.
	CountStartingBetween(ctx context.Context, tenantID uuid.UUID, status domain.BookingStatus, from, to time.Time) (int, error)
	CountByStatusBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[domain.BookingStatus]int, error)
	AvgCompletedDurationDays(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type DriverRepository interface {
	// Replace deletes the booking's driver links and recreates them.
	Replace(ctx context.Context, tenantID, bookingID uuid.UUID, drivers []domain.RentalDriver) error
	ListByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]domain.RentalDriver, error)
}

type ValuesRepository interface {
	Create(ctx context.Context, v *domain.RentalValues) error
	Update(ctx context.Context, v *domain.RentalValues) error
	GetByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.RentalValues, error)
	ReplaceExtras(ctx context.Context, tenantID, valuesID uuid.UUID, extras []domain.RentalExtra) error
	ListExtras(ctx context.Context, tenantID, valuesID uuid.UUID) ([]domain.RentalExtra, error)
}

type DocumentRepository interface {
	GetInvoiceByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Invoice, error)
	UpsertInvoice(ctx context.Context, inv *domain.Invoice) error
	GetAgreementByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Agreement, error)
	UpsertAgreement(ctx context.Context, ag *domain.Agreement) error
}

type ActivityRepository interface {
	Create(ctx context.Context, a *domain.RentalActivity) error
	ListByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]domain.RentalActivity, error)
}

type NotificationRepository interface {
	// Create inserts the notification. When DedupKey is set and a row with the
	// same key already exists the insert is skipped and created is false.
	Create(ctx context.Context, n *domain.TenantNotification) (created bool, err error)
	List(ctx context.Context, tenantID, userID uuid.UUID, page, pageSize int) ([]domain.TenantNotification, int, error)
	MarkRead(ctx context.Context, tenantID, userID, notificationID uuid.UUID) error
}

type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) error
	SumBetween(ctx context.Context, tenantID uuid.UUID, kind domain.TransactionKind, from, to time.Time) (decimal.Decimal, error)
}

type StatsRepository interface {
	UpsertMonthly(ctx context.Context, s *domain.TenantMonthlyStat) error
	UpsertYearly(ctx context.Context, s *domain.TenantYearlyStat) error
	ListMonthly(ctx context.Context, tenantID uuid.UUID, year int) ([]domain.TenantMonthlyStat, error)
	ListYearly(ctx context.Context, tenantID uuid.UUID) ([]domain.TenantYearlyStat, error)
}
