package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/pricing"
	"rentalfleet-backend/internal/security"
)

// BookingDetail is a booking with its attached drivers, values and extras.
type BookingDetail struct {
	Booking *domain.Booking       `json:"booking"`
	Drivers []domain.RentalDriver `json:"drivers"`
	Values  *domain.RentalValues  `json:"values"`
	Extras  []domain.RentalExtra  `json:"extras"`
}

// DriverInput attaches a customer to a booking. Exactly one driver in the
// request must be primary.
type DriverInput struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	IsPrimary  bool      `json:"is_primary"`
}

// ExtraInput is an add-on line item; the amount was resolved by the extra's
// own price policy at selection time.
type ExtraInput struct {
	Name     string          `json:"name" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	IsCustom bool            `json:"is_custom"`
}

// ValuesInput carries the pricing inputs and any manual overrides.
type ValuesInput struct {
	DiscountPolicy      pricing.DiscountPolicy `json:"discount_policy" validate:"omitempty,oneof=NONE PERCENTAGE FIXED FLAT"`
	DiscountValue       decimal.Decimal        `json:"discount_value"`
	DiscountMin         decimal.Decimal        `json:"discount_min"`
	DiscountMax         decimal.Decimal        `json:"discount_max"`
	DeliveryFee         decimal.Decimal        `json:"delivery_fee"`
	CollectionFee       decimal.Decimal        `json:"collection_fee"`
	Deposit             decimal.Decimal        `json:"deposit"`
	AdditionalDriverFee decimal.Decimal        `json:"additional_driver_fee"`

	CustomBasePrice bool            `json:"custom_base_price"`
	BasePrice       decimal.Decimal `json:"base_price"`
	CustomDiscount  bool            `json:"custom_discount"`
	Discount        decimal.Decimal `json:"discount"`
	CustomSubTotal  bool            `json:"custom_sub_total"`
	SubTotal        decimal.Decimal `json:"sub_total"`
	CustomNetTotal  bool            `json:"custom_net_total"`
	NetTotal        decimal.Decimal `json:"net_total"`
}

type CreateBookingInput struct {
	VehicleID        uuid.UUID     `json:"vehicle_id" validate:"required"`
	ChargeTypeID     uuid.UUID     `json:"charge_type_id" validate:"required"`
	StartDate        time.Time     `json:"start_date" validate:"required"`
	EndDate          time.Time     `json:"end_date" validate:"required"`
	PickupLocationID uuid.UUID     `json:"pickup_location_id" validate:"required"`
	ReturnLocationID uuid.UUID     `json:"return_location_id" validate:"required"`
	Drivers          []DriverInput `json:"drivers" validate:"required,min=1,dive"`
	Values           ValuesInput   `json:"values"`
	Extras           []ExtraInput  `json:"extras" validate:"dive"`

	// Storefront marks a self-service customer/guest booking, which fires the
	// completed-booking notification fan-out after commit.
	Storefront bool `json:"storefront"`
}

type ConfirmBookingInput struct {
	BookingID        uuid.UUID `json:"booking_id" validate:"required"`
	SendEmail        bool      `json:"send_email"`
	IncludeInvoice   bool      `json:"include_invoice"`
	IncludeAgreement bool      `json:"include_agreement"`
	Note             string    `json:"note"`
}

type BookingActionInput struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Note      string    `json:"note"`
}

type StartBookingInput struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	// VehicleStatus is the operational status the vehicle moves to, e.g. RENTED.
	VehicleStatus domain.VehicleStatus `json:"vehicle_status" validate:"omitempty,oneof=AVAILABLE RESERVED RENTED MAINTENANCE RETIRED"`
	Note          string               `json:"note"`
}

type EndBookingInput struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	// Status is the terminal status the booking moves to, default COMPLETED.
	Status     domain.BookingStatus `json:"status" validate:"omitempty,oneof=COMPLETED"`
	ReturnDate *time.Time           `json:"return_date"`
	Note       string               `json:"note"`
}

type BookingService interface {
	Create(ctx context.Context, p security.Principal, in CreateBookingInput) (*BookingDetail, error)
	Update(ctx context.Context, p security.Principal, bookingID uuid.UUID, in CreateBookingInput) (*BookingDetail, error)
	Confirm(ctx context.Context, p security.Principal, in ConfirmBookingInput) (*domain.Booking, error)
	Decline(ctx context.Context, p security.Principal, in BookingActionInput) (*domain.Booking, error)
	Cancel(ctx context.Context, p security.Principal, in BookingActionInput) (*domain.Booking, error)
	Start(ctx context.Context, p security.Principal, in StartBookingInput) (*domain.Booking, error)
	End(ctx context.Context, p security.Principal, in EndBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, p security.Principal, bookingID uuid.UUID) (*BookingDetail, error)
	List(ctx context.Context, p security.Principal, status string, page, pageSize int) ([]domain.Booking, int, error)
}

type DocumentService interface {
	GenerateInvoice(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Invoice, error)
	GenerateAgreement(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Agreement, error)
}

type NotificationService interface {
	List(ctx context.Context, p security.Principal, page, pageSize int) ([]domain.TenantNotification, int, error)
	MarkRead(ctx context.Context, p security.Principal, notificationID uuid.UUID) error
}

type StatsService interface {
	Monthly(ctx context.Context, p security.Principal, year int) ([]domain.TenantMonthlyStat, error)
	Yearly(ctx context.Context, p security.Principal) ([]domain.TenantYearlyStat, error)
}

// EmailService sends templated mail. Failures matter to nobody but the log.
type EmailService interface {
	SendBookingReceived(ctx context.Context, to, customerName, bookingCode string) error
	SendNewBookingAlert(ctx context.Context, to, tenantName, bookingCode string) error
	SendBookingConfirmed(ctx context.Context, to, customerName, bookingCode string, attachments []string) error
	SendReminder(ctx context.Context, to, subject, body string) error
}

// MessageSender delivers out-of-band messages (WhatsApp in production).
type MessageSender interface {
	Send(ctx context.Context, recipients []string, template string, data map[string]string) error
}

var validate = validator.New()

// validateInput runs struct validation and converts violations into the
// domain's field-level ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewValidation("body", err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = "failed " + fe.Tag() + " validation"
	}
	return &domain.ValidationError{Fields: fields}
}
