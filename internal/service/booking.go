package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/logger"
	"rentalfleet-backend/internal/pricing"
	"rentalfleet-backend/internal/repository"
	"rentalfleet-backend/internal/security"
)

// bookingService drives the booking lifecycle. Every operation mutates inside
// a single Store.WithTx scope; side effects that must not roll the transition
// back (documents, email, notifications) run post-commit.
type bookingService struct {
	store      repository.Store
	documents  DocumentService
	dispatcher *Dispatcher
}

func NewBookingService(store repository.Store, documents DocumentService, dispatcher *Dispatcher) BookingService {
	return &bookingService{store: store, documents: documents, dispatcher: dispatcher}
}

func (s *bookingService) Create(ctx context.Context, p security.Principal, in CreateBookingInput) (*BookingDetail, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkDrivers(in.Drivers); err != nil {
		return nil, err
	}

	tenant, err := s.store.Tenants().GetByID(ctx, p.TenantID)
	if err != nil {
		return nil, domain.FailOp("create booking", err)
	}

	var detail *BookingDetail
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		vehicle, err := tx.Vehicles().GetByID(ctx, tenant.ID, in.VehicleID)
		if err != nil {
			return err
		}
		if _, err := tx.Tenants().GetChargeType(ctx, tenant.ID, in.ChargeTypeID); err != nil {
			return err
		}
		if _, err := tx.Locations().GetByID(ctx, tenant.ID, in.PickupLocationID); err != nil {
			return err
		}
		if _, err := tx.Locations().GetByID(ctx, tenant.ID, in.ReturnLocationID); err != nil {
			return err
		}

		quote, err := priceInput(vehicle.DayRate, in)
		if err != nil {
			return err
		}

		number, err := tx.Bookings().NextNumber(ctx, tenant.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		booking := &domain.Booking{
			ID:               uuid.New(),
			TenantID:         tenant.ID,
			VehicleID:        in.VehicleID,
			ChargeTypeID:     in.ChargeTypeID,
			Number:           number,
			Code:             fmt.Sprintf("%s-%d", tenant.Code, number),
			StartDate:        in.StartDate,
			EndDate:          in.EndDate,
			PickupLocationID: in.PickupLocationID,
			ReturnLocationID: in.ReturnLocationID,
			Status:           domain.BookingStatusPending,
			CreatedAt:        now,
			CreatedBy:        actorRef(p),
			UpdatedAt:        now,
			UpdatedBy:        actorRef(p),
		}
		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return err
		}

		drivers := buildDrivers(tenant.ID, booking.ID, in.Drivers)
		if err := tx.Drivers().Replace(ctx, tenant.ID, booking.ID, drivers); err != nil {
			return err
		}

		values := buildValues(tenant.ID, booking.ID, in.Values, quote, now)
		if err := tx.Values().Create(ctx, values); err != nil {
			return err
		}

		extras := buildExtras(tenant.ID, values.ID, in.Extras)
		if err := tx.Values().ReplaceExtras(ctx, tenant.ID, values.ID, extras); err != nil {
			return err
		}

		if err := tx.Vehicles().UpdateStatus(ctx, tenant.ID, in.VehicleID, domain.VehicleStatusReserved); err != nil {
			return err
		}

		detail = &BookingDetail{Booking: booking, Drivers: drivers, Values: values, Extras: extras}
		return nil
	})
	if err != nil {
		return nil, domain.FailOp("create booking", err)
	}

	logger.InfoContext(ctx, "booking created",
		"tenant_id", tenant.ID, "booking_id", detail.Booking.ID, "code", detail.Booking.Code)

	if in.Storefront && s.dispatcher != nil {
		s.dispatcher.BookingCreated(tenant, detail)
	}
	return detail, nil
}

func (s *bookingService) Update(ctx context.Context, p security.Principal, bookingID uuid.UUID, in CreateBookingInput) (*BookingDetail, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkDrivers(in.Drivers); err != nil {
		return nil, err
	}

	var detail *BookingDetail
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, p.TenantID, bookingID)
		if err != nil {
			return err
		}
		if booking.Status.IsTerminal() {
			return &domain.ConflictError{Entity: "booking", Detail: fmt.Sprintf("cannot update %s booking", booking.Status)}
		}

		vehicle, err := tx.Vehicles().GetByID(ctx, p.TenantID, in.VehicleID)
		if err != nil {
			return err
		}
		if _, err := tx.Tenants().GetChargeType(ctx, p.TenantID, in.ChargeTypeID); err != nil {
			return err
		}

		quote, err := priceInput(vehicle.DayRate, in)
		if err != nil {
			return err
		}

		booking.VehicleID = in.VehicleID
		booking.ChargeTypeID = in.ChargeTypeID
		booking.StartDate = in.StartDate
		booking.EndDate = in.EndDate
		booking.PickupLocationID = in.PickupLocationID
		booking.ReturnLocationID = in.ReturnLocationID
		booking.UpdatedAt = time.Now().UTC()
		booking.UpdatedBy = actorRef(p)
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return err
		}

		drivers := buildDrivers(p.TenantID, booking.ID, in.Drivers)
		if err := tx.Drivers().Replace(ctx, p.TenantID, booking.ID, drivers); err != nil {
			return err
		}

		values, err := tx.Values().GetByBooking(ctx, p.TenantID, booking.ID)
		if err != nil {
			return err
		}
		updated := buildValues(p.TenantID, booking.ID, in.Values, quote, time.Now().UTC())
		updated.ID = values.ID
		updated.CreatedAt = values.CreatedAt
		if err := tx.Values().Update(ctx, updated); err != nil {
			return err
		}

		extras := buildExtras(p.TenantID, values.ID, in.Extras)
		if err := tx.Values().ReplaceExtras(ctx, p.TenantID, values.ID, extras); err != nil {
			return err
		}

		detail = &BookingDetail{Booking: booking, Drivers: drivers, Values: updated, Extras: extras}
		return nil
	})
	if err != nil {
		return nil, domain.FailOp("update booking", err)
	}
	return detail, nil
}

func (s *bookingService) Confirm(ctx context.Context, p security.Principal, in ConfirmBookingInput) (*domain.Booking, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	booking, err := s.transition(ctx, p, in.BookingID, domain.BookingStatusConfirmed, "confirm", in.Note, nil)
	if err != nil {
		return nil, err
	}

	// Documents and mail are best effort: the confirmation is already
	// committed and a renderer outage must not undo it.
	runPostCommit(booking.TenantID, booking.ID,
		postCommitTask{"generate invoice", in.IncludeInvoice, func(ctx context.Context) error {
			_, err := s.documents.GenerateInvoice(ctx, booking.TenantID, booking.ID)
			return err
		}},
		postCommitTask{"generate agreement", in.IncludeAgreement, func(ctx context.Context) error {
			_, err := s.documents.GenerateAgreement(ctx, booking.TenantID, booking.ID)
			return err
		}},
		postCommitTask{"send confirmation email", in.SendEmail, func(ctx context.Context) error {
			return s.sendConfirmationEmail(ctx, booking)
		}},
	)
	return booking, nil
}

func (s *bookingService) Decline(ctx context.Context, p security.Principal, in BookingActionInput) (*domain.Booking, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	release := func(tx repository.Store, b *domain.Booking) error {
		return tx.Vehicles().UpdateStatus(ctx, b.TenantID, b.VehicleID, domain.VehicleStatusAvailable)
	}
	return s.transition(ctx, p, in.BookingID, domain.BookingStatusDeclined, "decline", in.Note, release)
}

func (s *bookingService) Cancel(ctx context.Context, p security.Principal, in BookingActionInput) (*domain.Booking, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	release := func(tx repository.Store, b *domain.Booking) error {
		return tx.Vehicles().UpdateStatus(ctx, b.TenantID, b.VehicleID, domain.VehicleStatusAvailable)
	}
	return s.transition(ctx, p, in.BookingID, domain.BookingStatusCanceled, "cancel", in.Note, release)
}

func (s *bookingService) Start(ctx context.Context, p security.Principal, in StartBookingInput) (*domain.Booking, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	vehicleStatus := in.VehicleStatus
	if vehicleStatus == "" {
		vehicleStatus = domain.VehicleStatusRented
	}
	move := func(tx repository.Store, b *domain.Booking) error {
		return tx.Vehicles().UpdateStatus(ctx, b.TenantID, b.VehicleID, vehicleStatus)
	}
	return s.transition(ctx, p, in.BookingID, domain.BookingStatusActive, "start", in.Note, move)
}

func (s *bookingService) End(ctx context.Context, p security.Principal, in EndBookingInput) (*domain.Booking, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.BookingStatusCompleted
	}

	var result *domain.Booking
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, p.TenantID, in.BookingID)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(status) {
			return transitionConflict(booking.Status, status)
		}
		if err := tx.Bookings().UpdateStatus(ctx, p.TenantID, booking.ID, status, actorRef(p)); err != nil {
			return err
		}
		if err := tx.Vehicles().UpdateStatus(ctx, p.TenantID, booking.VehicleID, domain.VehicleStatusAvailable); err != nil {
			return err
		}
		activity := &domain.RentalActivity{
			ID:         uuid.New(),
			TenantID:   p.TenantID,
			BookingID:  booking.ID,
			Action:     "end",
			FromStatus: booking.Status,
			ToStatus:   status,
			ActorID:    actorRef(p),
			Note:       in.Note,
			OccurredAt: endTimestamp(booking, in.ReturnDate),
		}
		if err := tx.Activities().Create(ctx, activity); err != nil {
			return err
		}
		booking.Status = status
		result = booking
		return nil
	})
	if err != nil {
		return nil, domain.FailOp("end booking", err)
	}
	logger.InfoContext(ctx, "booking ended",
		"tenant_id", p.TenantID, "booking_id", result.ID, "status", result.Status)
	return result, nil
}

func (s *bookingService) Get(ctx context.Context, p security.Principal, bookingID uuid.UUID) (*BookingDetail, error) {
	booking, err := s.store.Bookings().GetByID(ctx, p.TenantID, bookingID)
	if err != nil {
		return nil, domain.FailOp("get booking", err)
	}
	drivers, err := s.store.Drivers().ListByBooking(ctx, p.TenantID, bookingID)
	if err != nil {
		return nil, domain.FailOp("get booking", err)
	}
	values, err := s.store.Values().GetByBooking(ctx, p.TenantID, bookingID)
	if err != nil {
		return nil, domain.FailOp("get booking", err)
	}
	extras, err := s.store.Values().ListExtras(ctx, p.TenantID, values.ID)
	if err != nil {
		return nil, domain.FailOp("get booking", err)
	}
	return &BookingDetail{Booking: booking, Drivers: drivers, Values: values, Extras: extras}, nil
}

func (s *bookingService) List(ctx context.Context, p security.Principal, status string, page, pageSize int) ([]domain.Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	bookings, total, err := s.store.Bookings().List(ctx, p.TenantID, status, page, pageSize)
	if err != nil {
		return nil, 0, domain.FailOp("list bookings", err)
	}
	return bookings, total, nil
}

// transition moves a booking to next inside one transaction, recording an
// activity row; extra runs inside the same tx after the status change.
func (s *bookingService) transition(ctx context.Context, p security.Principal, bookingID uuid.UUID, next domain.BookingStatus, action, note string, extra func(repository.Store, *domain.Booking) error) (*domain.Booking, error) {
	var result *domain.Booking
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, p.TenantID, bookingID)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(next) {
			return transitionConflict(booking.Status, next)
		}
		if err := tx.Bookings().UpdateStatus(ctx, p.TenantID, booking.ID, next, actorRef(p)); err != nil {
			return err
		}
		activity := &domain.RentalActivity{
			ID:         uuid.New(),
			TenantID:   p.TenantID,
			BookingID:  booking.ID,
			Action:     action,
			FromStatus: booking.Status,
			ToStatus:   next,
			ActorID:    actorRef(p),
			Note:       note,
			OccurredAt: time.Now().UTC(),
		}
		if err := tx.Activities().Create(ctx, activity); err != nil {
			return err
		}
		if extra != nil {
			if err := extra(tx, booking); err != nil {
				return err
			}
		}
		booking.Status = next
		result = booking
		return nil
	})
	if err != nil {
		return nil, domain.FailOp(action+" booking", err)
	}
	logger.InfoContext(ctx, "booking transitioned",
		"tenant_id", p.TenantID, "booking_id", result.ID, "action", action, "status", next)
	return result, nil
}

func (s *bookingService) sendConfirmationEmail(ctx context.Context, booking *domain.Booking) error {
	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.BookingConfirmed(ctx, booking)
}

// endTimestamp picks the activity timestamp for a completed rental. An
// explicit return date wins. Without one, a rental that started in the past
// is being backfilled, so its start date is a better stamp than now.
func endTimestamp(b *domain.Booking, returned *time.Time) time.Time {
	if returned != nil {
		return returned.UTC()
	}
	now := time.Now().UTC()
	if b.StartDate.Before(now) {
		return b.StartDate
	}
	return now
}

func transitionConflict(from, to domain.BookingStatus) error {
	return &domain.ConflictError{
		Entity: "booking",
		Detail: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func actorRef(p security.Principal) *uuid.UUID {
	if p.UserID == uuid.Nil {
		return nil
	}
	id := p.UserID
	return &id
}

// checkDrivers rejects driver lists without exactly one primary driver.
func checkDrivers(drivers []DriverInput) error {
	primary := 0
	for _, d := range drivers {
		if d.IsPrimary {
			primary++
		}
	}
	if primary != 1 {
		return domain.NewValidation("drivers", "exactly one primary driver is required")
	}
	return nil
}

func priceInput(dayRate decimal.Decimal, in CreateBookingInput) (pricing.Quote, error) {
	amounts := make([]decimal.Decimal, len(in.Extras))
	for i, e := range in.Extras {
		amounts[i] = e.Amount
	}
	additional := len(in.Drivers) - 1
	if additional < 0 {
		additional = 0
	}
	v := in.Values
	return pricing.Calculate(pricing.Input{
		DayRate: dayRate,
		Start:   in.StartDate,
		End:     in.EndDate,
		Discount: pricing.Discount{
			Policy: v.DiscountPolicy,
			Value:  v.DiscountValue,
			Min:    v.DiscountMin,
			Max:    v.DiscountMax,
		},
		ExtraAmounts:        amounts,
		DeliveryFee:         v.DeliveryFee,
		CollectionFee:       v.CollectionFee,
		Deposit:             v.Deposit,
		AdditionalDrivers:   additional,
		AdditionalDriverFee: v.AdditionalDriverFee,
		CustomBasePrice:     v.CustomBasePrice,
		SuppliedBasePrice:   v.BasePrice,
		CustomDiscount:      v.CustomDiscount,
		SuppliedDiscount:    v.Discount,
		CustomSubTotal:      v.CustomSubTotal,
		SuppliedSubTotal:    v.SubTotal,
		CustomNetTotal:      v.CustomNetTotal,
		SuppliedNetTotal:    v.NetTotal,
	})
}

func buildDrivers(tenantID, bookingID uuid.UUID, inputs []DriverInput) []domain.RentalDriver {
	drivers := make([]domain.RentalDriver, len(inputs))
	for i, d := range inputs {
		drivers[i] = domain.RentalDriver{
			ID:         uuid.New(),
			TenantID:   tenantID,
			BookingID:  bookingID,
			CustomerID: d.CustomerID,
			IsPrimary:  d.IsPrimary,
		}
	}
	return drivers
}

func buildValues(tenantID, bookingID uuid.UUID, in ValuesInput, q pricing.Quote, now time.Time) *domain.RentalValues {
	driverFee := in.AdditionalDriverFee
	return &domain.RentalValues{
		ID:                  uuid.New(),
		TenantID:            tenantID,
		BookingID:           bookingID,
		BasePrice:           q.BasePrice,
		Discount:            q.Discount,
		DeliveryFee:         in.DeliveryFee,
		CollectionFee:       in.CollectionFee,
		Deposit:             in.Deposit,
		AdditionalDriverFee: driverFee,
		TotalExtras:         q.TotalExtras,
		SubTotal:            q.SubTotal,
		NetTotal:            q.NetTotal,
		CustomBasePrice:     in.CustomBasePrice,
		CustomDiscount:      in.CustomDiscount,
		CustomSubTotal:      in.CustomSubTotal,
		CustomNetTotal:      in.CustomNetTotal,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func buildExtras(tenantID, valuesID uuid.UUID, inputs []ExtraInput) []domain.RentalExtra {
	extras := make([]domain.RentalExtra, len(inputs))
	for i, e := range inputs {
		extras[i] = domain.RentalExtra{
			ID:       uuid.New(),
			TenantID: tenantID,
			ValuesID: valuesID,
			Name:     e.Name,
			Amount:   e.Amount,
			IsCustom: e.IsCustom,
		}
	}
	return extras
}
