package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/security"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func testPrincipal(tenantID uuid.UUID) security.Principal {
	return security.Principal{TenantID: tenantID, UserID: uuid.New(), TenantCode: "ACME"}
}

func validCreateInput(vehicleID, chargeTypeID, pickupID, returnID, customerID uuid.UUID) CreateBookingInput {
	start := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	return CreateBookingInput{
		VehicleID:        vehicleID,
		ChargeTypeID:     chargeTypeID,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 3),
		PickupLocationID: pickupID,
		ReturnLocationID: returnID,
		Drivers: []DriverInput{
			{CustomerID: customerID, IsPrimary: true},
		},
		Values: ValuesInput{
			DeliveryFee:   d("20"),
			CollectionFee: d("15"),
			Deposit:       d("200"),
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	vehicleID := uuid.New()
	chargeTypeID := uuid.New()
	pickupID := uuid.New()
	returnID := uuid.New()
	customerID := uuid.New()

	tenant := &domain.Tenant{ID: tenantID, Code: "ACME", Name: "Acme Rentals"}
	vehicle := &domain.Vehicle{ID: vehicleID, TenantID: tenantID, DayRate: d("100"), Status: domain.VehicleStatusAvailable}

	t.Run("Success", func(t *testing.T) {
		store := newMockStore()
		store.tenants.On("GetByID", ctx, tenantID).Return(tenant, nil)
		store.vehicles.On("GetByID", ctx, tenantID, vehicleID).Return(vehicle, nil)
		store.tenants.On("GetChargeType", ctx, tenantID, chargeTypeID).Return(&domain.ChargeType{ID: chargeTypeID, Unit: domain.ChargeUnitDay}, nil)
		store.locations.On("GetByID", ctx, tenantID, pickupID).Return(&domain.Location{ID: pickupID}, nil)
		store.locations.On("GetByID", ctx, tenantID, returnID).Return(&domain.Location{ID: returnID}, nil)
		store.bookings.On("NextNumber", ctx, tenantID).Return(42, nil)
		store.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		store.drivers.On("Replace", ctx, tenantID, mock.Anything, mock.Anything).Return(nil)
		store.values.On("Create", ctx, mock.AnythingOfType("*domain.RentalValues")).Return(nil)
		store.values.On("ReplaceExtras", ctx, tenantID, mock.Anything, mock.Anything).Return(nil)
		store.vehicles.On("UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusReserved).Return(nil)

		svc := NewBookingService(store, nil, nil)
		detail, err := svc.Create(ctx, testPrincipal(tenantID), validCreateInput(vehicleID, chargeTypeID, pickupID, returnID, customerID))
		require.NoError(t, err)

		assert.Equal(t, "ACME-42", detail.Booking.Code)
		assert.Equal(t, 42, detail.Booking.Number)
		assert.Equal(t, domain.BookingStatusPending, detail.Booking.Status)
		assert.True(t, detail.Values.BasePrice.Equal(d("300")), "base price %s", detail.Values.BasePrice)
		assert.True(t, detail.Values.SubTotal.Equal(d("335")), "sub total %s", detail.Values.SubTotal)
		assert.True(t, detail.Values.NetTotal.Equal(d("535")), "net total %s", detail.Values.NetTotal)
		store.vehicles.AssertCalled(t, "UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusReserved)
	})

	t.Run("No Primary Driver", func(t *testing.T) {
		store := newMockStore()
		svc := NewBookingService(store, nil, nil)

		in := validCreateInput(vehicleID, chargeTypeID, pickupID, returnID, customerID)
		in.Drivers[0].IsPrimary = false

		_, err := svc.Create(ctx, testPrincipal(tenantID), in)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		store.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Two Primary Drivers", func(t *testing.T) {
		store := newMockStore()
		svc := NewBookingService(store, nil, nil)

		in := validCreateInput(vehicleID, chargeTypeID, pickupID, returnID, customerID)
		in.Drivers = append(in.Drivers, DriverInput{CustomerID: uuid.New(), IsPrimary: true})

		_, err := svc.Create(ctx, testPrincipal(tenantID), in)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("Missing Drivers", func(t *testing.T) {
		store := newMockStore()
		svc := NewBookingService(store, nil, nil)

		in := validCreateInput(vehicleID, chargeTypeID, pickupID, returnID, customerID)
		in.Drivers = nil

		_, err := svc.Create(ctx, testPrincipal(tenantID), in)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("Vehicle Not Found", func(t *testing.T) {
		store := newMockStore()
		store.tenants.On("GetByID", ctx, tenantID).Return(tenant, nil)
		store.vehicles.On("GetByID", ctx, tenantID, vehicleID).Return(nil, domain.NewNotFound("vehicle", vehicleID.String()))

		svc := NewBookingService(store, nil, nil)
		_, err := svc.Create(ctx, testPrincipal(tenantID), validCreateInput(vehicleID, chargeTypeID, pickupID, returnID, customerID))
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestBookingService_Confirm(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	bookingID := uuid.New()
	p := testPrincipal(tenantID)

	t.Run("Pending To Confirmed", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, Status: domain.BookingStatusPending}, nil)
		store.bookings.On("UpdateStatus", ctx, tenantID, bookingID, domain.BookingStatusConfirmed, mock.Anything).Return(nil)
		store.activities.On("Create", ctx, mock.MatchedBy(func(a *domain.RentalActivity) bool {
			return a.Action == "confirm" &&
				a.FromStatus == domain.BookingStatusPending &&
				a.ToStatus == domain.BookingStatusConfirmed
		})).Return(nil)

		svc := NewBookingService(store, nil, nil)
		booking, err := svc.Confirm(ctx, p, ConfirmBookingInput{BookingID: bookingID})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	})

	t.Run("Invoice Failure Never Rolls Back Confirmation", func(t *testing.T) {
		store := newMockStore()
		documents := new(MockDocumentService)
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, Status: domain.BookingStatusPending}, nil)
		store.bookings.On("UpdateStatus", ctx, tenantID, bookingID, domain.BookingStatusConfirmed, mock.Anything).Return(nil)
		store.activities.On("Create", ctx, mock.Anything).Return(nil)

		rendered := make(chan struct{})
		documents.On("GenerateInvoice", mock.Anything, tenantID, bookingID).
			Run(func(mock.Arguments) { close(rendered) }).
			Return(nil, assert.AnError)

		svc := NewBookingService(store, documents, nil)
		booking, err := svc.Confirm(ctx, p, ConfirmBookingInput{BookingID: bookingID, IncludeInvoice: true})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)

		select {
		case <-rendered:
		case <-time.After(2 * time.Second):
			t.Fatal("invoice generation never attempted")
		}
		documents.AssertExpectations(t)
	})

	t.Run("Already Confirmed", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, Status: domain.BookingStatusConfirmed}, nil)

		svc := NewBookingService(store, nil, nil)
		_, err := svc.Confirm(ctx, p, ConfirmBookingInput{BookingID: bookingID})
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		store.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Terminal Is Absorbing", func(t *testing.T) {
		for _, status := range []domain.BookingStatus{
			domain.BookingStatusCompleted,
			domain.BookingStatusDeclined,
			domain.BookingStatusCanceled,
		} {
			store := newMockStore()
			store.bookings.On("GetByID", ctx, tenantID, bookingID).
				Return(&domain.Booking{ID: bookingID, TenantID: tenantID, Status: status}, nil)

			svc := NewBookingService(store, nil, nil)
			_, err := svc.Confirm(ctx, p, ConfirmBookingInput{BookingID: bookingID})
			var conflict *domain.ConflictError
			require.ErrorAs(t, err, &conflict, "from %s", status)
		}
	})
}

func TestBookingService_DeclineCancel(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	bookingID := uuid.New()
	vehicleID := uuid.New()
	p := testPrincipal(tenantID)

	t.Run("Decline Pending Releases Vehicle", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, VehicleID: vehicleID, Status: domain.BookingStatusPending}, nil)
		store.bookings.On("UpdateStatus", ctx, tenantID, bookingID, domain.BookingStatusDeclined, mock.Anything).Return(nil)
		store.activities.On("Create", ctx, mock.Anything).Return(nil)
		store.vehicles.On("UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusAvailable).Return(nil)

		svc := NewBookingService(store, nil, nil)
		booking, err := svc.Decline(ctx, p, BookingActionInput{BookingID: bookingID})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusDeclined, booking.Status)
		store.vehicles.AssertCalled(t, "UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusAvailable)
	})

	t.Run("Cancel Confirmed", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, VehicleID: vehicleID, Status: domain.BookingStatusConfirmed}, nil)
		store.bookings.On("UpdateStatus", ctx, tenantID, bookingID, domain.BookingStatusCanceled, mock.Anything).Return(nil)
		store.activities.On("Create", ctx, mock.Anything).Return(nil)
		store.vehicles.On("UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusAvailable).Return(nil)

		svc := NewBookingService(store, nil, nil)
		booking, err := svc.Cancel(ctx, p, BookingActionInput{BookingID: bookingID})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCanceled, booking.Status)
	})

	t.Run("Cancel Active Rejected", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, VehicleID: vehicleID, Status: domain.BookingStatusActive}, nil)

		svc := NewBookingService(store, nil, nil)
		_, err := svc.Cancel(ctx, p, BookingActionInput{BookingID: bookingID})
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
	})
}

func TestBookingService_StartEnd(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	bookingID := uuid.New()
	vehicleID := uuid.New()
	p := testPrincipal(tenantID)

	t.Run("Start Confirmed", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, VehicleID: vehicleID, Status: domain.BookingStatusConfirmed}, nil)
		store.bookings.On("UpdateStatus", ctx, tenantID, bookingID, domain.BookingStatusActive, mock.Anything).Return(nil)
		store.activities.On("Create", ctx, mock.Anything).Return(nil)
		store.vehicles.On("UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusRented).Return(nil)

		svc := NewBookingService(store, nil, nil)
		booking, err := svc.Start(ctx, p, StartBookingInput{BookingID: bookingID})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusActive, booking.Status)
	})

	t.Run("Start Pending Rejected", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, VehicleID: vehicleID, Status: domain.BookingStatusPending}, nil)

		svc := NewBookingService(store, nil, nil)
		_, err := svc.Start(ctx, p, StartBookingInput{BookingID: bookingID})
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("End Active With Explicit Return Date", func(t *testing.T) {
		returned := time.Date(2026, 2, 14, 17, 0, 0, 0, time.UTC)
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, VehicleID: vehicleID, Status: domain.BookingStatusActive}, nil)
		store.bookings.On("UpdateStatus", ctx, tenantID, bookingID, domain.BookingStatusCompleted, mock.Anything).Return(nil)
		store.vehicles.On("UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusAvailable).Return(nil)
		store.activities.On("Create", ctx, mock.MatchedBy(func(a *domain.RentalActivity) bool {
			return a.OccurredAt.Equal(returned)
		})).Return(nil)

		svc := NewBookingService(store, nil, nil)
		booking, err := svc.End(ctx, p, EndBookingInput{BookingID: bookingID, ReturnDate: &returned})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCompleted, booking.Status)
		store.vehicles.AssertCalled(t, "UpdateStatus", ctx, tenantID, vehicleID, domain.VehicleStatusAvailable)
	})

	t.Run("End Confirmed Rejected", func(t *testing.T) {
		store := newMockStore()
		store.bookings.On("GetByID", ctx, tenantID, bookingID).
			Return(&domain.Booking{ID: bookingID, TenantID: tenantID, VehicleID: vehicleID, Status: domain.BookingStatusConfirmed}, nil)

		svc := NewBookingService(store, nil, nil)
		_, err := svc.End(ctx, p, EndBookingInput{BookingID: bookingID})
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
	})
}

func TestEndTimestamp(t *testing.T) {
	t.Run("explicit return date wins", func(t *testing.T) {
		returned := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
		b := &domain.Booking{StartDate: time.Now().UTC().AddDate(0, 0, -2)}
		assert.Equal(t, returned, endTimestamp(b, &returned))
	})

	t.Run("past start backfills with start date", func(t *testing.T) {
		start := time.Now().UTC().AddDate(0, 0, -2)
		b := &domain.Booking{StartDate: start}
		assert.Equal(t, start, endTimestamp(b, nil))
	})

	t.Run("future start falls back to now", func(t *testing.T) {
		b := &domain.Booking{StartDate: time.Now().UTC().AddDate(0, 0, 5)}
		got := endTimestamp(b, nil)
		assert.WithinDuration(t, time.Now().UTC(), got, time.Second)
	})
}
