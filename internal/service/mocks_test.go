package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

// mockStore satisfies repository.Store with one mock per repository. WithTx
// runs the callback against the same store, which is exactly the semantics
// the services rely on.
type mockStore struct {
	tenants       *MockTenantRepo
	vehicles      *MockVehicleRepo
	customers     *MockCustomerRepo
	locations     *MockLocationRepo
	bookings      *MockBookingRepo
	drivers       *MockDriverRepo
	values        *MockValuesRepo
	documents     *MockDocumentRepo
	activities    *MockActivityRepo
	notifications *MockNotificationRepo
	payments      *MockPaymentRepo
	stats         *MockStatsRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		tenants:       new(MockTenantRepo),
		vehicles:      new(MockVehicleRepo),
		customers:     new(MockCustomerRepo),
		locations:     new(MockLocationRepo),
		bookings:      new(MockBookingRepo),
		drivers:       new(MockDriverRepo),
		values:        new(MockValuesRepo),
		documents:     new(MockDocumentRepo),
		activities:    new(MockActivityRepo),
		notifications: new(MockNotificationRepo),
		payments:      new(MockPaymentRepo),
		stats:         new(MockStatsRepo),
	}
}

func (s *mockStore) Tenants() repository.TenantRepository             { return s.tenants }
func (s *mockStore) Vehicles() repository.VehicleRepository           { return s.vehicles }
func (s *mockStore) Customers() repository.CustomerRepository         { return s.customers }
func (s *mockStore) Locations() repository.LocationRepository         { return s.locations }
func (s *mockStore) Bookings() repository.BookingRepository           { return s.bookings }
func (s *mockStore) Drivers() repository.DriverRepository             { return s.drivers }
func (s *mockStore) Values() repository.ValuesRepository              { return s.values }
func (s *mockStore) Documents() repository.DocumentRepository         { return s.documents }
func (s *mockStore) Activities() repository.ActivityRepository        { return s.activities }
func (s *mockStore) Notifications() repository.NotificationRepository { return s.notifications }
func (s *mockStore) Payments() repository.PaymentRepository           { return s.payments }
func (s *mockStore) Stats() repository.StatsRepository                { return s.stats }

func (s *mockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// MockTenantRepo
type MockTenantRepo struct {
	mock.Mock
}

func (m *MockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}
func (m *MockTenantRepo) ListActive(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}
func (m *MockTenantRepo) GetChargeType(ctx context.Context, tenantID, id uuid.UUID) (*domain.ChargeType, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeType), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.VehicleStatus) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) CountCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Int(0), args.Error(1)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Location, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.BookingStatus, actorID *uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, status, actorID)
	return args.Error(0)
}
func (m *MockBookingRepo) NextNumber(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingRepo) List(ctx context.Context, tenantID uuid.UUID, status string, page, pageSize int) ([]domain.Booking, int, error) {
	args := m.Called(ctx, tenantID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Booking), args.Int(1), args.Error(2)
}
func (m *MockBookingRepo) ListStartingBetween(ctx context.Context, tenantID uuid.UUID, statuses []domain.BookingStatus, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, tenantID, statuses, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListEndingBetween(ctx context.Context, tenantID uuid.UUID, statuses []domain.BookingStatus, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, tenantID, statuses, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountStartingBetween(ctx context.Context, tenantID uuid.UUID, status domain.BookingStatus, from, to time.Time) (int, error) {
	args := m.Called(ctx, tenantID, status, from, to)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingRepo) CountByStatusBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[domain.BookingStatus]int, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.BookingStatus]int), args.Error(1)
}
func (m *MockBookingRepo) AvgCompletedDurationDays(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockDriverRepo
type MockDriverRepo struct {
	mock.Mock
}

func (m *MockDriverRepo) Replace(ctx context.Context, tenantID, bookingID uuid.UUID, drivers []domain.RentalDriver) error {
	args := m.Called(ctx, tenantID, bookingID, drivers)
	return args.Error(0)
}
func (m *MockDriverRepo) ListByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]domain.RentalDriver, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalDriver), args.Error(1)
}

// MockValuesRepo
type MockValuesRepo struct {
	mock.Mock
}

func (m *MockValuesRepo) Create(ctx context.Context, v *domain.RentalValues) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockValuesRepo) Update(ctx context.Context, v *domain.RentalValues) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockValuesRepo) GetByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.RentalValues, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalValues), args.Error(1)
}
func (m *MockValuesRepo) ReplaceExtras(ctx context.Context, tenantID, valuesID uuid.UUID, extras []domain.RentalExtra) error {
	args := m.Called(ctx, tenantID, valuesID, extras)
	return args.Error(0)
}
func (m *MockValuesRepo) ListExtras(ctx context.Context, tenantID, valuesID uuid.UUID) ([]domain.RentalExtra, error) {
	args := m.Called(ctx, tenantID, valuesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalExtra), args.Error(1)
}

// MockDocumentRepo
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) GetInvoiceByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockDocumentRepo) UpsertInvoice(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockDocumentRepo) GetAgreementByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Agreement, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockDocumentRepo) UpsertAgreement(ctx context.Context, ag *domain.Agreement) error {
	args := m.Called(ctx, ag)
	return args.Error(0)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, a *domain.RentalActivity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockActivityRepo) ListByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]domain.RentalActivity, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalActivity), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.TenantNotification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}
func (m *MockNotificationRepo) List(ctx context.Context, tenantID, userID uuid.UUID, page, pageSize int) ([]domain.TenantNotification, int, error) {
	args := m.Called(ctx, tenantID, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.TenantNotification), args.Int(1), args.Error(2)
}
func (m *MockNotificationRepo) MarkRead(ctx context.Context, tenantID, userID, notificationID uuid.UUID) error {
	args := m.Called(ctx, tenantID, userID, notificationID)
	return args.Error(0)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockPaymentRepo) SumBetween(ctx context.Context, tenantID uuid.UUID, kind domain.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, kind, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockStatsRepo
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) UpsertMonthly(ctx context.Context, s *domain.TenantMonthlyStat) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockStatsRepo) UpsertYearly(ctx context.Context, s *domain.TenantYearlyStat) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockStatsRepo) ListMonthly(ctx context.Context, tenantID uuid.UUID, year int) ([]domain.TenantMonthlyStat, error) {
	args := m.Called(ctx, tenantID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantMonthlyStat), args.Error(1)
}
func (m *MockStatsRepo) ListYearly(ctx context.Context, tenantID uuid.UUID) ([]domain.TenantYearlyStat, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantYearlyStat), args.Error(1)
}

// MockDocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GenerateInvoice(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockDocumentService) GenerateAgreement(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Agreement, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingReceived(ctx context.Context, to, customerName, bookingCode string) error {
	args := m.Called(ctx, to, customerName, bookingCode)
	return args.Error(0)
}
func (m *MockEmailService) SendNewBookingAlert(ctx context.Context, to, tenantName, bookingCode string) error {
	args := m.Called(ctx, to, tenantName, bookingCode)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingConfirmed(ctx context.Context, to, customerName, bookingCode string, attachments []string) error {
	args := m.Called(ctx, to, customerName, bookingCode, attachments)
	return args.Error(0)
}
func (m *MockEmailService) SendReminder(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, templateID string, payload any) ([]byte, error) {
	args := m.Called(ctx, templateID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}
