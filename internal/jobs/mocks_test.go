package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

// mockStore implements repository.Store for the repositories the jobs touch;
// the rest are never reached and return nil.
type mockStore struct {
	tenants       *MockTenantRepo
	bookings      *MockBookingRepo
	customers     *MockCustomerRepo
	payments      *MockPaymentRepo
	stats         *MockStatsRepo
	notifications *MockNotificationRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		tenants:       new(MockTenantRepo),
		bookings:      new(MockBookingRepo),
		customers:     new(MockCustomerRepo),
		payments:      new(MockPaymentRepo),
		stats:         new(MockStatsRepo),
		notifications: new(MockNotificationRepo),
	}
}

func (s *mockStore) Tenants() repository.TenantRepository             { return s.tenants }
func (s *mockStore) Vehicles() repository.VehicleRepository           { return nil }
func (s *mockStore) Customers() repository.CustomerRepository         { return s.customers }
func (s *mockStore) Locations() repository.LocationRepository         { return nil }
func (s *mockStore) Bookings() repository.BookingRepository           { return s.bookings }
func (s *mockStore) Drivers() repository.DriverRepository             { return nil }
func (s *mockStore) Values() repository.ValuesRepository              { return nil }
func (s *mockStore) Documents() repository.DocumentRepository         { return nil }
func (s *mockStore) Activities() repository.ActivityRepository        { return nil }
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
