package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"rentalfleet-backend/internal/repository"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so every
// repository works identically inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repository.Store over PostgreSQL.
type Store struct {
	db *sql.DB // nil when the store is scoped to an open transaction

	tenants       repository.TenantRepository
	vehicles      repository.VehicleRepository
	customers     repository.CustomerRepository
	locations     repository.LocationRepository
	bookings      repository.BookingRepository
	drivers       repository.DriverRepository
	values        repository.ValuesRepository
	documents     repository.DocumentRepository
	activities    repository.ActivityRepository
	notifications repository.NotificationRepository
	payments      repository.PaymentRepository
	stats         repository.StatsRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, q DBTX) *Store {
	return &Store{
		db:            db,
		tenants:       NewTenantRepository(q),
		vehicles:      NewVehicleRepository(q),
		customers:     NewCustomerRepository(q),
		locations:     NewLocationRepository(q),
		bookings:      NewBookingRepository(q),
		drivers:       NewDriverRepository(q),
		values:        NewValuesRepository(q),
		documents:     NewDocumentRepository(q),
		activities:    NewActivityRepository(q),
		notifications: NewNotificationRepository(q),
		payments:      NewPaymentRepository(q),
		stats:         NewStatsRepository(q),
	}
}

func (s *Store) Tenants() repository.TenantRepository             { return s.tenants }
func (s *Store) Vehicles() repository.VehicleRepository           { return s.vehicles }
func (s *Store) Customers() repository.CustomerRepository         { return s.customers }
func (s *Store) Locations() repository.LocationRepository         { return s.locations }
func (s *Store) Bookings() repository.BookingRepository           { return s.bookings }
func (s *Store) Drivers() repository.DriverRepository             { return s.drivers }
func (s *Store) Values() repository.ValuesRepository              { return s.values }
func (s *Store) Documents() repository.DocumentRepository         { return s.documents }
func (s *Store) Activities() repository.ActivityRepository        { return s.activities }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }
func (s *Store) Payments() repository.PaymentRepository           { return s.payments }
func (s *Store) Stats() repository.StatsRepository                { return s.stats }

// WithTx runs fn against a transaction-scoped Store. fn returning an error
// rolls back every write made through that Store. Calling WithTx on a store
// that is already transaction-scoped joins the open transaction.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(newStore(nil, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
