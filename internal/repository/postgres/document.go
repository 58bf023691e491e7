package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type documentRepository struct {
	db DBTX
}

func NewDocumentRepository(db DBTX) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) GetInvoiceByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	query := `SELECT id, tenant_id, booking_id, number, amount, url, generated_at
	          FROM invoices WHERE booking_id = $1 AND tenant_id = $2`
	err := r.db.QueryRowContext(ctx, query, bookingID, tenantID).Scan(
		&inv.ID, &inv.TenantID, &inv.BookingID, &inv.Number, &inv.Amount, &inv.URL, &inv.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("invoice", bookingID.String())
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// UpsertInvoice creates the invoice on first generation and replaces the URL
// and amount on regeneration. The number, assigned once, is never overwritten.
func (r *documentRepository) UpsertInvoice(ctx context.Context, inv *domain.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.GeneratedAt = time.Now().UTC()
	query := `INSERT INTO invoices (id, tenant_id, booking_id, number, amount, url, generated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (tenant_id, booking_id)
	          DO UPDATE SET amount = EXCLUDED.amount, url = EXCLUDED.url, generated_at = EXCLUDED.generated_at`
	_, err := r.db.ExecContext(ctx, query, inv.ID, inv.TenantID, inv.BookingID, inv.Number, inv.Amount, inv.URL, inv.GeneratedAt)
	return err
}

func (r *documentRepository) GetAgreementByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.Agreement, error) {
	ag := &domain.Agreement{}
	query := `SELECT id, tenant_id, booking_id, reference, url, generated_at
	          FROM agreements WHERE booking_id = $1 AND tenant_id = $2`
	err := r.db.QueryRowContext(ctx, query, bookingID, tenantID).Scan(
		&ag.ID, &ag.TenantID, &ag.BookingID, &ag.Reference, &ag.URL, &ag.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("agreement", bookingID.String())
	}
	if err != nil {
		return nil, err
	}
	return ag, nil
}

func (r *documentRepository) UpsertAgreement(ctx context.Context, ag *domain.Agreement) error {
	if ag.ID == uuid.Nil {
		ag.ID = uuid.New()
	}
	ag.GeneratedAt = time.Now().UTC()
	query := `INSERT INTO agreements (id, tenant_id, booking_id, reference, url, generated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (tenant_id, booking_id)
	          DO UPDATE SET url = EXCLUDED.url, generated_at = EXCLUDED.generated_at`
	_, err := r.db.ExecContext(ctx, query, ag.ID, ag.TenantID, ag.BookingID, ag.Reference, ag.URL, ag.GeneratedAt)
	return err
}
