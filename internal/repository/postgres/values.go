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

type valuesRepository struct {
	db DBTX
}

func NewValuesRepository(db DBTX) repository.ValuesRepository {
	return &valuesRepository{db: db}
}

const valuesColumns = `id, tenant_id, booking_id, base_price, discount, delivery_fee, collection_fee, deposit,
	additional_driver_fee, total_extras, sub_total, net_total,
	custom_base_price, custom_discount, custom_sub_total, custom_net_total, created_at, updated_at`

func (r *valuesRepository) Create(ctx context.Context, v *domain.RentalValues) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	query := `INSERT INTO rental_values (` + valuesColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.ExecContext(ctx, query, v.ID, v.TenantID, v.BookingID,
		v.BasePrice, v.Discount, v.DeliveryFee, v.CollectionFee, v.Deposit,
		v.AdditionalDriverFee, v.TotalExtras, v.SubTotal, v.NetTotal,
		v.CustomBasePrice, v.CustomDiscount, v.CustomSubTotal, v.CustomNetTotal,
		v.CreatedAt, v.UpdatedAt)
	return err
}

func (r *valuesRepository) Update(ctx context.Context, v *domain.RentalValues) error {
	v.UpdatedAt = time.Now().UTC()
	query := `UPDATE rental_values SET base_price=$1, discount=$2, delivery_fee=$3, collection_fee=$4, deposit=$5,
	            additional_driver_fee=$6, total_extras=$7, sub_total=$8, net_total=$9,
	            custom_base_price=$10, custom_discount=$11, custom_sub_total=$12, custom_net_total=$13, updated_at=$14
	          WHERE id=$15 AND tenant_id=$16`
	res, err := r.db.ExecContext(ctx, query,
		v.BasePrice, v.Discount, v.DeliveryFee, v.CollectionFee, v.Deposit,
		v.AdditionalDriverFee, v.TotalExtras, v.SubTotal, v.NetTotal,
		v.CustomBasePrice, v.CustomDiscount, v.CustomSubTotal, v.CustomNetTotal,
		v.UpdatedAt, v.ID, v.TenantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFound("rental values", v.ID.String())
	}
	return nil
}

func (r *valuesRepository) GetByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*domain.RentalValues, error) {
	v := &domain.RentalValues{}
	query := `SELECT ` + valuesColumns + ` FROM rental_values WHERE booking_id = $1 AND tenant_id = $2`
	err := r.db.QueryRowContext(ctx, query, bookingID, tenantID).Scan(
		&v.ID, &v.TenantID, &v.BookingID,
		&v.BasePrice, &v.Discount, &v.DeliveryFee, &v.CollectionFee, &v.Deposit,
		&v.AdditionalDriverFee, &v.TotalExtras, &v.SubTotal, &v.NetTotal,
		&v.CustomBasePrice, &v.CustomDiscount, &v.CustomSubTotal, &v.CustomNetTotal,
		&v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("rental values", bookingID.String())
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ReplaceExtras swaps all extras on a values row: delete then recreate, inside
// the caller's transaction.
func (r *valuesRepository) ReplaceExtras(ctx context.Context, tenantID, valuesID uuid.UUID, extras []domain.RentalExtra) error {
	del := `DELETE FROM rental_extras WHERE values_id = $1 AND tenant_id = $2`
	if _, err := r.db.ExecContext(ctx, del, valuesID, tenantID); err != nil {
		return err
	}

	ins := `INSERT INTO rental_extras (id, tenant_id, values_id, name, amount, is_custom) VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range extras {
		e := &extras[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.TenantID = tenantID
		e.ValuesID = valuesID
		if _, err := r.db.ExecContext(ctx, ins, e.ID, e.TenantID, e.ValuesID, e.Name, e.Amount, e.IsCustom); err != nil {
			return err
		}
	}
	return nil
}

func (r *valuesRepository) ListExtras(ctx context.Context, tenantID, valuesID uuid.UUID) ([]domain.RentalExtra, error) {
	query := `SELECT id, tenant_id, values_id, name, amount, is_custom
	          FROM rental_extras WHERE values_id = $1 AND tenant_id = $2 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, valuesID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extras []domain.RentalExtra
	for rows.Next() {
		var e domain.RentalExtra
		if err := rows.Scan(&e.ID, &e.TenantID, &e.ValuesID, &e.Name, &e.Amount, &e.IsCustom); err != nil {
			return nil, err
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}
