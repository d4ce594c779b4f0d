package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, package_id, amount, status, reference_number, qr_code_data, expires_at, confirmed_by_id, confirmed_at, notes, created_at, updated_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, t *model.PaymentTransaction) error {
	const q = `
INSERT INTO payment_transaction (
  id, user_id, package_id, amount, status, reference_number, qr_code_data, expires_at, confirmed_by_id, confirmed_at, notes, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  status=$5, confirmed_by_id=$9, confirmed_at=$10, notes=$11, updated_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.UserID, t.PackageID, t.Amount, t.Status, t.ReferenceNumber, t.QRCodeData,
		t.ExpiresAt, t.ConfirmedByID, t.ConfirmedAt, t.Notes, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentTransaction, error) {
	q := `SELECT ` + paymentColumns + ` FROM payment_transaction WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	return r.findOne(ctx, tx, q+";", id)
}

func (r *paymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentTransaction, error) {
	q := `SELECT ` + paymentColumns + ` FROM payment_transaction WHERE reference_number=$1`
	return r.findOne(ctx, tx, q+";", reference)
}

func (r *paymentRepo) FindPendingByUserAndPackage(ctx context.Context, tx repository.Tx, userID, packageID string) (*model.PaymentTransaction, error) {
	q := `SELECT ` + paymentColumns + ` FROM payment_transaction WHERE user_id=$1 AND package_id=$2 AND status='pending' LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, packageID)
	if err != nil {
		return nil, err
	}
	t, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}

func (r *paymentRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.PaymentTransaction, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	t, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}

func (r *paymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.PaymentTransaction, error) {
	q := `SELECT ` + paymentColumns + ` FROM payment_transaction WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *paymentRepo) ListPending(ctx context.Context, tx repository.Tx) ([]*model.PaymentTransaction, error) {
	q := `SELECT ` + paymentColumns + ` FROM payment_transaction WHERE status='pending' ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return collectPayments(rows)
}

func scanPayment(row pgx.Row) (*model.PaymentTransaction, error) {
	t := &model.PaymentTransaction{}
	if err := row.Scan(&t.ID, &t.UserID, &t.PackageID, &t.Amount, &t.Status, &t.ReferenceNumber, &t.QRCodeData,
		&t.ExpiresAt, &t.ConfirmedByID, &t.ConfirmedAt, &t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func collectPayments(rows pgx.Rows) ([]*model.PaymentTransaction, error) {
	var out []*model.PaymentTransaction
	for rows.Next() {
		t, err := scanPayment(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
