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

var _ repository.PackageRepository = (*packageRepo)(nil)

type packageRepo struct{ pool *pgxpool.Pool }

func NewPackageRepo(pool *pgxpool.Pool) *packageRepo {
	return &packageRepo{pool: pool}
}

const packageColumns = `id, name, type, description, price, duration_days, is_active, created_at, updated_at`

func (r *packageRepo) Save(ctx context.Context, tx repository.Tx, p *model.Package) error {
	const q = `
INSERT INTO package (
  id, name, type, description, price, duration_days, is_active, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
) ON CONFLICT (id) DO UPDATE SET
  name=$2, type=$3, description=$4, price=$5, duration_days=$6, is_active=$7, updated_at=$9;`

	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Name, p.Type, p.Description, p.Price, p.DurationDays, p.IsActive, p.CreatedAt, p.UpdatedAt)
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

func (r *packageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Package, error) {
	q := `SELECT ` + packageColumns + ` FROM package WHERE id=$1 AND is_active = TRUE;`
	return r.findOne(ctx, tx, q, id)
}

func (r *packageRepo) FindByType(ctx context.Context, tx repository.Tx, typ string) (*model.Package, error) {
	q := `SELECT ` + packageColumns + ` FROM package WHERE type=$1 AND is_active = TRUE;`
	return r.findOne(ctx, tx, q, typ)
}

func (r *packageRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.Package, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	p := &model.Package{}
	if err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Description, &p.Price, &p.DurationDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

// ListActive orders lifetime last (NULL duration sorts after numbers).
func (r *packageRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Package, error) {
	q := `SELECT ` + packageColumns + ` FROM package WHERE is_active = TRUE ORDER BY duration_days ASC NULLS LAST;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Package
	for rows.Next() {
		p := &model.Package{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Description, &p.Price, &p.DurationDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *packageRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM package;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
