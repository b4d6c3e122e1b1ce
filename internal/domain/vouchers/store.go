package vouchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

const voucherColumns = `id, code, description, discount_type, discount_value, min_order_amount,
	max_discount, usage_limit, used_count, starts_at, expires_at, status, created_at, updated_at`

func scanVoucher(row pgx.Row, v *Voucher, extra ...any) error {
	dest := []any{
		&v.ID, &v.Code, &v.Description, &v.DiscountType, &v.DiscountValue, &v.MinOrderAmount,
		&v.MaxDiscount, &v.UsageLimit, &v.UsedCount, &v.StartsAt, &v.ExpiresAt, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *Repository) Create(ctx context.Context, v *Voucher) error {
	if err := v.Normalize(); err != nil {
		return err
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO vouchers (code, description, discount_type, discount_value, min_order_amount,
		                      max_discount, usage_limit, starts_at, expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, used_count, created_at, updated_at
	`, v.Code, v.Description, v.DiscountType, v.DiscountValue, v.MinOrderAmount,
		v.MaxDiscount, v.UsageLimit, v.StartsAt, v.ExpiresAt, v.Status,
	).Scan(&v.ID, &v.UsedCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeUniqueViolation {
			return ErrDuplicateCode
		}
		return fmt.Errorf("create voucher: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Voucher, error) {
	return r.getOne(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id)
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	return r.getOne(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`, NormalizeCode(code))
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Voucher, error) {
	v := &Voucher{}
	if err := scanVoucher(r.q.QueryRow(ctx, query, arg), v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Voucher, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+voucherColumns+`, COUNT(*) OVER() AS total_count
		FROM vouchers
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR code ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, f.Status, dbx.EscapeLike(f.Search), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	out := make([]*Voucher, 0, limit)
	total := 0
	for rows.Next() {
		var v Voucher
		if err := scanVoucher(rows, &v, &total); err != nil {
			return nil, 0, fmt.Errorf("scan voucher: %w", err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return out, total, nil
}

func (r *Repository) Update(ctx context.Context, v *Voucher) error {
	if err := v.Normalize(); err != nil {
		return err
	}
	err := r.q.QueryRow(ctx, `
		UPDATE vouchers
		SET code = $1, description = $2, discount_type = $3, discount_value = $4,
		    min_order_amount = $5, max_discount = $6, usage_limit = $7,
		    starts_at = $8, expires_at = $9, status = $10, updated_at = now()
		WHERE id = $11
		RETURNING used_count, updated_at
	`, v.Code, v.Description, v.DiscountType, v.DiscountValue, v.MinOrderAmount,
		v.MaxDiscount, v.UsageLimit, v.StartsAt, v.ExpiresAt, v.Status, v.ID,
	).Scan(&v.UsedCount, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if dbx.PgCode(err) == dbx.CodeUniqueViolation {
			return ErrDuplicateCode
		}
		return fmt.Errorf("update voucher: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeForeignKeyViolation {
			return fmt.Errorf("voucher %d is referenced by orders; deactivate it instead: %w", id, err)
		}
		return fmt.Errorf("delete voucher: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Redeem increments used_count unless the usage limit is already reached.
func (r *Repository) Redeem(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE vouchers
		SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)
	`, id)
	if err != nil {
		return fmt.Errorf("redeem voucher: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrExhausted
	}
	return nil
}

// Release gives back one use taken by Redeem when the order that redeemed
// it is cancelled. A voucher already at zero is left alone.
func (r *Repository) Release(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `
		UPDATE vouchers
		SET used_count = used_count - 1, updated_at = now()
		WHERE id = $1 AND used_count > 0
	`, id)
	if err != nil {
		return fmt.Errorf("release voucher: %w", err)
	}
	return nil
}

// DeactivateExpired flips active vouchers whose expires_at has passed to
// inactive and returns how many changed.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE vouchers
		SET status = 'inactive', updated_at = now()
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired vouchers: %w", err)
	}
	return cmd.RowsAffected(), nil
}
