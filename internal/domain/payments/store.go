package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/domain/orders"
	"backoffice/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

// Repository implements Store. Create, Verify and Reject also update the
// order and must run on a tx-scoped repository.
type Repository struct {
	q    dbx.Querier
	logs *LogsRepository
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q, logs: NewLogsRepository(q)}
}

const paymentColumns = `
	p.id, p.order_id, o.order_number, p.payment_method, p.amount, p.status, p.slip_image_path,
	p.verified, p.verified_at, p.verified_by, p.rejection_reason, p.notes, p.created_at, p.updated_at`

const paymentFrom = `
	FROM payments p
	JOIN orders o ON o.id = p.order_id`

func scanPayment(row pgx.Row, p *Payment, extra ...any) error {
	dest := []any{
		&p.ID, &p.OrderID, &p.OrderNumber, &p.PaymentMethod, &p.Amount, &p.Status, &p.SlipImagePath,
		&p.Verified, &p.VerifiedAt, &p.VerifiedBy, &p.RejectionReason, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *Repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	if !ValidMethod(p.PaymentMethod) {
		return nil, ErrInvalidMethod
	}
	if p.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	orderRepo := orders.NewRepository(r.q, nil, nil)
	o, err := orderRepo.GetByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status == orders.StatusCancelled {
		return nil, ErrOrderClosed
	}
	if p.Amount.IsZero() {
		p.Amount = o.TotalAmount
	}

	// the order must accept a new slip before the payment row exists
	if err := orderRepo.SetPaymentStatus(ctx, p.OrderID, orders.PaymentPendingVerification); err != nil {
		return nil, err
	}

	p.Status = StatusPending
	p.OrderNumber = o.OrderNumber
	err = r.q.QueryRow(ctx, `
		INSERT INTO payments (order_id, payment_method, amount, status, slip_image_path, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, verified, created_at, updated_at
	`, p.OrderID, p.PaymentMethod, p.Amount, p.Status, p.SlipImagePath, p.Notes,
	).Scan(&p.ID, &p.Verified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if err := r.logs.Insert(ctx, p.ID, LogCreated, nil, map[string]any{
		"method": p.PaymentMethod,
		"amount": p.Amount.StringFixed(2),
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	if err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+paymentFrom+` WHERE p.id = $1`, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

func (r *Repository) lock(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+paymentFrom+` WHERE p.id = $1 FOR UPDATE OF p`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock payment: %w", err)
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Payment, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+`, COUNT(*) OVER() AS total_count `+paymentFrom+`
		WHERE ($1 = '' OR p.status = $1)
		  AND ($2 = '' OR p.payment_method = $2)
		  AND ($3::bigint IS NULL OR p.order_id = $3)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $4 OFFSET $5
	`, f.Status, f.Method, f.OrderID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make([]*Payment, 0, limit)
	total := 0
	for rows.Next() {
		var p Payment
		if err := scanPayment(rows, &p, &total); err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return out, total, nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]*Payment, error) {
	list, _, err := r.List(ctx, ListFilter{OrderID: &orderID}, 100, 0)
	return list, err
}

// Verify marks a pending payment verified, the order paid, and confirms a
// still-pending order.
func (r *Repository) Verify(ctx context.Context, id, verifierID int64) (*Payment, error) {
	p, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p.Status, StatusVerified) {
		return nil, fmt.Errorf("%w: payment is %s", ErrInvalidTransition, p.Status)
	}

	err = r.q.QueryRow(ctx, `
		UPDATE payments
		SET status = 'verified', verified = TRUE, verified_at = now(), verified_by = $2,
		    rejection_reason = NULL, updated_at = now()
		WHERE id = $1
		RETURNING status, verified, verified_at, verified_by, rejection_reason, updated_at
	`, id, verifierID).Scan(&p.Status, &p.Verified, &p.VerifiedAt, &p.VerifiedBy, &p.RejectionReason, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	orderRepo := orders.NewRepository(r.q, nil, nil)
	if err := orderRepo.SetPaymentStatus(ctx, p.OrderID, orders.PaymentPaid); err != nil {
		return nil, err
	}
	o, err := orderRepo.GetByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status == orders.StatusPending {
		if _, err := orderRepo.UpdateStatus(ctx, o.ID, orders.StatusConfirmed, nil); err != nil {
			return nil, err
		}
	}

	if err := r.logs.Insert(ctx, p.ID, LogVerified, &verifierID, nil); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) Reject(ctx context.Context, id, verifierID int64, reason string) (*Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	p, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p.Status, StatusRejected) {
		return nil, fmt.Errorf("%w: payment is %s", ErrInvalidTransition, p.Status)
	}

	err = r.q.QueryRow(ctx, `
		UPDATE payments
		SET status = 'rejected', verified = FALSE, verified_at = now(), verified_by = $2,
		    rejection_reason = $3, updated_at = now()
		WHERE id = $1
		RETURNING status, verified, verified_at, verified_by, rejection_reason, updated_at
	`, id, verifierID, reason).Scan(&p.Status, &p.Verified, &p.VerifiedAt, &p.VerifiedBy, &p.RejectionReason, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("reject payment: %w", err)
	}

	if err := orders.NewRepository(r.q, nil, nil).SetPaymentStatus(ctx, p.OrderID, orders.PaymentRejected); err != nil {
		return nil, err
	}
	if err := r.logs.Insert(ctx, p.ID, LogRejected, &verifierID, map[string]string{"reason": reason}); err != nil {
		return nil, err
	}
	return p, nil
}

// SetSlipPath records the slip image of a payment that is still pending.
func (r *Repository) SetSlipPath(ctx context.Context, id int64, path *string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE payments SET slip_image_path = $1, updated_at = now()
		WHERE id = $2 AND status = 'pending'
	`, path, id)
	if err != nil {
		return fmt.Errorf("set slip path: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: payment is %s", ErrInvalidTransition, p.Status)
	}
	return r.logs.Insert(ctx, id, LogSlip, nil, map[string]any{"path": path})
}
