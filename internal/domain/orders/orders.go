package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"backoffice/internal/domain/products"
	"backoffice/internal/domain/vouchers"
	"backoffice/internal/infra/dbx"
	"backoffice/internal/pricing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository implements Store. Create and UpdateStatus touch stock and must
// run on a tx-scoped repository.
type Repository struct {
	q    dbx.Querier
	gen  *NumberGenerator
	calc *pricing.Calculator
	now  func() time.Time
}

func NewRepository(q dbx.Querier, gen *NumberGenerator, calc *pricing.Calculator) *Repository {
	return &Repository{q: q, gen: gen, calc: calc, now: time.Now}
}

const orderColumns = `
	o.id, o.user_id, o.order_number, o.status, o.payment_status,
	o.subtotal_excluding_vat, o.discount_amount, o.total_vat_amount, o.total_amount,
	o.voucher_id, o.shipping_address, o.guest_phone, o.guest_email, o.notes, o.cancelled_reason,
	COALESCE(o.guest_email, u.email), NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), ''),
	o.created_at, o.updated_at`

const orderFrom = `
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id`

func scanOrder(row pgx.Row, o *Order, extra ...any) error {
	dest := []any{
		&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.DiscountAmount, &o.TotalVAT, &o.TotalAmount,
		&o.VoucherID, &o.ShippingAddress, &o.GuestPhone, &o.GuestEmail, &o.Notes, &o.CancelledReason,
		&o.ContactEmail, &o.CustomerName, &o.CreatedAt, &o.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// mergeItems folds repeated products into one line and orders them by
// product id so rows are always locked in the same order.
func mergeItems(items []ItemInput) ([]ItemInput, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	qty := map[int64]int{}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		qty[it.ProductID] += it.Quantity
	}
	out := make([]ItemInput, 0, len(qty))
	for id, q := range qty {
		out = append(out, ItemInput{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func validateContact(in *CreateInput) error {
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	if in.ShippingAddress == "" {
		return ErrMissingAddress
	}
	if in.UserID != nil {
		return nil
	}
	hasPhone := in.GuestPhone != nil && strings.TrimSpace(*in.GuestPhone) != ""
	hasEmail := in.GuestEmail != nil && strings.TrimSpace(*in.GuestEmail) != ""
	if !hasPhone && !hasEmail {
		return ErrMissingContact
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, in CreateInput) (*OrderDetail, error) {
	if err := validateContact(&in); err != nil {
		return nil, err
	}
	items, err := mergeItems(in.Items)
	if err != nil {
		return nil, err
	}

	// 1) lock product rows and snapshot them
	productRepo := products.NewRepository(r.q, nil)
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	locked, err := productRepo.LockForOrder(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, len(items))
	orderItems := make([]OrderItem, len(items))
	for i, it := range items {
		p, ok := locked[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, products.ErrNotFound)
		}
		if p.Status == products.StatusInactive {
			return nil, fmt.Errorf("%s: %w", p.SKU, ErrProductUnavailable)
		}
		if p.StockQuantity < it.Quantity {
			return nil, fmt.Errorf("%s has %d left: %w", p.SKU, p.StockQuantity, products.ErrInsufficientStock)
		}

		lines[i] = r.calc.Line(p.PriceExcludingVAT, it.Quantity)
		pid := p.ID
		orderItems[i] = OrderItem{
			ProductID:             &pid,
			SKU:                   p.SKU,
			ProductName:           p.Name,
			Quantity:              it.Quantity,
			UnitPriceExcludingVAT: lines[i].UnitPrice,
			VATAmount:             lines[i].VAT,
			LineTotal:             lines[i].Total,
		}
	}

	// 2) voucher
	now := r.now()
	discount := decimal.Zero
	var voucherID *int64
	if code := vouchers.NormalizeCode(in.VoucherCode); code != "" {
		voucherRepo := vouchers.NewRepository(r.q)
		v, err := voucherRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		subtotal := r.calc.Totals(lines, decimal.Zero).Subtotal
		if discount, err = v.Discount(subtotal, now); err != nil {
			return nil, err
		}
		if err := voucherRepo.Redeem(ctx, v.ID); err != nil {
			return nil, err
		}
		voucherID = &v.ID
	}
	totals := r.calc.Totals(lines, discount)

	// 3) order number
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next order number: %w", err)
	}
	number, err := r.gen.Generate(seq, now)
	if err != nil {
		return nil, err
	}

	// 4) insert header and lines
	o := Order{
		UserID:          in.UserID,
		OrderNumber:     number,
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
		Subtotal:        totals.Subtotal,
		DiscountAmount:  totals.Discount,
		TotalVAT:        totals.VAT,
		TotalAmount:     totals.Total,
		VoucherID:       voucherID,
		ShippingAddress: in.ShippingAddress,
		GuestPhone:      in.GuestPhone,
		GuestEmail:      in.GuestEmail,
		Notes:           in.Notes,
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO orders (user_id, order_number, status, payment_status,
		                    subtotal_excluding_vat, discount_amount, total_vat_amount, total_amount,
		                    voucher_id, shipping_address, guest_phone, guest_email, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, o.UserID, o.OrderNumber, o.Status, o.PaymentStatus,
		o.Subtotal, o.DiscountAmount, o.TotalVAT, o.TotalAmount,
		o.VoucherID, o.ShippingAddress, o.GuestPhone, o.GuestEmail, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	o.ContactEmail = o.GuestEmail

	for i := range orderItems {
		it := &orderItems[i]
		it.OrderID = o.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, sku, product_name, quantity,
			                         unit_price_excluding_vat, vat_amount, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, it.OrderID, it.ProductID, it.SKU, it.ProductName, it.Quantity,
			it.UnitPriceExcludingVAT, it.VATAmount, it.LineTotal,
		).Scan(&it.ID)
		if err != nil {
			return nil, fmt.Errorf("insert order item %s: %w", it.SKU, err)
		}

		// 5) stock
		if _, err := productRepo.AdjustStock(ctx, *it.ProductID, -it.Quantity); err != nil {
			return nil, fmt.Errorf("reserve stock for %s: %w", it.SKU, err)
		}
	}

	return &OrderDetail{Order: o, Items: orderItems}, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id = $1`, id)
}

func (r *Repository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.order_number = $1`,
		strings.ToUpper(strings.TrimSpace(number)))
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Order, error) {
	var o Order
	if err := scanOrder(r.q.QueryRow(ctx, query, arg), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (r *Repository) GetDetail(ctx context.Context, id int64) (*OrderDetail, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, sku, product_name, quantity,
		       unit_price_excluding_vat, vat_amount, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.SKU, &it.ProductName, &it.Quantity,
			&it.UnitPriceExcludingVAT, &it.VATAmount, &it.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Order, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+`, COUNT(*) OVER() AS total_count `+orderFrom+`
		WHERE ($1 = '' OR o.status = $1)
		  AND ($2 = '' OR o.payment_status = $2)
		  AND ($3 = '' OR o.order_number ILIKE '%' || $3 || '%'
		       OR o.guest_phone ILIKE '%' || $3 || '%'
		       OR COALESCE(o.guest_email, u.email) ILIKE '%' || $3 || '%')
		  AND ($4::bigint IS NULL OR o.user_id = $4)
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $5 OFFSET $6
	`, f.Status, f.PaymentStatus, dbx.EscapeLike(f.Search), f.UserID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]*Order, 0, limit)
	total := 0
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o, &total); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return out, total, nil
}

func (r *Repository) lockStatus(ctx context.Context, id int64) (status, paymentStatus string, err error) {
	err = r.q.QueryRow(ctx, `SELECT status, payment_status FROM orders WHERE id = $1 FOR UPDATE`, id).
		Scan(&status, &paymentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return status, paymentStatus, err
}

// UpdateStatus moves the order along its status flow. Cancelling puts the
// reserved stock back and returns the voucher use the order took.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string, reason *string) (*Order, error) {
	current, _, err := r.lockStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}
	if status == StatusCancelled && (reason == nil || strings.TrimSpace(*reason) == "") {
		return nil, ErrMissingCancelReason
	}

	if status == StatusCancelled {
		items, err := r.loadItems(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load order items: %w", err)
		}
		productRepo := products.NewRepository(r.q, nil)
		for _, it := range items {
			if it.ProductID == nil {
				continue
			}
			_, err := productRepo.AdjustStock(ctx, *it.ProductID, it.Quantity)
			if err != nil && !errors.Is(err, products.ErrNotFound) {
				return nil, fmt.Errorf("restore stock for %s: %w", it.SKU, err)
			}
		}

		var voucherID *int64
		if err := r.q.QueryRow(ctx, `SELECT voucher_id FROM orders WHERE id = $1`, id).Scan(&voucherID); err != nil {
			return nil, fmt.Errorf("load order voucher: %w", err)
		}
		if voucherID != nil {
			if err := vouchers.NewRepository(r.q).Release(ctx, *voucherID); err != nil {
				return nil, err
			}
		}
	}

	_, err = r.q.Exec(ctx, `
		UPDATE orders
		SET status = $2,
		    cancelled_reason = CASE WHEN $2 = 'cancelled' THEN $3 ELSE cancelled_reason END,
		    updated_at = now()
		WHERE id = $1
	`, id, status, reason)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status string) error {
	_, current, err := r.lockStatus(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransitionPayment(current, status) {
		return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, current, status)
	}
	_, err = r.q.Exec(ctx, `UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}
