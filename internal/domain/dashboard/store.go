package dashboard

import (
	"context"
	"fmt"

	"backoffice/internal/infra/dbx"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) GetOverview(ctx context.Context, lowStockThreshold int) (*Overview, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'customer'),

			(SELECT COUNT(*) FROM product_categories),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE status = 'active'),
			(SELECT COUNT(*) FROM products WHERE status = 'out_of_stock'),
			(SELECT COUNT(*) FROM products WHERE status <> 'inactive' AND stock_quantity > 0 AND stock_quantity <= $1),

			(SELECT COUNT(*) FROM payments WHERE status = 'pending'),

			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = 'paid' AND status <> 'cancelled'),
			(SELECT COALESCE(SUM(total_vat_amount), 0) FROM orders WHERE payment_status = 'paid' AND status <> 'cancelled')
	`

	o := Overview{OrdersByStatus: map[string]int64{}}
	err := r.q.QueryRow(ctx, q, lowStockThreshold).Scan(
		&o.TotalUsers,
		&o.TotalCustomers,

		&o.TotalCategories,
		&o.TotalProducts,
		&o.TotalActiveProducts,
		&o.TotalOutOfStock,
		&o.TotalLowStockProducts,

		&o.PendingPayments,

		&o.Revenue,
		&o.VATCollected,
	)
	if err != nil {
		return nil, fmt.Errorf("get dashboard overview: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan orders by status: %w", err)
		}
		o.OrdersByStatus[status] = n
		o.TotalOrders += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

// SalesByDay returns paid revenue per Bangkok calendar day for the last n days,
// oldest first. Days without sales are included with zeros.
func (r *Repository) SalesByDay(ctx context.Context, days int) ([]DailySales, error) {
	if days <= 0 || days > MaxSalesDays {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}
	rows, err := r.q.Query(ctx, `
		WITH d AS (
			SELECT generate_series(
				(now() AT TIME ZONE 'Asia/Bangkok')::date - ($1::int - 1),
				(now() AT TIME ZONE 'Asia/Bangkok')::date,
				interval '1 day'
			)::date AS day
		)
		SELECT d.day::timestamp, COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
		FROM d
		LEFT JOIN orders o
		  ON (o.created_at AT TIME ZONE 'Asia/Bangkok')::date = d.day
		 AND o.payment_status = 'paid'
		 AND o.status <> 'cancelled'
		GROUP BY d.day
		ORDER BY d.day
	`, days)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	defer rows.Close()

	out := make([]DailySales, 0, days)
	for rows.Next() {
		var s DailySales
		if err := rows.Scan(&s.Day, &s.Orders, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan sales by day: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
