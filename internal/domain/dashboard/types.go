package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Overview struct {
	// Users
	TotalUsers     int64 `json:"total_users"`
	TotalCustomers int64 `json:"total_customers"`

	// Catalogue
	TotalCategories       int64 `json:"total_categories"`
	TotalProducts         int64 `json:"total_products"`
	TotalActiveProducts   int64 `json:"total_active_products"`
	TotalOutOfStock       int64 `json:"total_out_of_stock_products"`
	TotalLowStockProducts int64 `json:"total_low_stock_products"`

	// Orders
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TotalOrders    int64            `json:"total_orders"`

	// Payments
	PendingPayments int64 `json:"pending_payments"`

	// Money, from paid orders only
	Revenue      decimal.Decimal `json:"revenue"`
	VATCollected decimal.Decimal `json:"vat_collected"`
}

// MaxSalesDays is the longest window SalesByDay serves.
const MaxSalesDays = 366

var ErrInvalidDays = errors.New("days must be between 1 and 366")

type DailySales struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Store interface {
	GetOverview(ctx context.Context, lowStockThreshold int) (*Overview, error)
	SalesByDay(ctx context.Context, days int) ([]DailySales, error)
}
