package products

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/sku"

	"github.com/shopspring/decimal"
)

var (
	ErrSKUImmutable      = sku.ErrImmutable
	ErrNotFound          = errors.New("product not found")
	ErrDuplicateSKU      = errors.New("a product with that sku already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidStatus     = errors.New("invalid product status")
	ErrInvalidName       = errors.New("product name cannot be empty")
	ErrCategoryRequired  = errors.New("category_id is required")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidStock      = errors.New("stock quantity must not be negative")
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOutOfStock = "out_of_stock"

	LowStockThreshold = 5
)

type Product struct {
	ID                int64           `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	Defects           *string         `json:"defects,omitempty"`
	CategoryID        int64           `json:"category_id"`
	CategoryName      string          `json:"category_name,omitempty"`
	PriceExcludingVAT decimal.Decimal `json:"price_excluding_vat"`
	PriceIncludingVAT decimal.Decimal `json:"price_including_vat"`
	StockQuantity     int             `json:"stock_quantity"`
	Status            string          `json:"status"`
	ImagePath         *string         `json:"image_path,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// UpdateInput is a partial update. SKU is accepted only so that an attempt to
// change it can be rejected explicitly.
type UpdateInput struct {
	SKU               *string
	Name              *string
	Description       *string
	Defects           *string
	CategoryID        *int64
	PriceExcludingVAT *decimal.Decimal
	StockQuantity     *int
	Status            *string
}

type ListFilter struct {
	CategoryID *int64
	Status     string
	Search     string
	LowStock   bool
}

type Store interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	PreviewSKU(ctx context.Context, categoryID int64) (string, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Product, int, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Product, error)
	UpdateImagePath(ctx context.Context, id int64, path *string) error
	AdjustStock(ctx context.Context, id int64, delta int) (*Product, error)
	LockForOrder(ctx context.Context, ids []int64) (map[int64]*Product, error)
	Delete(ctx context.Context, id int64) (*Product, error)
}

// ReconcileStatus keeps the stock-driven status in step with the quantity:
// an active product with no stock shows as out_of_stock and flips back once
// restocked. Inactive products stay inactive.
func ReconcileStatus(status string, stock int) string {
	switch {
	case status == StatusActive && stock <= 0:
		return StatusOutOfStock
	case status == StatusOutOfStock && stock > 0:
		return StatusActive
	default:
		return status
	}
}

func validStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusOutOfStock
}
