package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrMissingContact      = errors.New("guest orders need a phone number or email")
	ErrProductUnavailable  = errors.New("product is not available for sale")
	ErrMissingCancelReason = errors.New("a cancellation reason is required")
	ErrMissingAddress      = errors.New("shipping_address is required")
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"

	PaymentUnpaid              = "unpaid"
	PaymentPendingVerification = "pending_verification"
	PaymentPaid                = "paid"
	PaymentRejected            = "rejected"
)

var statusFlow = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

var paymentFlow = map[string][]string{
	PaymentUnpaid:              {PaymentPendingVerification},
	PaymentPendingVerification: {PaymentPaid, PaymentRejected},
	PaymentRejected:            {PaymentPendingVerification},
}

func allowed(flow map[string][]string, from, to string) bool {
	for _, next := range flow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool { return allowed(statusFlow, from, to) }

// CanTransitionPayment is the same check for payment_status.
func CanTransitionPayment(from, to string) bool { return allowed(paymentFlow, from, to) }

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentUnpaid, PaymentPendingVerification, PaymentPaid, PaymentRejected:
		return true
	}
	return false
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          *int64          `json:"user_id,omitempty"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	Subtotal        decimal.Decimal `json:"subtotal_excluding_vat"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalVAT        decimal.Decimal `json:"total_vat_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	VoucherID       *int64          `json:"voucher_id,omitempty"`
	ShippingAddress string          `json:"shipping_address"`
	GuestPhone      *string         `json:"guest_phone,omitempty"`
	GuestEmail      *string         `json:"guest_email,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CancelledReason *string         `json:"cancelled_reason,omitempty"`
	ContactEmail    *string         `json:"contact_email,omitempty"`
	CustomerName    *string         `json:"customer_name,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID                    int64           `json:"id"`
	OrderID               int64           `json:"order_id"`
	ProductID             *int64          `json:"product_id,omitempty"`
	SKU                   string          `json:"sku"`
	ProductName           string          `json:"product_name"`
	Quantity              int             `json:"quantity"`
	UnitPriceExcludingVAT decimal.Decimal `json:"unit_price_excluding_vat"`
	VATAmount             decimal.Decimal `json:"vat_amount"`
	LineTotal             decimal.Decimal `json:"line_total"`
}

type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type ItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateInput struct {
	UserID          *int64
	GuestPhone      *string
	GuestEmail      *string
	ShippingAddress string
	Notes           *string
	VoucherCode     string
	Items           []ItemInput
}

type ListFilter struct {
	Status        string
	PaymentStatus string
	Search        string
	UserID        *int64
}

type Store interface {
	Create(ctx context.Context, in CreateInput) (*OrderDetail, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	GetDetail(ctx context.Context, id int64) (*OrderDetail, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status string, reason *string) (*Order, error)
	SetPaymentStatus(ctx context.Context, id int64, status string) error
}
