package payments

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("payment not found")
	ErrInvalidTransition = errors.New("only pending payments can be verified or rejected")
	ErrReasonRequired    = errors.New("a rejection reason is required")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrOrderClosed       = errors.New("order is cancelled")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
)

const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"

	MethodBankTransfer   = "bank_transfer"
	MethodPromptPay      = "promptpay"
	MethodCashOnDelivery = "cash_on_delivery"
	MethodCreditCard     = "credit_card"
)

func ValidMethod(m string) bool {
	switch m {
	case MethodBankTransfer, MethodPromptPay, MethodCashOnDelivery, MethodCreditCard:
		return true
	}
	return false
}

// CanTransition reports whether a payment may move from one status to
// another. Verified and rejected are final.
func CanTransition(from, to string) bool {
	return from == StatusPending && (to == StatusVerified || to == StatusRejected)
}

type Payment struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	OrderNumber     string          `json:"order_number,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	SlipImagePath   *string         `json:"slip_image_path,omitempty"`
	Verified        bool            `json:"verified"`
	VerifiedAt      *time.Time      `json:"verified_at,omitempty"`
	VerifiedBy      *int64          `json:"verified_by,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ListFilter struct {
	Status  string
	Method  string
	OrderID *int64
}

type Store interface {
	Create(ctx context.Context, p *Payment) (*Payment, error)
	GetByID(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Payment, int, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*Payment, error)
	Verify(ctx context.Context, id, verifierID int64) (*Payment, error)
	Reject(ctx context.Context, id, verifierID int64, reason string) (*Payment, error)
	SetSlipPath(ctx context.Context, id int64, path *string) error
}
