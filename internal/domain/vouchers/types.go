package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("voucher not found")
	ErrDuplicateCode = errors.New("a voucher with that code already exists")
	ErrExhausted     = errors.New("voucher usage limit reached")
	ErrNotApplicable = errors.New("voucher is not applicable")
	ErrInvalid       = errors.New("invalid voucher")
)

const (
	TypePercent = "percent"
	TypeFixed   = "fixed"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Voucher struct {
	ID             int64            `json:"id"`
	Code           string           `json:"code"`
	Description    *string          `json:"description,omitempty"`
	DiscountType   string           `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	UsedCount      int              `json:"used_count"`
	StartsAt       *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NotApplicableError carries the reason a voucher was refused and matches
// ErrNotApplicable with errors.Is.
type NotApplicableError struct {
	Reason string
}

func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("voucher is not applicable: %s", e.Reason)
}

func (e *NotApplicableError) Is(target error) bool {
	return target == ErrNotApplicable
}

func notApplicable(reason string) error {
	return &NotApplicableError{Reason: reason}
}

// Discount returns the amount the voucher takes off a VAT-exclusive subtotal
// at time now. The result never exceeds the subtotal.
func (v *Voucher) Discount(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	switch {
	case v.Status != StatusActive:
		return decimal.Zero, notApplicable("inactive")
	case v.StartsAt != nil && now.Before(*v.StartsAt):
		return decimal.Zero, notApplicable("not started")
	case v.ExpiresAt != nil && !now.Before(*v.ExpiresAt):
		return decimal.Zero, notApplicable("expired")
	case v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit:
		return decimal.Zero, notApplicable("usage limit reached")
	case subtotal.LessThan(v.MinOrderAmount):
		return decimal.Zero, notApplicable(fmt.Sprintf("minimum order is %s", v.MinOrderAmount.StringFixed(2)))
	}

	var amount decimal.Decimal
	switch v.DiscountType {
	case TypePercent:
		amount = subtotal.Mul(v.DiscountValue).Div(decimal.NewFromInt(100))
		if v.MaxDiscount != nil && amount.GreaterThan(*v.MaxDiscount) {
			amount = *v.MaxDiscount
		}
	case TypeFixed:
		amount = v.DiscountValue
	default:
		return decimal.Zero, ErrInvalid
	}

	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount.Round(2), nil
}

// Normalize upper-cases the code and checks the static fields.
func (v *Voucher) Normalize() error {
	v.Code = NormalizeCode(v.Code)
	if v.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalid)
	}
	if v.Status == "" {
		v.Status = StatusActive
	}
	if v.Status != StatusActive && v.Status != StatusInactive {
		return fmt.Errorf("%w: status must be active or inactive", ErrInvalid)
	}
	if !v.DiscountValue.IsPositive() {
		return fmt.Errorf("%w: discount_value must be positive", ErrInvalid)
	}
	switch v.DiscountType {
	case TypePercent:
		if v.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percent discount cannot exceed 100", ErrInvalid)
		}
	case TypeFixed:
	default:
		return fmt.Errorf("%w: discount_type must be percent or fixed", ErrInvalid)
	}
	if v.MinOrderAmount.IsNegative() {
		return fmt.Errorf("%w: min_order_amount cannot be negative", ErrInvalid)
	}
	if v.UsageLimit != nil && *v.UsageLimit < 0 {
		return fmt.Errorf("%w: usage_limit cannot be negative", ErrInvalid)
	}
	if v.StartsAt != nil && v.ExpiresAt != nil && !v.ExpiresAt.After(*v.StartsAt) {
		return fmt.Errorf("%w: expires_at must be after starts_at", ErrInvalid)
	}
	return nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type ListFilter struct {
	Status string
	Search string
}

type Store interface {
	Create(ctx context.Context, v *Voucher) error
	GetByID(ctx context.Context, id int64) (*Voucher, error)
	GetByCode(ctx context.Context, code string) (*Voucher, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Voucher, int, error)
	Update(ctx context.Context, v *Voucher) error
	Delete(ctx context.Context, id int64) error
	Redeem(ctx context.Context, id int64) error
	Release(ctx context.Context, id int64) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
