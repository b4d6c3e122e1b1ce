package vouchers

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestVoucherDiscount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	limit := 10
	maxOff := d("150")

	tests := []struct {
		name     string
		v        Voucher
		subtotal string
		want     string
		wantErr  bool
	}{
		{"percent", Voucher{Status: StatusActive, DiscountType: TypePercent, DiscountValue: d("10")}, "1000", "100", false},
		{"percent capped", Voucher{Status: StatusActive, DiscountType: TypePercent, DiscountValue: d("20"), MaxDiscount: &maxOff}, "1000", "150", false},
		{"fixed", Voucher{Status: StatusActive, DiscountType: TypeFixed, DiscountValue: d("50")}, "300", "50", false},
		{"fixed larger than subtotal", Voucher{Status: StatusActive, DiscountType: TypeFixed, DiscountValue: d("500")}, "300", "300", false},
		{"rounds to satang", Voucher{Status: StatusActive, DiscountType: TypePercent, DiscountValue: d("7")}, "99.99", "7", false},
		{"inactive", Voucher{Status: StatusInactive, DiscountType: TypeFixed, DiscountValue: d("50")}, "300", "0", true},
		{"not started", Voucher{Status: StatusActive, DiscountType: TypeFixed, DiscountValue: d("50"), StartsAt: &future}, "300", "0", true},
		{"expired", Voucher{Status: StatusActive, DiscountType: TypeFixed, DiscountValue: d("50"), ExpiresAt: &past}, "300", "0", true},
		{"exhausted", Voucher{Status: StatusActive, DiscountType: TypeFixed, DiscountValue: d("50"), UsageLimit: &limit, UsedCount: 10}, "300", "0", true},
		{"below minimum", Voucher{Status: StatusActive, DiscountType: TypeFixed, DiscountValue: d("50"), MinOrderAmount: d("500")}, "300", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Discount(d(tt.subtotal), now)
			if tt.wantErr {
				if !errors.Is(err, ErrNotApplicable) {
					t.Fatalf("expected ErrNotApplicable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(d(tt.want)) {
				t.Fatalf("discount = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVoucherNormalize(t *testing.T) {
	v := Voucher{Code: " songkran10 ", DiscountType: TypePercent, DiscountValue: d("10")}
	if err := v.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if v.Code != "SONGKRAN10" || v.Status != StatusActive {
		t.Fatalf("got code=%q status=%q", v.Code, v.Status)
	}

	bad := []Voucher{
		{DiscountType: TypeFixed, DiscountValue: d("10")},
		{Code: "A", DiscountType: "bogo", DiscountValue: d("10")},
		{Code: "A", DiscountType: TypePercent, DiscountValue: d("120")},
		{Code: "A", DiscountType: TypeFixed, DiscountValue: d("0")},
	}
	for i, b := range bad {
		if err := b.Normalize(); !errors.Is(err, ErrInvalid) {
			t.Errorf("case %d: expected ErrInvalid, got %v", i, err)
		}
	}
}
