package products

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestReconcileStatus(t *testing.T) {
	tests := []struct {
		status string
		stock  int
		want   string
	}{
		{StatusActive, 10, StatusActive},
		{StatusActive, 0, StatusOutOfStock},
		{StatusOutOfStock, 0, StatusOutOfStock},
		{StatusOutOfStock, 3, StatusActive},
		{StatusInactive, 0, StatusInactive},
		{StatusInactive, 8, StatusInactive},
	}
	for _, tt := range tests {
		if got := ReconcileStatus(tt.status, tt.stock); got != tt.want {
			t.Errorf("ReconcileStatus(%s, %d) = %s, want %s", tt.status, tt.stock, got, tt.want)
		}
	}
}

func TestValidateProduct(t *testing.T) {
	p := &Product{Name: " กระเป๋าผ้า ", CategoryID: 2, PriceExcludingVAT: decimal.NewFromInt(250)}
	if err := validateProduct(p); err != nil {
		t.Fatalf("validateProduct: %v", err)
	}
	if p.Name != "กระเป๋าผ้า" {
		t.Fatalf("name not trimmed: %q", p.Name)
	}
	if p.Status != StatusOutOfStock {
		t.Fatalf("zero stock product status = %q, want out_of_stock", p.Status)
	}

	bad := []struct {
		p    *Product
		want error
	}{
		{&Product{CategoryID: 1}, ErrInvalidName},
		{&Product{Name: "x"}, ErrCategoryRequired},
		{&Product{Name: "x", CategoryID: 1, PriceExcludingVAT: decimal.NewFromInt(-1)}, ErrInvalidPrice},
		{&Product{Name: "x", CategoryID: 1, StockQuantity: -2}, ErrInvalidStock},
		{&Product{Name: "x", CategoryID: 1, Status: "archived"}, ErrInvalidStatus},
		{nil, ErrInvalidName},
	}
	for i, b := range bad {
		if err := validateProduct(b.p); !errors.Is(err, b.want) {
			t.Fatalf("case %d: err = %v, want %v", i, err, b.want)
		}
	}
}
