// Package pricing does the VAT arithmetic for orders. Prices are stored
// excluding VAT; all amounts are rounded half-up to satang (2 places).
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is the Thai standard VAT rate.
var DefaultVATRate = decimal.RequireFromString("0.07")

var ErrNegativeRate = errors.New("vat rate cannot be negative")

const places = 2

// Line is a priced order line.
type Line struct {
	UnitPrice decimal.Decimal `json:"unit_price_excluding_vat"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal_excluding_vat"`
	VAT       decimal.Decimal `json:"vat_amount"`
	Total     decimal.Decimal `json:"line_total"`
}

// Totals is the order-level summary.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal_excluding_vat"`
	Discount decimal.Decimal `json:"discount_amount"`
	VAT      decimal.Decimal `json:"total_vat_amount"`
	Total    decimal.Decimal `json:"total_amount"`
}

type Calculator struct {
	Rate decimal.Decimal
}

func NewCalculator(rate decimal.Decimal) (*Calculator, error) {
	if rate.IsNegative() {
		return nil, ErrNegativeRate
	}
	return &Calculator{Rate: rate}, nil
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(places)
}

// IncludingVAT returns the customer-facing price for a VAT-exclusive price.
func (c *Calculator) IncludingVAT(exVAT decimal.Decimal) decimal.Decimal {
	return round(exVAT.Add(exVAT.Mul(c.Rate)))
}

// Line prices qty units. VAT is computed on the line subtotal, not per unit,
// so rounding happens once per line.
func (c *Calculator) Line(unitExVAT decimal.Decimal, qty int) Line {
	subtotal := round(unitExVAT.Mul(decimal.NewFromInt(int64(qty))))
	vat := round(subtotal.Mul(c.Rate))
	return Line{
		UnitPrice: round(unitExVAT),
		Quantity:  qty,
		Subtotal:  subtotal,
		VAT:       vat,
		Total:     subtotal.Add(vat),
	}
}

// Totals sums lines and applies a discount to the VAT-exclusive base before
// VAT is charged. The discount is clamped to [0, subtotal].
func (c *Calculator) Totals(lines []Line, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
	}

	discount = round(discount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	base := subtotal.Sub(discount)
	vat := round(base.Mul(c.Rate))
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		VAT:      vat,
		Total:    base.Add(vat),
	}
}

// ExtractVAT splits a VAT-inclusive amount into its net and VAT parts.
func (c *Calculator) ExtractVAT(gross decimal.Decimal) (net, vat decimal.Decimal) {
	net = round(gross.Div(decimal.NewFromInt(1).Add(c.Rate)))
	return net, round(gross).Sub(net)
}
