// Package pricing derives document totals from line items and rate parameters.
package pricing

import (
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultVATPercent is the VAT rate applied when neither the deal nor the
// configuration sets one
const DefaultVATPercent = 7

var hundred = decimal.NewFromInt(100)

// LineItem is a single priced line used as calculation input
type LineItem struct {
	Quantity     int
	UnitPrice    decimal.Decimal
	LineDiscount decimal.Decimal
}

// Amount returns quantity x unit price less the line discount
func (l LineItem) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(l.LineDiscount)
}

// Params holds the rate parameters of a computation. Rates are percentages.
type Params struct {
	GlobalDiscount decimal.Decimal
	VATRate        decimal.Decimal
	WHTRate        decimal.Decimal
	// ManualSubtotal is used only when there are no line items.
	ManualSubtotal *decimal.Decimal
}

// NewParams returns Params with the default VAT rate and no discount or WHT
func NewParams() Params {
	return Params{VATRate: decimal.NewFromInt(DefaultVATPercent)}
}

// Compute derives DocumentTotals. Totals are not clamped at zero.
func Compute(items []LineItem, p Params) entity.DocumentTotals {
	subtotal := decimal.Zero
	itemDiscount := decimal.Zero

	switch {
	case len(items) > 0:
		for _, it := range items {
			subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
			itemDiscount = itemDiscount.Add(it.LineDiscount)
		}
	case p.ManualSubtotal != nil:
		subtotal = *p.ManualSubtotal
	}

	totalDiscount := itemDiscount.Add(p.GlobalDiscount)
	afterDiscount := subtotal.Sub(totalDiscount)

	// WHT is levied on the pre-VAT base
	vatAmount := afterDiscount.Mul(p.VATRate).Div(hundred).Round(2)
	whtAmount := afterDiscount.Mul(p.WHTRate).Div(hundred).Round(2)
	grandTotal := afterDiscount.Add(vatAmount)

	return entity.DocumentTotals{
		Subtotal:       subtotal,
		ItemDiscount:   itemDiscount,
		GlobalDiscount: p.GlobalDiscount,
		TotalDiscount:  totalDiscount,
		AfterDiscount:  afterDiscount,
		VATRate:        p.VATRate,
		VATAmount:      vatAmount,
		GrandTotal:     grandTotal,
		WHTRate:        p.WHTRate,
		WHTAmount:      whtAmount,
		NetTotal:       grandTotal.Sub(whtAmount),
	}
}
