package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestCompute_QuotationWithDiscountVATAndWHT(t *testing.T) {
	items := []LineItem{{Quantity: 2, UnitPrice: d("1000"), LineDiscount: d("0")}}
	totals := Compute(items, Params{
		GlobalDiscount: d("100"),
		VATRate:        d("7"),
		WHTRate:        d("3"),
	})

	assert.True(t, d("2000").Equal(totals.Subtotal), "subtotal %s", totals.Subtotal)
	assert.True(t, d("0").Equal(totals.ItemDiscount))
	assert.True(t, d("100").Equal(totals.TotalDiscount))
	assert.True(t, d("1900").Equal(totals.AfterDiscount))
	assert.True(t, d("133").Equal(totals.VATAmount), "vat %s", totals.VATAmount)
	assert.True(t, d("2033").Equal(totals.GrandTotal))
	assert.True(t, d("57").Equal(totals.WHTAmount), "wht %s", totals.WHTAmount)
	assert.True(t, d("1976").Equal(totals.NetTotal))
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		items         []LineItem
		params        Params
		wantSubtotal  string
		wantItemDisc  string
		wantAfterDisc string
		wantGrand     string
		wantNet       string
	}{
		{
			name:          "no items and no manual value",
			params:        NewParams(),
			wantSubtotal:  "0",
			wantItemDisc:  "0",
			wantAfterDisc: "0",
			wantGrand:     "0",
			wantNet:       "0",
		},
		{
			name:          "manual subtotal when there are no items",
			params:        Params{VATRate: d("7"), ManualSubtotal: dp("5000")},
			wantSubtotal:  "5000",
			wantItemDisc:  "0",
			wantAfterDisc: "5000",
			wantGrand:     "5350",
			wantNet:       "5350",
		},
		{
			name: "items take precedence over manual subtotal",
			items: []LineItem{
				{Quantity: 1, UnitPrice: d("300")},
			},
			params:        Params{VATRate: d("0"), ManualSubtotal: dp("5000")},
			wantSubtotal:  "300",
			wantItemDisc:  "0",
			wantAfterDisc: "300",
			wantGrand:     "300",
			wantNet:       "300",
		},
		{
			name: "line discounts summed into item discount",
			items: []LineItem{
				{Quantity: 3, UnitPrice: d("99.99"), LineDiscount: d("10")},
				{Quantity: 1, UnitPrice: d("0.01"), LineDiscount: d("0.01")},
			},
			params:        Params{VATRate: d("7"), WHTRate: d("3")},
			wantSubtotal:  "299.98",
			wantItemDisc:  "10.01",
			wantAfterDisc: "289.97",
			wantGrand:     "310.27",
			wantNet:       "301.57",
		},
		{
			name: "discount larger than subtotal goes negative",
			items: []LineItem{
				{Quantity: 1, UnitPrice: d("100")},
			},
			params:        Params{GlobalDiscount: d("150"), VATRate: d("7")},
			wantSubtotal:  "100",
			wantItemDisc:  "0",
			wantAfterDisc: "-50",
			wantGrand:     "-53.5",
			wantNet:       "-53.5",
		},
		{
			name: "zero quantity line",
			items: []LineItem{
				{Quantity: 0, UnitPrice: d("1000")},
			},
			params:        NewParams(),
			wantSubtotal:  "0",
			wantItemDisc:  "0",
			wantAfterDisc: "0",
			wantGrand:     "0",
			wantNet:       "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items, tt.params)
			assert.True(t, d(tt.wantSubtotal).Equal(got.Subtotal), "subtotal: got %s", got.Subtotal)
			assert.True(t, d(tt.wantItemDisc).Equal(got.ItemDiscount), "item discount: got %s", got.ItemDiscount)
			assert.True(t, d(tt.wantAfterDisc).Equal(got.AfterDiscount), "after discount: got %s", got.AfterDiscount)
			assert.True(t, d(tt.wantGrand).Equal(got.GrandTotal), "grand total: got %s", got.GrandTotal)
			assert.True(t, d(tt.wantNet).Equal(got.NetTotal), "net total: got %s", got.NetTotal)
		})
	}
}

func TestCompute_DerivationsHold(t *testing.T) {
	tolerance := d("0.01")
	rates := []string{"0", "3", "7", "10", "12.5"}
	prices := []string{"0", "0.01", "19.99", "1000", "123456.78"}

	for _, vat := range rates {
		for _, wht := range rates {
			for qty := 0; qty <= 3; qty++ {
				for _, price := range prices {
					items := []LineItem{
						{Quantity: qty, UnitPrice: d(price), LineDiscount: d("0.5")},
						{Quantity: 1, UnitPrice: d(price)},
					}
					got := Compute(items, Params{GlobalDiscount: d("1.25"), VATRate: d(vat), WHTRate: d(wht)})

					factor := decimal.NewFromInt(1).Add(d(vat).Div(hundred))
					wantGrand := got.AfterDiscount.Mul(factor)
					wantNet := got.GrandTotal.Sub(got.AfterDiscount.Mul(d(wht)).Div(hundred))

					assert.True(t, got.GrandTotal.Sub(wantGrand).Abs().LessThanOrEqual(tolerance),
						"vat=%s wht=%s qty=%d price=%s: grand %s want %s", vat, wht, qty, price, got.GrandTotal, wantGrand)
					assert.True(t, got.NetTotal.Sub(wantNet).Abs().LessThanOrEqual(tolerance),
						"vat=%s wht=%s qty=%d price=%s: net %s want %s", vat, wht, qty, price, got.NetTotal, wantNet)
					assert.True(t, got.TotalDiscount.Equal(got.ItemDiscount.Add(got.GlobalDiscount)))
					assert.True(t, got.AfterDiscount.Equal(got.Subtotal.Sub(got.TotalDiscount)))
				}
			}
		}
	}
}

func TestLineItem_Amount(t *testing.T) {
	li := LineItem{Quantity: 4, UnitPrice: d("25.50"), LineDiscount: d("2")}
	assert.True(t, d("100").Equal(li.Amount()))
}

func TestNewParams_DefaultVAT(t *testing.T) {
	p := NewParams()
	assert.True(t, d("7").Equal(p.VATRate))
	assert.True(t, p.GlobalDiscount.IsZero())
	assert.True(t, p.WHTRate.IsZero())
	assert.Nil(t, p.ManualSubtotal)
}
