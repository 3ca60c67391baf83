package service

import (
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CustomerPatch carries partial customer snapshot edits. Nil fields are kept.
type CustomerPatch struct {
	Name    *string
	Address *string
	TaxID   *string
	Phone   *string
	Email   *string
}

func (p *CustomerPatch) apply(c *entity.CustomerSnapshot) {
	if p == nil {
		return
	}
	setString(&c.Name, p.Name)
	setString(&c.Address, p.Address)
	setString(&c.TaxID, p.TaxID)
	setString(&c.Phone, p.Phone)
	setString(&c.Email, p.Email)
}

// TotalsPatch carries manual totals overrides. Values are stored as given
// and never recomputed.
type TotalsPatch struct {
	Subtotal       *decimal.Decimal
	ItemDiscount   *decimal.Decimal
	GlobalDiscount *decimal.Decimal
	TotalDiscount  *decimal.Decimal
	AfterDiscount  *decimal.Decimal
	VATRate        *decimal.Decimal
	VATAmount      *decimal.Decimal
	GrandTotal     *decimal.Decimal
	WHTRate        *decimal.Decimal
	WHTAmount      *decimal.Decimal
	NetTotal       *decimal.Decimal
}

func (p *TotalsPatch) apply(t *entity.DocumentTotals) {
	if p == nil {
		return
	}
	setDecimal(&t.Subtotal, p.Subtotal)
	setDecimal(&t.ItemDiscount, p.ItemDiscount)
	setDecimal(&t.GlobalDiscount, p.GlobalDiscount)
	setDecimal(&t.TotalDiscount, p.TotalDiscount)
	setDecimal(&t.AfterDiscount, p.AfterDiscount)
	setDecimal(&t.VATRate, p.VATRate)
	setDecimal(&t.VATAmount, p.VATAmount)
	setDecimal(&t.GrandTotal, p.GrandTotal)
	setDecimal(&t.WHTRate, p.WHTRate)
	setDecimal(&t.WHTAmount, p.WHTAmount)
	setDecimal(&t.NetTotal, p.NetTotal)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}
