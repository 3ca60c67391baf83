package entity

import (
	"github.com/shopspring/decimal"
)

// DocumentTotals is the frozen result of a totals computation.
// AfterDiscount, GrandTotal and NetTotal are not clamped and may go negative
// when discounts exceed the subtotal.
type DocumentTotals struct {
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"subtotal"`
	ItemDiscount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"item_discount"`
	GlobalDiscount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"global_discount"`
	TotalDiscount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_discount"`
	AfterDiscount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"after_discount"`
	VATRate        decimal.Decimal `gorm:"column:vat_rate;type:decimal(5,2);not null;default:0" json:"vat_rate"`
	VATAmount      decimal.Decimal `gorm:"column:vat_amount;type:decimal(18,2);not null;default:0" json:"vat_amount"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"grand_total"`
	WHTRate        decimal.Decimal `gorm:"column:wht_rate;type:decimal(5,2);not null;default:0" json:"wht_rate"`
	WHTAmount      decimal.Decimal `gorm:"column:wht_amount;type:decimal(18,2);not null;default:0" json:"wht_amount"`
	NetTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"net_total"`
}

// CustomerSnapshot is the customer block copied onto a document
type CustomerSnapshot struct {
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	TaxID   string `gorm:"column:tax_id;size:50" json:"tax_id"`
	Phone   string `gorm:"size:50" json:"phone"`
	Email   string `gorm:"size:255" json:"email"`
}

// CompanySnapshot is the issuing company block copied onto a document
type CompanySnapshot struct {
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	TaxID   string `gorm:"column:tax_id;size:50" json:"tax_id"`
	Phone   string `gorm:"size:50" json:"phone"`
}

// ItemDescription is the structured product description frozen on a line item
type ItemDescription struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
