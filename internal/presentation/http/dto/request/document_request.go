package request

import "github.com/shopspring/decimal"

// CustomerRequest carries customer snapshot edits. Omitted fields are kept.
type CustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Address *string `json:"address"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=50"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,max=255"`
}

// TotalsRequest carries manual totals overrides. Values are stored as sent.
type TotalsRequest struct {
	Subtotal       *decimal.Decimal `json:"subtotal"`
	ItemDiscount   *decimal.Decimal `json:"item_discount"`
	GlobalDiscount *decimal.Decimal `json:"global_discount"`
	TotalDiscount  *decimal.Decimal `json:"total_discount"`
	AfterDiscount  *decimal.Decimal `json:"after_discount"`
	VATRate        *decimal.Decimal `json:"vat_rate"`
	VATAmount      *decimal.Decimal `json:"vat_amount"`
	GrandTotal     *decimal.Decimal `json:"grand_total"`
	WHTRate        *decimal.Decimal `json:"wht_rate"`
	WHTAmount      *decimal.Decimal `json:"wht_amount"`
	NetTotal       *decimal.Decimal `json:"net_total"`
}

// UpdateInvoiceRequest represents an invoice update request. Dates use
// YYYY-MM-DD.
type UpdateInvoiceRequest struct {
	Status   *string          `json:"status"`
	Customer *CustomerRequest `json:"customer"`
	Totals   *TotalsRequest   `json:"totals"`
	DueDate  *string          `json:"due_date"`
	Terms    *string          `json:"terms"`
	Notes    *string          `json:"notes"`
}

// UpdateReceiptRequest represents a receipt update request
type UpdateReceiptRequest struct {
	Status     *string          `json:"status"`
	Customer   *CustomerRequest `json:"customer"`
	Date       *string          `json:"date"`
	GrandTotal *decimal.Decimal `json:"grand_total"`
	WHTAmount  *decimal.Decimal `json:"wht_amount"`
	NetTotal   *decimal.Decimal `json:"net_total"`
	Notes      *string          `json:"notes"`
}

// DocumentFilterRequest represents list query parameters
type DocumentFilterRequest struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// UpdateCompanyRequest represents a company settings update request
type UpdateCompanyRequest struct {
	CompanyName *string `json:"company_name" binding:"omitempty,min=1,max=255"`
	Address     *string `json:"address"`
	TaxID       *string `json:"tax_id" binding:"omitempty,max=50"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,max=255"`
}
