package service

import (
	"context"

	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/pricing"
	"github.com/sangkips/crm-billing/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DeriveCustomerSnapshot resolves each customer field first-match-wins:
// the quotation override on the deal, then the linked contact, then "".
func DeriveCustomerSnapshot(deal *entity.Deal, contact *entity.Contact) entity.CustomerSnapshot {
	var c entity.Contact
	if contact != nil {
		c = *contact
	}

	var q entity.Deal
	if deal != nil {
		q = *deal
	}

	contactName := c.CompanyName
	if isBlank(contactName) && c.Name != "" {
		contactName = &c.Name
	}

	return entity.CustomerSnapshot{
		Name:    firstNonBlank(q.QuotationCustomerName, contactName),
		Address: firstNonBlank(q.QuotationCustomerAddress, c.Address),
		TaxID:   firstNonBlank(q.QuotationCustomerTaxID, c.TaxID),
		Phone:   firstNonBlank(q.QuotationCustomerPhone, c.Phone),
		Email:   firstNonBlank(q.QuotationCustomerEmail, c.Email),
	}
}

func firstNonBlank(values ...*string) string {
	for _, v := range values {
		if !isBlank(v) {
			return *v
		}
	}
	return ""
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

// describeItem freezes a deal line's description. Catalog fields win over the
// free text typed on the deal.
func describeItem(item entity.DealItem) entity.ItemDescription {
	desc := entity.ItemDescription{
		SKU:         item.Sku,
		Name:        item.Name,
		Description: item.Description,
	}
	if p := item.Product; p != nil {
		if p.Code != "" {
			desc.SKU = p.Code
		}
		if p.Name != "" {
			desc.Name = p.Name
		}
		if !isBlank(p.Description) {
			desc.Description = *p.Description
		}
	}
	return desc
}

// lineItems converts deal lines into calculator input
func lineItems(items []entity.DealItem) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.LineItem{
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			LineDiscount: it.Discount,
		})
	}
	return out
}

// dealParams reads the quotation rate parameters of a deal
func dealParams(deal *entity.Deal, defaultVAT decimal.Decimal) pricing.Params {
	params := pricing.Params{
		GlobalDiscount: deal.QuotationDiscount,
		VATRate:        defaultVAT,
		WHTRate:        deal.QuotationWHTRate,
	}
	if deal.QuotationVATRate != nil {
		params.VATRate = *deal.QuotationVATRate
	}
	if len(deal.Items) == 0 {
		value := deal.Value
		params.ManualSubtotal = &value
	}
	return params
}

// dealTotals computes the totals a document derived from deal would carry
func dealTotals(deal *entity.Deal, defaultVAT decimal.Decimal) entity.DocumentTotals {
	return pricing.Compute(lineItems(deal.Items), dealParams(deal, defaultVAT))
}

// invoiceItems builds the frozen invoice lines for deal
func invoiceItems(deal *entity.Deal) []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, 0, len(deal.Items))
	for i, it := range deal.Items {
		dealItemID := it.ID
		items = append(items, entity.InvoiceItem{
			DealItemID:  &dealItemID,
			ProductID:   it.ProductID,
			SortOrder:   i,
			Description: describeItem(it),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Amount:      pricing.LineItem{Quantity: it.Quantity, UnitPrice: it.UnitPrice, LineDiscount: it.Discount}.Amount(),
		})
	}
	return items
}

// companySnapshot reads the settings store for a new document
func companySnapshot(ctx context.Context, repo repository.SettingsRepository) (entity.CompanySnapshot, error) {
	settings, err := repo.Get(ctx)
	if err != nil {
		return entity.CompanySnapshot{}, err
	}
	return settings.Snapshot(), nil
}
