package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the billing document generated from a deal
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string             `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	DealID        *uuid.UUID         `gorm:"type:uuid;uniqueIndex" json:"deal_id,omitempty"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	Date          time.Time          `gorm:"type:date;not null" json:"date"`
	DueDate       *time.Time         `gorm:"type:date" json:"due_date,omitempty"`
	Status        enum.InvoiceStatus `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`
	ConfirmedAt   *time.Time         `json:"confirmed_at,omitempty"`
	Company       CompanySnapshot    `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	Customer      CustomerSnapshot   `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Totals        DocumentTotals     `gorm:"embedded" json:"totals"`
	Terms         *string            `gorm:"type:text" json:"terms,omitempty"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Items   []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
	Receipt *Receipt      `gorm:"foreignKey:InvoiceID" json:"receipt,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a frozen copy of a deal line
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	DealItemID  *uuid.UUID      `gorm:"type:uuid" json:"deal_item_id,omitempty"`
	ProductID   *uuid.UUID      `gorm:"type:uuid" json:"product_id,omitempty"`
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	Description ItemDescription `gorm:"serializer:json;type:text" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
