package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt acknowledges payment of a confirmed invoice
type Receipt struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNumber string             `gorm:"size:50;uniqueIndex;not null" json:"receipt_number"`
	InvoiceID     uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"invoice_id"`
	InvoiceNumber string             `gorm:"size:50;not null" json:"invoice_number"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	Date          time.Time          `gorm:"type:date;not null" json:"date"`
	Status        enum.ReceiptStatus `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`
	ConfirmedAt   *time.Time         `json:"confirmed_at,omitempty"`
	Company       CompanySnapshot    `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	Customer      CustomerSnapshot   `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	GrandTotal    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0" json:"grand_total"`
	WHTAmount     decimal.Decimal    `gorm:"column:wht_amount;type:decimal(18,2);not null;default:0" json:"wht_amount"`
	NetTotal      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0" json:"net_total"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}
