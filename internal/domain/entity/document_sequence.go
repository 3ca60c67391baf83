package entity

import (
	"time"

	"github.com/sangkips/crm-billing/internal/domain/enum"
)

// DocumentSequence holds the last number handed out for a document type within
// one calendar month (period formatted YYYYMM).
type DocumentSequence struct {
	DocType   enum.DocumentType `gorm:"size:10;primaryKey" json:"doc_type"`
	Period    string            `gorm:"size:6;primaryKey" json:"period"`
	LastValue int64             `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TableName returns the table name for the DocumentSequence model
func (DocumentSequence) TableName() string {
	return "document_sequences"
}
