package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanySettings is the single row of issuing-company details printed on documents
type CompanySettings struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CompanyName string     `gorm:"size:255;not null;default:''" json:"company_name"`
	Address     string     `gorm:"type:text" json:"address"`
	TaxID       string     `gorm:"size:50;column:tax_id" json:"tax_id"`
	Phone       string     `gorm:"size:50" json:"phone"`
	Email       string     `gorm:"size:255" json:"email"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating the settings row
func (s *CompanySettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CompanySettings model
func (CompanySettings) TableName() string {
	return "company_settings"
}

// Snapshot returns the fields copied onto issued documents
func (s *CompanySettings) Snapshot() CompanySnapshot {
	if s == nil {
		return CompanySnapshot{}
	}
	return CompanySnapshot{
		Name:    s.CompanyName,
		Address: s.Address,
		TaxID:   s.TaxID,
		Phone:   s.Phone,
	}
}
