package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deal is a sales opportunity. Its quotation fields are embedded here and act
// as the source of truth for the invoice until one exists.
type Deal struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	ContactID *uuid.UUID      `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Value     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"value"`

	// Quotation
	QuotationNumber *string    `gorm:"size:50;uniqueIndex" json:"quotation_number,omitempty"`
	QuotationDate   *time.Time `gorm:"type:date" json:"quotation_date,omitempty"`
	ValidUntil      *time.Time `gorm:"type:date" json:"valid_until,omitempty"`
	QuotationTerms  *string    `gorm:"type:text" json:"quotation_terms,omitempty"`
	CreditTerm      int        `gorm:"not null;default:0" json:"credit_term"`

	QuotationCustomerName    *string `gorm:"size:255" json:"quotation_customer_name,omitempty"`
	QuotationCustomerAddress *string `gorm:"type:text" json:"quotation_customer_address,omitempty"`
	QuotationCustomerTaxID   *string `gorm:"size:50;column:quotation_customer_tax_id" json:"quotation_customer_tax_id,omitempty"`
	QuotationCustomerPhone   *string `gorm:"size:50" json:"quotation_customer_phone,omitempty"`
	QuotationCustomerEmail   *string `gorm:"size:255" json:"quotation_customer_email,omitempty"`

	QuotationDiscount decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"quotation_discount"`
	QuotationVATRate  *decimal.Decimal `gorm:"type:decimal(5,2);column:quotation_vat_rate" json:"quotation_vat_rate,omitempty"`
	QuotationWHTRate  decimal.Decimal  `gorm:"type:decimal(5,2);column:quotation_wht_rate;not null;default:0" json:"quotation_wht_rate"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Contact     *Contact         `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Items       []DealItem       `gorm:"foreignKey:DealID" json:"items,omitempty"`
	TeamMembers []DealTeamMember `gorm:"foreignKey:DealID" json:"team_members,omitempty"`
}

// BeforeCreate generates a UUID before creating a new deal
func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Deal model
func (Deal) TableName() string {
	return "deals"
}

// HasMember reports whether userID is assigned to the deal's sales team
func (d *Deal) HasMember(userID uuid.UUID) bool {
	for _, m := range d.TeamMembers {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// DealItem is a structured line on a deal
type DealItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	DealID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"deal_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	Sku         string          `gorm:"size:100" json:"sku"`
	Name        string          `gorm:"size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"unit_price"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new deal item
func (i *DealItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DealItem model
func (DealItem) TableName() string {
	return "deal_items"
}

// DealTeamMember assigns a user to a deal's sales team
type DealTeamMember struct {
	DealID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"deal_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the DealTeamMember model
func (DealTeamMember) TableName() string {
	return "deal_team_members"
}
