package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	"github.com/sangkips/crm-billing/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create persists the invoice and its items
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID returns the invoice with ordered items and its receipt, nil if absent
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByDealID(ctx context.Context, dealID uuid.UUID) (*entity.Invoice, error)
	// Update saves the invoice's own columns; items are left untouched
	Update(ctx context.Context, invoice *entity.Invoice) error
	// ReplaceItems deletes every item of the invoice and inserts items in their place
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error
	// MarkConfirmed moves a DRAFT invoice to SENT. It reports false when the
	// invoice was no longer DRAFT, leaving it unchanged.
	MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	VisibleTo  *uuid.UUID // only deals the user owns or is on the team of
	SortOrder  string
}
