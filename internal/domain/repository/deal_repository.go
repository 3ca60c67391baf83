package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
)

// DealRepository reads deals together with the data documents are derived from
type DealRepository interface {
	// GetByID returns the deal with its contact, team members and ordered items
	// (each with its catalog product). Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Deal, error)
	// SetQuotation stamps the quotation number and date on the deal
	SetQuotation(ctx context.Context, id uuid.UUID, number string, date time.Time) error
}
