package repository

import (
	"context"

	"github.com/sangkips/crm-billing/internal/domain/entity"
)

// SettingsRepository defines the interface for company settings data access
type SettingsRepository interface {
	// Get returns the company settings row, nil if none was saved yet
	Get(ctx context.Context) (*entity.CompanySettings, error)
	Save(ctx context.Context, settings *entity.CompanySettings) error
}
