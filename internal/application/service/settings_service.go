package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/repository"
)

// SettingsService handles the company details printed on documents
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetCompany retrieves company settings, creating an empty row if none exists
func (s *SettingsService) GetCompany(ctx context.Context) (*entity.CompanySettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &entity.CompanySettings{}
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateCompanyInput represents the input for updating company settings.
// Nil fields are left unchanged.
type UpdateCompanyInput struct {
	UserID      uuid.UUID
	CompanyName *string
	Address     *string
	TaxID       *string
	Phone       *string
	Email       *string
}

// UpdateCompany updates company settings. Documents already issued keep
// their own snapshot.
func (s *SettingsService) UpdateCompany(ctx context.Context, input *UpdateCompanyInput) (*entity.CompanySettings, error) {
	settings, err := s.GetCompany(ctx)
	if err != nil {
		return nil, err
	}

	if input.CompanyName != nil {
		settings.CompanyName = *input.CompanyName
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.TaxID != nil {
		settings.TaxID = *input.TaxID
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.Email != nil {
		settings.Email = *input.Email
	}
	settings.UpdatedBy = &input.UserID

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
