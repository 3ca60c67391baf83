package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	"github.com/sangkips/crm-billing/internal/domain/repository"
	"github.com/sangkips/crm-billing/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuotationService numbers and renders the quotation embedded in a deal
type QuotationService struct {
	dealRepo     repository.DealRepository
	settingsRepo repository.SettingsRepository
	allocator    *NumberAllocator
	access       AccessPolicy
	defaultVAT   decimal.Decimal
	logger       *zap.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	dealRepo repository.DealRepository,
	settingsRepo repository.SettingsRepository,
	allocator *NumberAllocator,
	access AccessPolicy,
	defaultVAT decimal.Decimal,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		dealRepo:     dealRepo,
		settingsRepo: settingsRepo,
		allocator:    allocator,
		access:       access,
		defaultVAT:   defaultVAT,
		logger:       logger.Named("quotation"),
	}
}

// QuotationLine is one rendered quotation line
type QuotationLine struct {
	Description entity.ItemDescription `json:"description"`
	Quantity    int                    `json:"quantity"`
	UnitPrice   decimal.Decimal        `json:"unit_price"`
	Discount    decimal.Decimal        `json:"discount"`
	Amount      decimal.Decimal        `json:"amount"`
}

// Quotation is a read-only rendering of a deal's quotation
type Quotation struct {
	DealID          uuid.UUID               `json:"deal_id"`
	QuotationNumber *string                 `json:"quotation_number,omitempty"`
	QuotationDate   *time.Time              `json:"quotation_date,omitempty"`
	ValidUntil      *time.Time              `json:"valid_until,omitempty"`
	CreditTerm      int                     `json:"credit_term"`
	Terms           *string                 `json:"terms,omitempty"`
	Company         entity.CompanySnapshot  `json:"company"`
	Customer        entity.CustomerSnapshot `json:"customer"`
	Items           []QuotationLine         `json:"items"`
	Totals          entity.DocumentTotals   `json:"totals"`
}

// GetQuotation renders the deal's quotation from its current data
func (s *QuotationService) GetQuotation(ctx context.Context, dealID uuid.UUID, actor Actor) (*Quotation, error) {
	deal, err := s.accessibleDeal(ctx, dealID, actor)
	if err != nil {
		return nil, err
	}

	company, err := companySnapshot(ctx, s.settingsRepo)
	if err != nil {
		return nil, err
	}

	lines := make([]QuotationLine, 0, len(deal.Items))
	for _, it := range invoiceItems(deal) {
		lines = append(lines, QuotationLine{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Amount:      it.Amount,
		})
	}

	return &Quotation{
		DealID:          deal.ID,
		QuotationNumber: deal.QuotationNumber,
		QuotationDate:   deal.QuotationDate,
		ValidUntil:      deal.ValidUntil,
		CreditTerm:      deal.CreditTerm,
		Terms:           deal.QuotationTerms,
		Company:         company,
		Customer:        DeriveCustomerSnapshot(deal, deal.Contact),
		Items:           lines,
		Totals:          dealTotals(deal, s.defaultVAT),
	}, nil
}

// IssueQuotationNumber assigns a QT running number and today's date to a
// deal. A deal that already has a number keeps it.
func (s *QuotationService) IssueQuotationNumber(ctx context.Context, dealID uuid.UUID, actor Actor) (*Quotation, error) {
	err := s.allocator.WithAllocation(ctx, enum.DocumentTypeQuotation, func(ctx context.Context) error {
		deal, err := s.accessibleDeal(ctx, dealID, actor)
		if err != nil {
			return err
		}
		if deal.QuotationNumber != nil && *deal.QuotationNumber != "" {
			return nil
		}

		number, err := s.allocator.Allocate(ctx, enum.DocumentTypeQuotation)
		if err != nil {
			return err
		}
		if err := s.dealRepo.SetQuotation(ctx, dealID, number, s.allocator.Today()); err != nil {
			return err
		}
		s.logger.Info("quotation numbered",
			zap.String("deal_id", dealID.String()),
			zap.String("quotation_number", number))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuotation(ctx, dealID, actor)
}

func (s *QuotationService) accessibleDeal(ctx context.Context, dealID uuid.UUID, actor Actor) (*entity.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, apperror.NewNotFoundError("Deal")
	}
	if !s.access.CanAccessDeal(actor, deal) {
		return nil, apperror.NewForbiddenError("You do not have access to this deal")
	}
	return deal, nil
}
