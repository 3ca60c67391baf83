package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	"github.com/sangkips/crm-billing/internal/domain/repository"
	"github.com/sangkips/crm-billing/pkg/apperror"
	"github.com/sangkips/crm-billing/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService drives the invoice lifecycle and keeps DRAFT invoices in
// step with their deal.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	dealRepo     repository.DealRepository
	settingsRepo repository.SettingsRepository
	transactor   repository.Transactor
	allocator    *NumberAllocator
	access       AccessPolicy
	defaultVAT   decimal.Decimal
	logger       *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	dealRepo repository.DealRepository,
	settingsRepo repository.SettingsRepository,
	transactor repository.Transactor,
	allocator *NumberAllocator,
	access AccessPolicy,
	defaultVAT decimal.Decimal,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		dealRepo:     dealRepo,
		settingsRepo: settingsRepo,
		transactor:   transactor,
		allocator:    allocator,
		access:       access,
		defaultVAT:   defaultVAT,
		logger:       logger.Named("invoice"),
	}
}

// GenerateInvoice creates the DRAFT invoice of a deal
func (s *InvoiceService) GenerateInvoice(ctx context.Context, dealID uuid.UUID, actor Actor) (*entity.Invoice, error) {
	var invoice *entity.Invoice

	err := s.allocator.WithAllocation(ctx, enum.DocumentTypeInvoice, func(ctx context.Context) error {
		deal, err := s.dealRepo.GetByID(ctx, dealID)
		if err != nil {
			return err
		}
		if deal == nil {
			return apperror.NewNotFoundError("Deal")
		}
		if !s.access.CanAccessDeal(actor, deal) {
			return apperror.NewForbiddenError("You do not have access to this deal")
		}

		existing, err := s.invoiceRepo.GetByDealID(ctx, dealID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError(apperror.ReasonInvoiceExists,
				"An invoice already exists for this deal",
				map[string]interface{}{"invoice_id": existing.ID})
		}

		company, err := companySnapshot(ctx, s.settingsRepo)
		if err != nil {
			return err
		}

		number, err := s.allocator.Allocate(ctx, enum.DocumentTypeInvoice)
		if err != nil {
			return err
		}

		date := s.allocator.Today()
		dueDate := date.AddDate(0, 0, deal.CreditTerm)
		invoice = &entity.Invoice{
			InvoiceNumber: number,
			DealID:        &deal.ID,
			CreatedBy:     actor.UserID,
			Date:          date,
			DueDate:       &dueDate,
			Status:        enum.InvoiceStatusDraft,
			Company:       company,
			Customer:      DeriveCustomerSnapshot(deal, deal.Contact),
			Totals:        dealTotals(deal, s.defaultVAT),
			Terms:         deal.QuotationTerms,
			Items:         invoiceItems(deal),
		}
		return s.invoiceRepo.Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("deal_id", dealID.String()))
	return invoice, nil
}

// GetInvoice returns an invoice. A DRAFT invoice is first re-synchronized
// with its deal so the caller always sees current items and totals.
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status != enum.InvoiceStatusDraft || invoice.DealID == nil {
		return invoice, nil
	}

	synced, err := s.MaterializeDraft(ctx, id)
	if errors.Is(err, apperror.ErrInvoiceNoDeal) {
		s.logger.Warn("draft invoice lost its deal, serving stored copy",
			zap.String("invoice_id", id.String()))
		return invoice, nil
	}
	return synced, err
}

// MaterializeDraft rebuilds a DRAFT invoice's items and totals from the
// deal's current lines and rates. Running it twice leaves the same content.
func (s *InvoiceService) MaterializeDraft(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return s.sync(ctx, id, false)
}

// SyncInvoice is the explicit sync: on top of MaterializeDraft it re-copies
// the customer snapshot and recomputes the due date from the quotation.
func (s *InvoiceService) SyncInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.sync(ctx, id, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info("invoice synchronized", zap.String("invoice_id", id.String()))
	return invoice, nil
}

func (s *InvoiceService) sync(ctx context.Context, id uuid.UUID, full bool) (*entity.Invoice, error) {
	var invoice *entity.Invoice

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.Status != enum.InvoiceStatusDraft {
			return apperror.ErrInvoiceNotDraft
		}
		if invoice.DealID == nil {
			return apperror.ErrInvoiceNoDeal
		}

		deal, err := s.dealRepo.GetByID(ctx, *invoice.DealID)
		if err != nil {
			return err
		}
		if deal == nil {
			return apperror.ErrInvoiceNoDeal
		}
		return s.rebuild(ctx, invoice, deal, full)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// rebuild replaces items and totals of invoice from deal in one unit of work.
// Must run inside a transaction.
func (s *InvoiceService) rebuild(ctx context.Context, invoice *entity.Invoice, deal *entity.Deal, full bool) error {
	items := invoiceItems(deal)
	if err := s.invoiceRepo.ReplaceItems(ctx, invoice.ID, items); err != nil {
		return err
	}

	invoice.Items = items
	invoice.Totals = dealTotals(deal, s.defaultVAT)
	if full {
		invoice.Customer = DeriveCustomerSnapshot(deal, deal.Contact)
		base := invoice.Date
		if deal.QuotationDate != nil {
			base = *deal.QuotationDate
		}
		dueDate := base.AddDate(0, 0, deal.CreditTerm)
		invoice.DueDate = &dueDate
	}
	return s.invoiceRepo.Update(ctx, invoice)
}

// UpdateInvoiceInput holds a partial invoice update. A non-nil Status marks
// the request as a status change, the only edit allowed on a locked invoice.
type UpdateInvoiceInput struct {
	Status   *enum.InvoiceStatus
	Customer *CustomerPatch
	Totals   *TotalsPatch
	DueDate  *time.Time
	Terms    *string
	Notes    *string
}

// UpdateInvoice applies manual edits to an invoice
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	var invoice *entity.Invoice

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		if input.Status != nil {
			if err := revertInvoice(invoice, *input.Status); err != nil {
				return err
			}
		} else if invoice.Status.IsLocked() {
			return apperror.ErrEditLocked
		}

		if input.Customer != nil {
			input.Customer.apply(&invoice.Customer)
		}
		if input.Totals != nil {
			input.Totals.apply(&invoice.Totals)
		}
		if input.DueDate != nil {
			invoice.DueDate = input.DueDate
		}
		if input.Terms != nil {
			invoice.Terms = input.Terms
		}
		if input.Notes != nil {
			invoice.Notes = input.Notes
		}
		return s.invoiceRepo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// revertInvoice applies a requested status. Only DRAFT may be requested, and
// only a SENT invoice without a receipt can go back to it.
func revertInvoice(invoice *entity.Invoice, status enum.InvoiceStatus) error {
	if status != enum.InvoiceStatusDraft {
		return apperror.NewPreconditionError(apperror.ReasonInvalidStatusTransition,
			"Invoices can only be moved back to DRAFT; use the confirm endpoint to send")
	}
	switch {
	case invoice.Status == enum.InvoiceStatusPaid:
		return apperror.NewPreconditionError(apperror.ReasonInvalidStatusTransition,
			"A paid invoice cannot be reverted; revert its receipt first")
	case invoice.Receipt != nil:
		return apperror.NewPreconditionError(apperror.ReasonInvalidStatusTransition,
			"An invoice with a receipt cannot be reverted to DRAFT")
	case invoice.Status == enum.InvoiceStatusSent:
		invoice.Status = enum.InvoiceStatusDraft
		invoice.ConfirmedAt = nil
	}
	return nil
}

// ConfirmInvoice moves a DRAFT invoice to SENT. Confirming an invoice that is
// already SENT or PAID returns it unchanged.
func (s *InvoiceService) ConfirmInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice *entity.Invoice

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.Status != enum.InvoiceStatusDraft {
			return nil
		}

		// stored totals are kept as they are, manual overrides included
		confirmed, err := s.invoiceRepo.MarkConfirmed(ctx, id, s.allocator.Now())
		if err != nil {
			return err
		}
		if confirmed {
			s.logger.Info("invoice confirmed", zap.String("invoice_id", id.String()))
		}

		invoice, err = s.invoiceRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListInvoicesInput represents the input for listing invoices
type ListInvoicesInput struct {
	Actor      Actor
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
}

// ListInvoices returns the invoices visible to the actor, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	params := &repository.InvoiceFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
	}
	if !input.Actor.IsAdmin() {
		params.VisibleTo = &input.Actor.UserID
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, p), nil
}
