package service

import (
	"context"
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

// ReceiptService drives the receipt lifecycle, including the cascade that
// marks the invoice PAID.
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
	invoiceRepo repository.InvoiceRepository
	transactor  repository.Transactor
	allocator   *NumberAllocator
	logger      *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	invoiceRepo repository.InvoiceRepository,
	transactor repository.Transactor,
	allocator *NumberAllocator,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
		transactor:  transactor,
		allocator:   allocator,
		logger:      logger.Named("receipt"),
	}
}

// GenerateReceipt creates the DRAFT receipt of a confirmed invoice
func (s *ReceiptService) GenerateReceipt(ctx context.Context, invoiceID uuid.UUID, actor Actor) (*entity.Receipt, error) {
	var receipt *entity.Receipt

	err := s.allocator.WithAllocation(ctx, enum.DocumentTypeReceipt, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.Status == enum.InvoiceStatusDraft {
			return apperror.ErrInvoiceNotConfirmed
		}
		if invoice.Receipt != nil {
			return apperror.NewConflictError(apperror.ReasonReceiptExists,
				"A receipt already exists for this invoice",
				map[string]interface{}{"receipt_id": invoice.Receipt.ID})
		}

		number, err := s.allocator.Allocate(ctx, enum.DocumentTypeReceipt)
		if err != nil {
			return err
		}

		receipt = &entity.Receipt{
			ReceiptNumber: number,
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			CreatedBy:     actor.UserID,
			Date:          s.allocator.Today(),
			Status:        enum.ReceiptStatusDraft,
			Company:       invoice.Company,
			Customer:      invoice.Customer,
			GrandTotal:    invoice.Totals.GrandTotal,
			WHTAmount:     invoice.Totals.WHTAmount,
			NetTotal:      invoice.Totals.NetTotal,
		}
		return s.receiptRepo.Create(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receipt generated",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("receipt_number", receipt.ReceiptNumber),
		zap.String("invoice_id", invoiceID.String()))
	return receipt, nil
}

// GetReceipt retrieves a receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// UpdateReceiptInput holds a partial receipt update. See UpdateInvoiceInput
// for the meaning of Status.
type UpdateReceiptInput struct {
	Status     *enum.ReceiptStatus
	Customer   *CustomerPatch
	Date       *time.Time
	GrandTotal *decimal.Decimal
	WHTAmount  *decimal.Decimal
	NetTotal   *decimal.Decimal
	Notes      *string
}

// UpdateReceipt applies manual edits to a receipt. Reverting an ISSUED
// receipt to DRAFT also returns its invoice from PAID to SENT.
func (s *ReceiptService) UpdateReceipt(ctx context.Context, id uuid.UUID, input *UpdateReceiptInput) (*entity.Receipt, error) {
	var receipt *entity.Receipt

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.receiptRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}

		if input.Status != nil {
			if *input.Status != enum.ReceiptStatusDraft {
				return apperror.NewPreconditionError(apperror.ReasonInvalidStatusTransition,
					"Receipts can only be moved back to DRAFT; use the confirm endpoint to issue")
			}
			if receipt.Status == enum.ReceiptStatusIssued {
				receipt.Status = enum.ReceiptStatusDraft
				receipt.ConfirmedAt = nil
				if err := s.unpayInvoice(ctx, receipt.InvoiceID); err != nil {
					return err
				}
			}
		} else if receipt.Status.IsLocked() {
			return apperror.ErrEditLocked
		}

		if input.Customer != nil {
			input.Customer.apply(&receipt.Customer)
		}
		setDecimal(&receipt.GrandTotal, input.GrandTotal)
		setDecimal(&receipt.WHTAmount, input.WHTAmount)
		setDecimal(&receipt.NetTotal, input.NetTotal)
		if input.Date != nil {
			receipt.Date = *input.Date
		}
		if input.Notes != nil {
			receipt.Notes = input.Notes
		}
		return s.receiptRepo.Update(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *ReceiptService) unpayInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil || invoice.Status != enum.InvoiceStatusPaid {
		return nil
	}
	return s.invoiceRepo.UpdateStatus(ctx, invoiceID, enum.InvoiceStatusSent)
}

// ConfirmReceipt issues a DRAFT receipt and marks its invoice PAID in the
// same transaction. Confirming an ISSUED receipt returns it unchanged.
func (s *ReceiptService) ConfirmReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt *entity.Receipt

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.receiptRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		if receipt.Status != enum.ReceiptStatusDraft {
			return nil
		}

		issued, err := s.receiptRepo.MarkIssued(ctx, id, s.allocator.Now())
		if err != nil {
			return err
		}
		if issued {
			if err := s.invoiceRepo.UpdateStatus(ctx, receipt.InvoiceID, enum.InvoiceStatusPaid); err != nil {
				return err
			}
			s.logger.Info("receipt issued, invoice paid",
				zap.String("receipt_id", id.String()),
				zap.String("invoice_id", receipt.InvoiceID.String()))
		}

		receipt, err = s.receiptRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceiptsInput represents the input for listing receipts
type ListReceiptsInput struct {
	Actor      Actor
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ReceiptStatus
}

// ListReceipts returns the receipts visible to the actor, newest first
func (s *ReceiptService) ListReceipts(ctx context.Context, input *ListReceiptsInput) (*pagination.PaginatedResult[entity.Receipt], error) {
	params := &repository.ReceiptFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
	}
	if !input.Actor.IsAdmin() {
		params.VisibleTo = &input.Actor.UserID
	}

	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, p), nil
}
