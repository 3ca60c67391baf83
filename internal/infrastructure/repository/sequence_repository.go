package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	domainRepo "github.com/sangkips/crm-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new document sequence repository
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Increment(ctx context.Context, docType enum.DocumentType, period string) (int64, bool, error) {
	db := conn(ctx, r.db)
	res := db.Model(&entity.DocumentSequence{}).
		Where("doc_type = ? AND period = ?", docType, period).
		Updates(map[string]interface{}{
			"last_value": gorm.Expr("last_value + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}

	// the row stays locked by the update until the transaction ends
	var seq entity.DocumentSequence
	if err := db.First(&seq, "doc_type = ? AND period = ?", docType, period).Error; err != nil {
		return 0, false, err
	}
	return seq.LastValue, true, nil
}

func (r *sequenceRepository) Create(ctx context.Context, seq *entity.DocumentSequence) error {
	return translateError(conn(ctx, r.db).Create(seq).Error)
}

func (r *sequenceRepository) Raise(ctx context.Context, docType enum.DocumentType, period string, floor int64) error {
	return conn(ctx, r.db).Model(&entity.DocumentSequence{}).
		Where("doc_type = ? AND period = ? AND last_value < ?", docType, period, floor).
		Updates(map[string]interface{}{
			"last_value": floor,
			"updated_at": time.Now(),
		}).Error
}

func (r *sequenceRepository) LatestNumber(ctx context.Context, docType enum.DocumentType, prefix string) (string, error) {
	table, column, err := numberColumn(docType)
	if err != nil {
		return "", err
	}

	var numbers []string
	err = conn(ctx, r.db).Table(table).
		Where(column+" LIKE ?", prefix+"%").
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func numberColumn(docType enum.DocumentType) (table, column string, err error) {
	switch docType {
	case enum.DocumentTypeQuotation:
		return "deals", "quotation_number", nil
	case enum.DocumentTypeInvoice:
		return "invoices", "invoice_number", nil
	case enum.DocumentTypeReceipt:
		return "receipts", "receipt_number", nil
	default:
		return "", "", fmt.Errorf("unknown document type %q", docType)
	}
}
