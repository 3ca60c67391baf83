package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/crm-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *gorm.DB) domainRepo.DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Deal, error) {
	var deal entity.Deal
	err := conn(ctx, r.db).
		Preload("Contact").
		Preload("TeamMembers").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Items.Product").
		First(&deal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) SetQuotation(ctx context.Context, id uuid.UUID, number string, date time.Time) error {
	err := conn(ctx, r.db).Model(&entity.Deal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quotation_number": number,
			"quotation_date":   date,
		}).Error
	return translateError(err)
}
