package database

import (
	"fmt"

	"github.com/sangkips/crm-billing/internal/config"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("Connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		// CRM collaborators
		&entity.Contact{},
		&entity.Product{},
		&entity.Deal{},
		&entity.DealItem{},
		&entity.DealTeamMember{},

		// Documents
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Receipt{},
		&entity.DocumentSequence{},

		// System entities
		&entity.CompanySettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SeedDefaultData makes sure the single company settings row exists
func SeedDefaultData(db *gorm.DB, companyName string) error {
	var count int64
	if err := db.Model(&entity.CompanySettings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check company settings: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(&entity.CompanySettings{CompanyName: companyName}).Error; err != nil {
		return fmt.Errorf("failed to seed company settings: %w", err)
	}
	return nil
}
