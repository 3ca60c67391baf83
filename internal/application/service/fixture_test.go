package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/infrastructure/database"
	"github.com/sangkips/crm-billing/internal/infrastructure/lock"
	"github.com/sangkips/crm-billing/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db         *gorm.DB
	now        time.Time
	allocator  *NumberAllocator
	invoices   *InvoiceService
	receipts   *ReceiptService
	quotations *QuotationService
	settings   *SettingsService
	owner      Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db, "Acme Co., Ltd."))

	f := &fixture{
		db:    db,
		now:   time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC),
		owner: Actor{UserID: uuid.New(), Roles: []string{"sales"}},
	}

	log := zap.NewNop()
	transactor := repository.NewTransactor(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	dealRepo := repository.NewDealRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	vat := decimal.NewFromInt(7)

	f.allocator = NewNumberAllocator(repository.NewSequenceRepository(db), transactor, lock.NoopLocker{}, log, 5, time.UTC)
	f.allocator.now = func() time.Time { return f.now }

	f.invoices = NewInvoiceService(invoiceRepo, dealRepo, settingsRepo, transactor, f.allocator, DealAccessPolicy{}, vat, log)
	f.receipts = NewReceiptService(repository.NewReceiptRepository(db), invoiceRepo, transactor, f.allocator, log)
	f.quotations = NewQuotationService(dealRepo, settingsRepo, f.allocator, DealAccessPolicy{}, vat, log)
	f.settings = NewSettingsService(settingsRepo)
	return f
}

type dealOption func(*entity.Deal)

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// createDeal stores a deal owned by f.owner with one catalog line of 2 x 1000,
// a quotation discount of 100, default VAT and 3% WHT.
func (f *fixture) createDeal(t *testing.T, opts ...dealOption) *entity.Deal {
	t.Helper()

	contact := &entity.Contact{
		OwnerID:     f.owner.UserID,
		Name:        "Somchai Jaidee",
		CompanyName: strPtr("Jaidee Trading"),
		Address:     strPtr("99 Sukhumvit Rd, Bangkok"),
		TaxID:       strPtr("0105551234567"),
		Phone:       strPtr("02-123-4567"),
		Email:       strPtr("billing@jaidee.example"),
	}
	require.NoError(t, f.db.Create(contact).Error)

	product := &entity.Product{
		Code:         "SKU-" + uuid.NewString()[:8],
		Name:         "Annual license",
		Description:  strPtr("One seat, twelve months"),
		SellingPrice: dec("1000"),
	}
	require.NoError(t, f.db.Create(product).Error)

	deal := &entity.Deal{
		OwnerID:           f.owner.UserID,
		ContactID:         &contact.ID,
		Title:             "License renewal",
		QuotationDiscount: dec("100"),
		QuotationWHTRate:  dec("3"),
		CreditTerm:        30,
		Items: []entity.DealItem{{
			ProductID: &product.ID,
			SortOrder: 0,
			Sku:       "typed-sku",
			Name:      "typed name",
			Quantity:  2,
			UnitPrice: dec("1000"),
			Discount:  dec("0"),
		}},
	}
	for _, opt := range opts {
		opt(deal)
	}
	require.NoError(t, f.db.Create(deal).Error)
	return deal
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}
