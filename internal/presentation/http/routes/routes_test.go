package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/application/service"
	"github.com/sangkips/crm-billing/internal/config"
	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/infrastructure/database"
	"github.com/sangkips/crm-billing/internal/infrastructure/lock"
	"github.com/sangkips/crm-billing/internal/infrastructure/repository"
	"github.com/sangkips/crm-billing/internal/presentation/http/handler"
	"github.com/sangkips/crm-billing/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *utils.JWTManager
	owner  uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	cfg := &config.Config{
		App:       config.AppConfig{Name: "crm-billing"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}
	log := zap.NewNop()
	vat := decimal.NewFromInt(7)

	transactor := repository.NewTransactor(db)
	dealRepo := repository.NewDealRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	allocator := service.NewNumberAllocator(repository.NewSequenceRepository(db), transactor, lock.NoopLocker{}, log, 5, time.UTC)
	access := service.DealAccessPolicy{}

	handlers := &Handlers{
		Invoice:   handler.NewInvoiceHandler(service.NewInvoiceService(invoiceRepo, dealRepo, settingsRepo, transactor, allocator, access, vat, log)),
		Receipt:   handler.NewReceiptHandler(service.NewReceiptService(repository.NewReceiptRepository(db), invoiceRepo, transactor, allocator, log)),
		Quotation: handler.NewQuotationHandler(service.NewQuotationService(dealRepo, settingsRepo, allocator, access, vat, log)),
		Settings:  handler.NewSettingsHandler(service.NewSettingsService(settingsRepo)),
	}

	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Logger:          log,
	})

	return &testServer{router: router, db: db, jwt: jwtManager, owner: uuid.New()}
}

func (s *testServer) createDeal(t *testing.T) uuid.UUID {
	t.Helper()
	contact := &entity.Contact{OwnerID: s.owner, Name: "Somchai", CompanyName: strPtr("Jaidee Trading")}
	require.NoError(t, s.db.Create(contact).Error)

	deal := &entity.Deal{
		OwnerID:           s.owner,
		ContactID:         &contact.ID,
		Title:             "License renewal",
		QuotationDiscount: decimal.NewFromInt(100),
		QuotationWHTRate:  decimal.NewFromInt(3),
		CreditTerm:        30,
		Items: []entity.DealItem{{
			Sku:       "LIC-1",
			Name:      "Annual license",
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(1000),
		}},
	}
	require.NoError(t, s.db.Create(deal).Error)
	return deal.ID
}

func (s *testServer) token(t *testing.T, userID uuid.UUID, roles ...string) string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(userID, "user@example.com", roles)
	require.NoError(t, err)
	return token
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token, body string, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func strPtr(s string) *string { return &s }

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/v1/invoices", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)

	w, _ = s.do(t, http.MethodGet, "/api/v1/invoices", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvoiceToReceiptFlow(t *testing.T) {
	s := newTestServer(t)
	dealID := s.createDeal(t)
	token := s.token(t, s.owner, "sales")

	// generate
	w, resp := s.do(t, http.MethodPost, "/api/v1/deals/"+dealID.String()+"/invoice", token, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := resp.Data["id"].(string)
	assert.Regexp(t, `^IV-\d{6}-0001$`, resp.Data["invoice_number"])
	assert.Equal(t, "DRAFT", resp.Data["status"])
	totals := resp.Data["totals"].(map[string]interface{})
	assert.Equal(t, "2033", totals["grand_total"])
	assert.Equal(t, "1976", totals["net_total"])

	// duplicate generation points at the existing invoice
	w, resp = s.do(t, http.MethodPost, "/api/v1/deals/"+dealID.String()+"/invoice", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invoice_exists", resp.Code)
	assert.Equal(t, invoiceID, resp.Data["invoice_id"])

	// receipt needs a confirmed invoice
	w, resp = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/receipt", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invoice_not_confirmed", resp.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/confirm", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SENT", resp.Data["status"])

	// locked until reverted
	w, resp = s.do(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, token, `{"notes":"thanks"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "edit_locked", resp.Code)

	w, resp = s.do(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, token, `{"status":"DRAFT"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "DRAFT", resp.Data["status"])

	w, resp = s.do(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, token, `{"notes":"thanks","due_date":"2030-01-15"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "thanks", resp.Data["notes"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/sync-items", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/confirm", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/sync-items", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invoice_not_draft", resp.Code)

	// receipt
	w, resp = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/receipt", token, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receiptID := resp.Data["id"].(string)
	assert.Regexp(t, `^RE-\d{6}-0001$`, resp.Data["receipt_number"])

	w, resp = s.do(t, http.MethodPost, "/api/v1/receipts/"+receiptID+"/confirm", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ISSUED", resp.Data["status"])

	w, resp = s.do(t, http.MethodGet, "/api/v1/invoices/"+invoiceID, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAID", resp.Data["status"])

	w, resp = s.do(t, http.MethodGet, "/api/v1/receipts?status=issued", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	pagination := resp.Data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["total"])
}

func TestGenerateInvoice_Forbidden(t *testing.T) {
	s := newTestServer(t)
	dealID := s.createDeal(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/deals/"+dealID.String()+"/invoice", s.token(t, uuid.New()), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/deals/"+uuid.NewString()+"/invoice", s.token(t, s.owner), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/deals/not-a-uuid/invoice", s.token(t, s.owner), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateInvoice_IdempotencyKeyReplays(t *testing.T) {
	s := newTestServer(t)
	dealID := s.createDeal(t)
	token := s.token(t, s.owner)
	path := "/api/v1/deals/" + dealID.String() + "/invoice"

	w, first := s.do(t, http.MethodPost, path, token, "", "Idempotency-Key", "retry-1")
	require.Equal(t, http.StatusCreated, w.Code)

	w, second := s.do(t, http.MethodPost, path, token, "", "Idempotency-Key", "retry-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.Data["id"], second.Data["id"])

	other := s.createDeal(t)
	w, _ = s.do(t, http.MethodPost, "/api/v1/deals/"+other.String()+"/invoice", token, "", "Idempotency-Key", "retry-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestQuotationRoutes(t *testing.T) {
	s := newTestServer(t)
	dealID := s.createDeal(t)
	token := s.token(t, s.owner)

	w, resp := s.do(t, http.MethodPost, "/api/v1/deals/"+dealID.String()+"/quotation", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Regexp(t, `^QT-\d{6}-0001$`, resp.Data["quotation_number"])

	w, resp = s.do(t, http.MethodGet, "/api/v1/deals/"+dealID.String()+"/quotation", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	customer := resp.Data["customer"].(map[string]interface{})
	assert.Equal(t, "Jaidee Trading", customer["name"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/deals/"+dealID.String()+"/quotation", s.token(t, uuid.New()), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompanySettingsRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	body := `{"company_name":"Acme Holdings","tax_id":"0105559999999"}`

	w, _ := s.do(t, http.MethodPut, "/api/v1/settings/company", s.token(t, uuid.New(), "sales"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.do(t, http.MethodPut, "/api/v1/settings/company", s.token(t, uuid.New(), "admin"), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Acme Holdings", resp.Data["company_name"])

	w, resp = s.do(t, http.MethodGet, "/api/v1/settings/company", s.token(t, uuid.New(), "sales"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0105559999999", resp.Data["tax_id"])
}
