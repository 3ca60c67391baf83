package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/crm-billing/internal/application/service"
	"github.com/sangkips/crm-billing/internal/config"
	"github.com/sangkips/crm-billing/internal/infrastructure/database"
	"github.com/sangkips/crm-billing/internal/infrastructure/lock"
	"github.com/sangkips/crm-billing/internal/infrastructure/logger"
	"github.com/sangkips/crm-billing/internal/infrastructure/repository"
	"github.com/sangkips/crm-billing/internal/presentation/http/handler"
	"github.com/sangkips/crm-billing/internal/presentation/http/routes"
	"github.com/sangkips/crm-billing/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.Logger.Level, Format: cfg.Logger.Format})
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := database.SeedDefaultData(db, cfg.App.Name); err != nil {
		log.Warn("Failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	locker, closeLocker := newSequenceLocker(cfg, log)
	defer closeLocker()

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	dealRepo := repository.NewDealRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	access := service.DealAccessPolicy{}
	allocator := service.NewNumberAllocator(
		sequenceRepo,
		transactor,
		locker,
		log,
		cfg.Billing.AllocationRetries,
		cfg.Billing.Location,
	)
	invoiceService := service.NewInvoiceService(invoiceRepo, dealRepo, settingsRepo, transactor, allocator, access, cfg.Billing.DefaultVATRate, log)
	receiptService := service.NewReceiptService(receiptRepo, invoiceRepo, transactor, allocator, log)
	quotationService := service.NewQuotationService(dealRepo, settingsRepo, allocator, access, cfg.Billing.DefaultVATRate, log)
	settingsService := service.NewSettingsService(settingsRepo)

	handlers := &routes.Handlers{
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Receipt:   handler.NewReceiptHandler(receiptService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Settings:  handler.NewSettingsHandler(settingsService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
		Ping:            pinger(db),
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go purgeIdempotencyKeys(ctx, idempotencyRepo.DeleteExpired, log)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}

// newSequenceLocker connects the allocation lock to Redis when configured.
// Without Redis, allocation relies on the database constraints alone.
func newSequenceLocker(cfg *config.Config, log *zap.Logger) (service.SequenceLocker, func()) {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set, sequence lock disabled")
		return lock.NoopLocker{}, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// the lock is best effort; keep serving on constraints alone
		log.Warn("Redis unreachable, sequence lock disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = rdb.Close()
		return lock.NoopLocker{}, func() {}
	}

	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	return lock.NewRedisLocker(rdb, cfg.Redis.LockTTL), func() { _ = rdb.Close() }
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func purgeIdempotencyKeys(ctx context.Context, deleteExpired func(context.Context, time.Time) error, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := deleteExpired(ctx, now); err != nil {
				log.Warn("Failed to purge idempotency keys", zap.Error(err))
			}
		}
	}
}
