package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sangkips/invoicing-api/internal/application/service"
	"github.com/sangkips/invoicing-api/internal/config"
	"github.com/sangkips/invoicing-api/internal/domain/repository"
	"github.com/sangkips/invoicing-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/invoicing-api/internal/infrastructure/repository"
	"github.com/sangkips/invoicing-api/internal/observability/logger"
	"github.com/sangkips/invoicing-api/internal/observability/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds the wired dependencies shared by every command
type application struct {
	cfg             *config.Config
	log             *zap.Logger
	db              *gorm.DB
	registry        *prometheus.Registry
	metrics         *metrics.Metrics
	invoiceService  *service.InvoiceService
	sampleData      *service.SampleDataLoader
	idempotencyRepo repository.IdempotencyRepository
}

func newApplication() (*application, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Log, cfg.App.Name)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry, metrics.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	// Initialize repositories
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	lineItemRepo := infraRepo.NewLineItemRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)
	transactor := infraRepo.NewTransactor(db)

	// Initialize services
	ledger := service.NewPaymentLedger(invoiceRepo, paymentRepo, transactor, m, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, lineItemRepo, transactor, ledger, m, log)

	return &application{
		cfg:             cfg,
		log:             log,
		db:              db,
		registry:        registry,
		metrics:         m,
		invoiceService:  invoiceService,
		sampleData:      service.NewSampleDataLoader(invoiceService, log),
		idempotencyRepo: idempotencyRepo,
	}, nil
}

func (a *application) ping(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (a *application) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}
