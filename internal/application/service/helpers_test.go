package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/config"
	"github.com/sangkips/invoicing-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/invoicing-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:   "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func setupInvoiceService(t *testing.T) *InvoiceService {
	t.Helper()

	db := setupTestDB(t)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	tx := infraRepo.NewTransactor(db)
	ledger := NewPaymentLedger(invoiceRepo, infraRepo.NewPaymentRepository(db), tx, nil, zap.NewNop())
	return NewInvoiceService(invoiceRepo, infraRepo.NewLineItemRepository(db), tx, ledger, nil, zap.NewNop())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecimal compares numerically so stored scale does not matter
func assertDecimal(t *testing.T, want string, got fmt.Stringer) {
	t.Helper()
	require.Truef(t, dec(want).Equal(dec(got.String())), "expected %s, got %s", want, got.String())
}
