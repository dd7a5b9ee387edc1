package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/config"
	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/invoicing-api/internal/domain/repository"
	"github.com/sangkips/invoicing-api/internal/infrastructure/database"
	"github.com/sangkips/invoicing-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
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

func insertInvoice(t *testing.T, repo *invoiceRepository, number string) *entity.Invoice {
	t.Helper()
	invoice := &entity.Invoice{
		InvoiceNumber: number,
		CustomerName:  "Wayne Enterprises",
		InvoiceDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:        entity.NewMoney(decimal.NewFromInt(10)),
		DebtAmount:    entity.NewMoney(decimal.NewFromInt(10)),
		Status:        enum.InvoiceStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), invoice))
	return invoice
}

func TestInvoiceRepositoryCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := &invoiceRepository{db: db}
	ctx := context.Background()

	created := insertInvoice(t, repo, "INV-1")
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := repo.GetByInvoiceNumber(ctx, "INV-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, enum.InvoiceStatusPending, got.Status)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Amount.Decimal))

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := repo.ExistsByInvoiceNumber(ctx, "INV-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByInvoiceNumber(ctx, "INV-2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvoiceRepositoryDuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := &invoiceRepository{db: db}

	insertInvoice(t, repo, "INV-1")

	err := repo.Create(context.Background(), &entity.Invoice{
		InvoiceNumber: "INV-1",
		CustomerName:  "Someone else",
		InvoiceDate:   time.Now(),
		Status:        enum.InvoiceStatusPending,
	})
	assert.True(t, errors.Is(err, apperror.ErrDuplicateKey), "got %v", err)
}

func TestInvoiceRepositoryUpdateTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := &invoiceRepository{db: db}
	ctx := context.Background()

	invoice := insertInvoice(t, repo, "INV-1")
	require.NoError(t, repo.UpdateTotals(ctx, invoice.ID, decimal.NewFromInt(10), decimal.RequireFromString("2.5"), enum.InvoiceStatusPartiallyPaid))

	got, err := repo.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.5").Equal(got.DebtAmount.Decimal))
	assert.Equal(t, enum.InvoiceStatusPartiallyPaid, got.Status)

	err = repo.UpdateTotals(ctx, uuid.New(), decimal.Zero, decimal.Zero, enum.InvoiceStatusPaid)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestLineItemRepositoryPositions(t *testing.T) {
	db := setupTestDB(t)
	invoices := &invoiceRepository{db: db}
	items := &lineItemRepository{db: db}
	ctx := context.Background()

	invoice := insertInvoice(t, invoices, "INV-1")

	next, err := items.NextPosition(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	require.NoError(t, items.CreateBatch(ctx, []entity.LineItem{
		{InvoiceID: invoice.ID, Position: 1, Description: "second", Price: entity.NewMoney(decimal.NewFromInt(2)), Quantity: 1, TotalAmount: entity.NewMoney(decimal.NewFromInt(2))},
		{InvoiceID: invoice.ID, Position: 0, Description: "first", Price: entity.NewMoney(decimal.NewFromInt(1)), Quantity: 1, TotalAmount: entity.NewMoney(decimal.NewFromInt(1))},
	}))

	next, err = items.NextPosition(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	stored, err := items.GetByInvoiceID(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "first", stored[0].Description)

	got, err := invoices.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "first", got.LineItems[0].Description)
}

func TestMoneyStoredExactly(t *testing.T) {
	db := setupTestDB(t)
	repo := &invoiceRepository{db: db}
	ctx := context.Background()

	invoice := insertInvoice(t, repo, "INV-BIG")
	exact := decimal.RequireFromString("1234567890123.4567")
	require.NoError(t, repo.UpdateTotals(ctx, invoice.ID, exact, exact, enum.InvoiceStatusPending))

	got, err := repo.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, exact.Equal(got.Amount.Decimal), "got %s", got.Amount.String())
	assert.True(t, exact.Equal(got.DebtAmount.Decimal), "got %s", got.DebtAmount.String())

	var storage string
	require.NoError(t, db.Raw("SELECT typeof(amount) FROM invoices WHERE id = ?", invoice.ID).Scan(&storage).Error)
	assert.Equal(t, "text", storage)
}

func TestInvoiceRepositoryListSortsAmountsNumerically(t *testing.T) {
	db := setupTestDB(t)
	repo := &invoiceRepository{db: db}
	ctx := context.Background()

	for number, amount := range map[string]string{"INV-A": "9.50", "INV-B": "100.00", "INV-C": "25.00"} {
		invoice := insertInvoice(t, repo, number)
		value := decimal.RequireFromString(amount)
		require.NoError(t, repo.UpdateTotals(ctx, invoice.ID, value, value, enum.InvoiceStatusPending))
	}

	invoices, total, err := repo.List(ctx, &domainRepo.InvoiceFilterParams{SortBy: "amount", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, invoices, 3)
	assert.Equal(t, "INV-A", invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-C", invoices[1].InvoiceNumber)
	assert.Equal(t, "INV-B", invoices[2].InvoiceNumber)
}

func TestTransactorRollsBack(t *testing.T) {
	db := setupTestDB(t)
	invoices := &invoiceRepository{db: db}
	tx := NewTransactor(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		insertInvoiceCtx(t, ctx, invoices, "INV-TX")
		// nested calls join the outer transaction
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	got, err := invoices.GetByInvoiceNumber(ctx, "INV-TX")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func insertInvoiceCtx(t *testing.T, ctx context.Context, repo *invoiceRepository, number string) {
	t.Helper()
	require.NoError(t, repo.Create(ctx, &entity.Invoice{
		InvoiceNumber: number,
		CustomerName:  "Tx Customer",
		InvoiceDate:   time.Now(),
		Status:        enum.InvoiceStatusPending,
	}))
}

func TestIdempotencyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:          "abc",
		Endpoint:     "POST /api/v1/invoices",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    now.Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:       "old",
		Endpoint:  "POST /api/v1/invoices",
		ExpiresAt: now.Add(-time.Hour),
	}))

	got, err := repo.GetByKey(ctx, "abc", "POST /api/v1/invoices")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	other, err := repo.GetByKey(ctx, "abc", "POST /api/v1/invoices/pay")
	require.NoError(t, err)
	assert.Nil(t, other)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
