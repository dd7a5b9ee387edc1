package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/invoicing-api/internal/domain/repository"
	"github.com/sangkips/invoicing-api/pkg/apperror"
	"github.com/sangkips/invoicing-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var invoiceSortColumns = map[string]string{
	"created_at":     "created_at",
	"invoice_date":   "invoice_date",
	"invoice_number": "invoice_number",
	"customer_name":  "customer_name",
	"amount":         "CAST(amount AS NUMERIC)",
	"debt_amount":    "CAST(debt_amount AS NUMERIC)",
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// withChildren preloads line items and payments in their stored order
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Create(invoice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewDuplicateKeyError("Invoice", invoice.InvoiceNumber)
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).
		Scopes(withChildren).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).
		Scopes(withChildren).
		First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByInvoiceNumberForUpdate(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).
		Scopes(ForUpdate()).
		First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *invoiceRepository) UpdateTotals(ctx context.Context, id uuid.UUID, amount, debtAmount decimal.Decimal, status enum.InvoiceStatus) error {
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount":      amount,
			"debt_amount": debtAmount,
			"status":      status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update totals of invoice %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entity.Invoice{})

	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ?", pattern, pattern)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.
		Scopes(withChildren, OrderBy(params.SortBy, params.SortOrder, invoiceSortColumns, "created_at")).
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).Count(&count).Error
	return count, err
}

type lineItemRepository struct {
	db *gorm.DB
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *gorm.DB) domainRepo.LineItemRepository {
	return &lineItemRepository{db: db}
}

func (r *lineItemRepository) CreateBatch(ctx context.Context, items []entity.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&items).Error
}

func (r *lineItemRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.LineItem, error) {
	var items []entity.LineItem
	err := conn(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepository) NextPosition(ctx context.Context, invoiceID uuid.UUID) (int, error) {
	var maxPos sql.NullInt64
	err := conn(ctx, r.db).Model(&entity.LineItem{}).
		Where("invoice_id = ?", invoiceID).
		Select("MAX(position)").
		Row().Scan(&maxPos)
	if err != nil {
		return 0, err
	}
	if !maxPos.Valid {
		return 0, nil
	}
	return int(maxPos.Int64) + 1, nil
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return conn(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := conn(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
