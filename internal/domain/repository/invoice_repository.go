package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	"github.com/sangkips/invoicing-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice data operations.
// Single-row reads return (nil, nil) when nothing matches.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	// GetByInvoiceNumberForUpdate loads the invoice row (without children) and
	// locks it for the rest of the surrounding transaction where supported.
	GetByInvoiceNumberForUpdate(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)
	UpdateTotals(ctx context.Context, id uuid.UUID, amount, debtAmount decimal.Decimal, status enum.InvoiceStatus) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	Count(ctx context.Context) (int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	SortBy     string
	SortOrder  string
}

// LineItemRepository defines the interface for line item data operations
type LineItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.LineItem) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.LineItem, error)
	// NextPosition returns the position the next appended item should take
	NextPosition(ctx context.Context, invoiceID uuid.UUID) (int, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error)
}

// Transactor runs fn inside a single database transaction. Repository calls
// made with the context passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
