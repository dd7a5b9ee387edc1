package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	"github.com/sangkips/invoicing-api/internal/domain/repository"
	"github.com/sangkips/invoicing-api/internal/observability/metrics"
	"github.com/sangkips/invoicing-api/pkg/apperror"
	"github.com/sangkips/invoicing-api/pkg/pagination"
	"go.uber.org/zap"
)

// InvoiceService handles the invoice lifecycle
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	lineItemRepo repository.LineItemRepository
	tx           repository.Transactor
	ledger       *PaymentLedger
	metrics      *metrics.Metrics
	log          *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	lineItemRepo repository.LineItemRepository,
	tx repository.Transactor,
	ledger *PaymentLedger,
	m *metrics.Metrics,
	log *zap.Logger,
) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		lineItemRepo: lineItemRepo,
		tx:           tx,
		ledger:       ledger,
		metrics:      m,
		log:          log.Named("invoice.service"),
	}
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	InvoiceNumber string
	CustomerName  string
	InvoiceDate   time.Time
	DueDate       *time.Time
	Description   string
	LineItems     []LineItemInput
}

// ListInvoicesInput represents list filters
type ListInvoicesInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	SortBy     string
	SortOrder  string
}

func (in *CreateInvoiceInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.InvoiceNumber == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "invoice_number", Message: "invoice_number is required"})
	}
	if in.CustomerName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "customer_name is required"})
	}
	if in.InvoiceDate.IsZero() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "invoice_date", Message: "invoice_date is required"})
	}
	if in.DueDate != nil && !in.InvoiceDate.IsZero() && in.DueDate.Before(in.InvoiceDate) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "due_date", Message: "due_date must not be before invoice_date"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateInvoice creates an invoice with its line items. Amount is derived from
// the items and the full amount starts out as debt.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	input.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	input.CustomerName = strings.TrimSpace(input.CustomerName)

	if err := input.validate(); err != nil {
		return nil, s.fail("create", err)
	}

	items, err := buildLineItems(input.LineItems, 0)
	if err != nil {
		return nil, s.fail("create", err)
	}

	amount := AggregateAmount(items)
	if err := checkInvoiceAmount(amount); err != nil {
		return nil, s.fail("create", err)
	}
	invoice := &entity.Invoice{
		InvoiceNumber: input.InvoiceNumber,
		CustomerName:  input.CustomerName,
		InvoiceDate:   input.InvoiceDate,
		DueDate:       input.DueDate,
		Description:   input.Description,
		Amount:        entity.NewMoney(amount),
		DebtAmount:    entity.NewMoney(amount),
		Status:        enum.InvoiceStatusPending,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.invoiceRepo.ExistsByInvoiceNumber(ctx, invoice.InvoiceNumber)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicateKeyError("Invoice", invoice.InvoiceNumber)
		}

		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return err
		}

		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		return s.lineItemRepo.CreateBatch(ctx, items)
	})
	if err != nil {
		return nil, s.fail("create", err)
	}

	s.metrics.InvoiceCreated(len(items))
	s.log.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", amount.String()),
		zap.Int("line_items", len(items)),
	)

	return s.GetByID(ctx, invoice.ID)
}

// AddLineItems appends items to an unsettled invoice. The amount is
// re-aggregated over every item and the debt grows by the same delta.
func (s *InvoiceService) AddLineItems(ctx context.Context, invoiceNumber string, inputs []LineItemInput) (*entity.Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)

	items, err := buildLineItems(inputs, 0)
	if err != nil {
		return nil, s.fail("add_line_items", err)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.GetByInvoiceNumberForUpdate(ctx, invoiceNumber)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("Invoice with number %s", invoiceNumber))
		}
		if invoice.Status == enum.InvoiceStatusPaid {
			return apperror.NewAlreadySettledError(invoice.InvoiceNumber)
		}

		next, err := s.lineItemRepo.NextPosition(ctx, invoice.ID)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
			items[i].Position = next + i
		}
		if err := s.lineItemRepo.CreateBatch(ctx, items); err != nil {
			return err
		}

		all, err := s.lineItemRepo.GetByInvoiceID(ctx, invoice.ID)
		if err != nil {
			return err
		}
		amount := AggregateAmount(all)
		if err := checkInvoiceAmount(amount); err != nil {
			return err
		}
		debt := invoice.DebtAmount.Add(amount.Sub(invoice.Amount.Decimal))

		return s.invoiceRepo.UpdateTotals(ctx, invoice.ID, amount, debt, invoice.Status)
	})
	if err != nil {
		return nil, s.fail("add_line_items", err)
	}

	s.metrics.LineItemsAppended(len(items))
	s.log.Info("line items appended",
		zap.String("invoice_number", invoiceNumber),
		zap.Int("line_items", len(items)),
	)

	return s.GetByNumber(ctx, invoiceNumber)
}

// GetByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Invoice with number %s", invoiceNumber))
	}
	return invoice, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Invoice with id %s", id))
	}
	return invoice, nil
}

// ListInvoices retrieves invoices with pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		Pagination: input.Pagination,
		Search:     strings.TrimSpace(input.Search),
		Status:     input.Status,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	paginationInfo := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, paginationInfo), nil
}

// Pay applies a payment through the ledger
func (s *InvoiceService) Pay(ctx context.Context, input PaymentInput) (*entity.Invoice, error) {
	input.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	return s.ledger.ApplyPayment(ctx, input)
}

func (s *InvoiceService) fail(operation string, err error) error {
	kind := apperror.GetAppError(err).Kind
	s.metrics.OperationFailed(operation, string(kind))
	if kind == apperror.KindInternal {
		s.log.Error("invoice operation failed", zap.String("operation", operation), zap.Error(err))
	}
	return err
}
