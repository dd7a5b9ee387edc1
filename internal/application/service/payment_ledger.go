package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	"github.com/sangkips/invoicing-api/internal/domain/repository"
	"github.com/sangkips/invoicing-api/internal/observability/metrics"
	"github.com/sangkips/invoicing-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentInput represents a payment to apply against an invoice
type PaymentInput struct {
	InvoiceNumber string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod string
}

// PaymentLedger applies payments to invoices and moves them through
// PENDING, PARTIALLY_PAID and PAID
type PaymentLedger struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	tx          repository.Transactor
	metrics     *metrics.Metrics
	log         *zap.Logger
	now         func() time.Time
}

// NewPaymentLedger creates a new payment ledger
func NewPaymentLedger(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	tx repository.Transactor,
	m *metrics.Metrics,
	log *zap.Logger,
) *PaymentLedger {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentLedger{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		tx:          tx,
		metrics:     m,
		log:         log.Named("payment.ledger"),
		now:         time.Now,
	}
}

// ApplyPayment records a payment and reduces the invoice debt in one transaction.
// Checks run in order: invoice exists, invoice not PAID, amount positive and
// not above the remaining debt.
func (l *PaymentLedger) ApplyPayment(ctx context.Context, input PaymentInput) (*entity.Invoice, error) {
	var paymentStatus enum.InvoiceStatus

	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := l.invoiceRepo.GetByInvoiceNumberForUpdate(ctx, input.InvoiceNumber)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("Invoice with number %s", input.InvoiceNumber))
		}
		if invoice.Status == enum.InvoiceStatusPaid {
			return apperror.NewAlreadySettledError(invoice.InvoiceNumber)
		}
		if !input.Amount.IsPositive() {
			return apperror.NewInvalidAmountError(
				fmt.Sprintf("Payment amount must be positive, got %s", input.Amount.String()))
		}
		if !entity.FitsMoney(input.Amount) {
			return apperror.NewInvalidAmountError(
				fmt.Sprintf("Payment amount %s must have at most %d decimal places",
					input.Amount.String(), entity.MoneyScale))
		}
		if input.Amount.GreaterThan(invoice.DebtAmount.Decimal) {
			return apperror.NewInvalidAmountError(
				fmt.Sprintf("Payment amount %s exceeds remaining debt %s for invoice %s",
					input.Amount.StringFixed(2), invoice.DebtAmount.StringFixed(2), invoice.InvoiceNumber))
		}

		newDebt := invoice.DebtAmount.Sub(input.Amount)
		status := enum.InvoiceStatusPartiallyPaid
		if newDebt.IsZero() {
			newDebt = decimal.Zero
			status = enum.InvoiceStatusPaid
		}

		paymentDate := input.PaymentDate
		if paymentDate.IsZero() {
			paymentDate = l.now()
		}

		payment := &entity.Payment{
			InvoiceID:     invoice.ID,
			PaymentDate:   paymentDate,
			Amount:        entity.NewMoney(input.Amount),
			PaymentMethod: input.PaymentMethod,
		}
		if err := l.paymentRepo.Create(ctx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		if err := l.invoiceRepo.UpdateTotals(ctx, invoice.ID, invoice.Amount.Decimal, newDebt, status); err != nil {
			return fmt.Errorf("update invoice debt: %w", err)
		}

		paymentStatus = status
		return nil
	})
	if err != nil {
		l.metrics.OperationFailed("pay", string(apperror.GetAppError(err).Kind))
		return nil, err
	}

	l.metrics.PaymentApplied(paymentStatus.String(), input.Amount)
	l.log.Info("payment applied",
		zap.String("invoice_number", input.InvoiceNumber),
		zap.String("amount", input.Amount.String()),
		zap.String("status", paymentStatus.String()),
	)

	invoice, err := l.invoiceRepo.GetByInvoiceNumber(ctx, input.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Invoice with number %s", input.InvoiceNumber))
	}
	return invoice, nil
}
