package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SampleDataLoader seeds a few demo invoices into an empty database
type SampleDataLoader struct {
	invoices *InvoiceService
	samples  []sampleInvoice
	log      *zap.Logger
}

// NewSampleDataLoader creates a new sample data loader
func NewSampleDataLoader(invoices *InvoiceService, log *zap.Logger) *SampleDataLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &SampleDataLoader{invoices: invoices, samples: sampleInvoices, log: log.Named("sample.data")}
}

type sampleInvoice struct {
	number      string
	customer    string
	description string
	price       string
	issuedAgo   int
	dueIn       int
	payInFull   bool
}

var sampleInvoices = []sampleInvoice{
	{number: "INV-001", customer: "Acme Corporation", description: "Consulting services - Q1", price: "1250.00", issuedAgo: 10, dueIn: 20},
	{number: "INV-002", customer: "Globex Inc.", description: "Software development - Phase 1", price: "2750.50", issuedAgo: 20, dueIn: 10, payInFull: true},
	{number: "INV-003", customer: "Wayne Enterprises", description: "Hardware supplies", price: "4500.75", issuedAgo: 5, dueIn: 25},
}

// Load creates the sample invoices when no invoice exists yet.
// The set is written in one transaction so a failure leaves nothing behind.
// It reports whether anything was written.
func (l *SampleDataLoader) Load(ctx context.Context, now time.Time) (bool, error) {
	loaded := false
	err := l.invoices.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err := l.invoices.invoiceRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			l.log.Info("invoices already present, skipping sample data", zap.Int64("count", count))
			return nil
		}

		today := now.UTC().Truncate(24 * time.Hour)
		for _, sample := range l.samples {
			if err := l.loadOne(ctx, today, sample); err != nil {
				return fmt.Errorf("sample invoice %s: %w", sample.number, err)
			}
		}
		loaded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if loaded {
		l.log.Info("sample invoices loaded", zap.Int("count", len(l.samples)))
	}
	return loaded, nil
}

func (l *SampleDataLoader) loadOne(ctx context.Context, today time.Time, sample sampleInvoice) error {
	invoiceDate := today.AddDate(0, 0, -sample.issuedAgo)
	dueDate := today.AddDate(0, 0, sample.dueIn)

	invoice, err := l.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		InvoiceNumber: sample.number,
		CustomerName:  sample.customer,
		InvoiceDate:   invoiceDate,
		DueDate:       &dueDate,
		Description:   sample.description,
		LineItems: []LineItemInput{{
			Description: sample.description,
			Price:       decimal.RequireFromString(sample.price),
			Quantity:    1,
		}},
	})
	if err != nil {
		return err
	}
	if !sample.payInFull {
		return nil
	}

	_, err = l.invoices.Pay(ctx, PaymentInput{
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.DebtAmount.Decimal,
		PaymentDate:   invoiceDate.AddDate(0, 0, 5),
		PaymentMethod: "Bank Transfer",
	})
	return err
}
