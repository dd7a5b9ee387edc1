package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents a bill issued to a customer and tracked through settlement.
// Amount and DebtAmount are derived; they are only written by the lifecycle
// service and the payment ledger.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string             `gorm:"size:100;uniqueIndex;not null" json:"invoice_number"`
	CustomerName  string             `gorm:"size:255;not null" json:"customer_name"`
	InvoiceDate   time.Time          `gorm:"type:date;not null" json:"invoice_date"`
	DueDate       *time.Time         `gorm:"type:date" json:"due_date,omitempty"`
	Amount        Money              `gorm:"not null;default:0" json:"amount"`
	DebtAmount    Money              `gorm:"not null;default:0" json:"debt_amount"`
	Status        enum.InvoiceStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Description   string             `gorm:"type:text" json:"description"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	LineItems []LineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// PaidAmount returns the sum of the payments currently loaded on the invoice
func (i *Invoice) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		total = total.Add(p.Amount.Decimal)
	}
	return total
}

// LineItem represents one billable entry on an invoice
type LineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Price       Money           `gorm:"not null" json:"price"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	TotalAmount Money           `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new line item
func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LineItem model
func (LineItem) TableName() string {
	return "line_items"
}

// Payment is an immutable record of money applied against an invoice
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Amount        Money           `gorm:"not null" json:"amount"`
	PaymentMethod string          `gorm:"size:100" json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
