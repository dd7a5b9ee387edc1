package request

import "github.com/shopspring/decimal"

// DateLayout is the wire format of invoice, due and payment dates
const DateLayout = "2006-01-02"

// LineItemRequest represents one line item in a request. Totals are never accepted.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,max=255"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	InvoiceNumber string            `json:"invoice_number" binding:"required,max=100"`
	CustomerName  string            `json:"customer_name" binding:"required,max=255"`
	InvoiceDate   string            `json:"invoice_date" binding:"required,datetime=2006-01-02"`
	DueDate       string            `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Description   string            `json:"description"`
	LineItems     []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest appends line items to the invoice named in the body
type UpdateInvoiceRequest struct {
	InvoiceNumber string            `json:"invoice_number" binding:"required,max=100"`
	LineItems     []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

// AddLineItemsRequest appends line items to the invoice named in the path
type AddLineItemsRequest struct {
	LineItems []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

// PayInvoiceRequest represents a payment request
type PayInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,max=100"`
}

// InvoiceFilterRequest represents invoice list query parameters
type InvoiceFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}
