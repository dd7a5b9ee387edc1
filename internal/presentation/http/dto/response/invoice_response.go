package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	"github.com/sangkips/invoicing-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// InvoiceResponse is the invoice projection returned to clients.
// Money is rendered as fixed two-place decimal strings.
type InvoiceResponse struct {
	ID            uuid.UUID          `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerName  string             `json:"customer_name"`
	InvoiceDate   string             `json:"invoice_date"`
	DueDate       *string            `json:"due_date"`
	Amount        string             `json:"amount"`
	DebtAmount    string             `json:"debt_amount"`
	PaidAmount    string             `json:"paid_amount"`
	Status        enum.InvoiceStatus `json:"status"`
	Description   string             `json:"description"`
	LineItems     []LineItemResponse `json:"line_items"`
	Payments      []PaymentResponse  `json:"payments"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// LineItemResponse represents a line item
type LineItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Position    int       `json:"position"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Quantity    int       `json:"quantity"`
	TotalAmount string    `json:"total_amount"`
}

// PaymentResponse represents a recorded payment
type PaymentResponse struct {
	ID            uuid.UUID `json:"id"`
	PaymentDate   string    `json:"payment_date"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewInvoiceResponse maps an invoice with its children
func NewInvoiceResponse(invoice *entity.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerName:  invoice.CustomerName,
		InvoiceDate:   invoice.InvoiceDate.Format(dateLayout),
		Amount:        invoice.Amount.StringFixed(2),
		DebtAmount:    invoice.DebtAmount.StringFixed(2),
		PaidAmount:    invoice.PaidAmount().StringFixed(2),
		Status:        invoice.Status,
		Description:   invoice.Description,
		LineItems:     make([]LineItemResponse, 0, len(invoice.LineItems)),
		Payments:      make([]PaymentResponse, 0, len(invoice.Payments)),
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
	if invoice.DueDate != nil {
		due := invoice.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}

	for _, item := range invoice.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ID:          item.ID,
			Position:    item.Position,
			Description: item.Description,
			Price:       item.Price.StringFixed(2),
			Quantity:    item.Quantity,
			TotalAmount: item.TotalAmount.StringFixed(2),
		})
	}
	for _, p := range invoice.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:            p.ID,
			PaymentDate:   p.PaymentDate.Format(dateLayout),
			Amount:        p.Amount.StringFixed(2),
			PaymentMethod: p.PaymentMethod,
			CreatedAt:     p.CreatedAt,
		})
	}
	return resp
}

// NewInvoiceListResponse maps a page of invoices
func NewInvoiceListResponse(page *pagination.PaginatedResult[entity.Invoice]) *pagination.PaginatedResult[InvoiceResponse] {
	return pagination.MapItems(page, func(invoice entity.Invoice) InvoiceResponse {
		return NewInvoiceResponse(&invoice)
	})
}
