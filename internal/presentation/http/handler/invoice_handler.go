package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/invoicing-api/internal/application/service"
	"github.com/sangkips/invoicing-api/internal/domain/enum"
	"github.com/sangkips/invoicing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invoicing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoicing-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var req request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	input := &service.ListInvoicesInput{
		Pagination: &pagination.PaginationParams{
			Page:    req.Page,
			PerPage: req.PerPage,
		},
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	if req.Status != "" {
		status, err := enum.ParseInvoiceStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid status, expected PENDING, PARTIALLY_PAID or PAID")
			return
		}
		input.Status = &status
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", response.NewInvoiceListResponse(result))
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		CustomerName:  req.CustomerName,
		InvoiceDate:   *invoiceDate,
		DueDate:       dueDate,
		Description:   req.Description,
		LineItems:     toLineItemInputs(req.LineItems),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", response.NewInvoiceResponse(invoice))
}

// Get handles getting a single invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", response.NewInvoiceResponse(invoice))
}

// GetByNumber handles getting a single invoice by its invoice number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	invoice, err := h.invoiceService.GetByNumber(c.Request.Context(), c.Param("invoiceNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", response.NewInvoiceResponse(invoice))
}

// Update appends the line items in the body to the invoice it names
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req request.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.AddLineItems(c.Request.Context(), req.InvoiceNumber, toLineItemInputs(req.LineItems))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", response.NewInvoiceResponse(invoice))
}

// AddLineItems appends line items to the invoice named in the path
func (h *InvoiceHandler) AddLineItems(c *gin.Context) {
	var req request.AddLineItemsRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.AddLineItems(c.Request.Context(), c.Param("invoiceNumber"), toLineItemInputs(req.LineItems))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line items added successfully", response.NewInvoiceResponse(invoice))
}

// Pay handles applying a payment to an invoice
func (h *InvoiceHandler) Pay(c *gin.Context) {
	var req request.PayInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.PaymentInput{
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	if paymentDate != nil {
		input.PaymentDate = *paymentDate
	}

	invoice, err := h.invoiceService.Pay(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment applied successfully", response.NewInvoiceResponse(invoice))
}

func toLineItemInputs(items []request.LineItemRequest) []service.LineItemInput {
	inputs := make([]service.LineItemInput, len(items))
	for i, item := range items {
		inputs[i] = service.LineItemInput{
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
		}
	}
	return inputs
}
