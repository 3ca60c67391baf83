package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/crm-billing/internal/application/service"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	"github.com/sangkips/crm-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/crm-billing/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Generate handles creating the invoice of a deal
// @Summary Generate Invoice
// @Description Create a DRAFT invoice from a deal's quotation
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Deal ID"
// @Param Idempotency-Key header string false "Retry key"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse "invoice_exists"
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /deals/{id}/invoice [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	dealID, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid deal ID")
		return
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request.Context(), dealID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice generated successfully", invoice)
}

// Get handles getting a single invoice
// @Summary Get Invoice
// @Description Get an invoice by ID. A DRAFT invoice is refreshed from its deal first.
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Update handles editing an invoice
// @Summary Update Invoice
// @Description Edit a DRAFT invoice, or send status DRAFT to reopen a SENT one
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body request.UpdateInvoiceRequest true "Invoice fields"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse "edit_locked"
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateInvoiceInput{
		Customer: toCustomerPatch(req.Customer),
		Totals:   toTotalsPatch(req.Totals),
		Terms:    req.Terms,
		Notes:    req.Notes,
	}

	if req.Status != nil {
		status := enum.InvoiceStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "Invalid due_date format. Use YYYY-MM-DD")
		return
	}
	input.DueDate = dueDate

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// SyncItems handles re-copying a DRAFT invoice from its deal
// @Summary Sync Invoice Items
// @Description Rebuild items, totals, customer and due date of a DRAFT invoice from its deal
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse "invoice_not_draft or invoice_no_deal"
// @Router /invoices/{id}/sync-items [post]
func (h *InvoiceHandler) SyncItems(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.SyncInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice synchronized successfully", invoice)
}

// Confirm handles sending an invoice
// @Summary Confirm Invoice
// @Description Move a DRAFT invoice to SENT. Repeating the call is a no-op.
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/confirm [post]
func (h *InvoiceHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.ConfirmInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice confirmed successfully", invoice)
}

// List handles listing invoices
// @Summary List Invoices
// @Description Get the invoices of deals visible to the user
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Invoice number or customer name"
// @Param status query string false "DRAFT, SENT or PAID"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.DocumentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	input := &service.ListInvoicesInput{
		Actor:      actor,
		Pagination: parsePagination(filter),
		Search:     filter.Search,
	}
	if filter.Status != "" {
		status := enum.InvoiceStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", result)
}
