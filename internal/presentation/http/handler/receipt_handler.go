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

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Generate handles creating the receipt of an invoice
// @Summary Generate Receipt
// @Description Create a DRAFT receipt for a confirmed invoice
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Param Idempotency-Key header string false "Retry key"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse "invoice_not_confirmed or receipt_exists"
// @Router /invoices/{id}/receipt [post]
func (h *ReceiptHandler) Generate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	invoiceID, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	receipt, err := h.receiptService.GenerateReceipt(c.Request.Context(), invoiceID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt generated successfully", receipt)
}

// Get handles getting a single receipt
// @Summary Get Receipt
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Update handles editing a receipt
// @Summary Update Receipt
// @Description Edit a DRAFT receipt, or send status DRAFT to reopen an ISSUED one
// @Tags receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param request body request.UpdateReceiptRequest true "Receipt fields"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id} [put]
func (h *ReceiptHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateReceiptInput{
		Customer:   toCustomerPatch(req.Customer),
		GrandTotal: req.GrandTotal,
		WHTAmount:  req.WHTAmount,
		NetTotal:   req.NetTotal,
		Notes:      req.Notes,
	}

	if req.Status != nil {
		status := enum.ReceiptStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	date, err := parseDate(req.Date)
	if err != nil {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	input.Date = date

	receipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt updated successfully", receipt)
}

// Confirm handles issuing a receipt
// @Summary Confirm Receipt
// @Description Issue a DRAFT receipt and mark its invoice PAID. Repeating the call is a no-op.
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id}/confirm [post]
func (h *ReceiptHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.ConfirmReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt confirmed successfully", receipt)
}

// List handles listing receipts
// @Summary List Receipts
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Receipt number or customer name"
// @Param status query string false "DRAFT or ISSUED"
// @Success 200 {object} response.APIResponse
// @Router /receipts [get]
func (h *ReceiptHandler) List(c *gin.Context) {
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

	input := &service.ListReceiptsInput{
		Actor:      actor,
		Pagination: parsePagination(filter),
		Search:     filter.Search,
	}
	if filter.Status != "" {
		status := enum.ReceiptStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Receipts retrieved successfully", result)
}
