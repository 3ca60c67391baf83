package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/crm-billing/internal/application/service"
	"github.com/sangkips/crm-billing/internal/presentation/http/dto/response"
)

// QuotationHandler handles the quotation embedded in a deal
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Get handles previewing a deal's quotation
// @Summary Get Quotation
// @Description Render the quotation of a deal from its current data
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /deals/{id}/quotation [get]
func (h *QuotationHandler) Get(c *gin.Context) {
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

	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), dealID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Issue handles numbering a deal's quotation
// @Summary Issue Quotation Number
// @Description Assign a QT number and today's date. A numbered deal keeps its number.
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /deals/{id}/quotation [post]
func (h *QuotationHandler) Issue(c *gin.Context) {
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

	quotation, err := h.quotationService.IssueQuotationNumber(c.Request.Context(), dealID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation numbered successfully", quotation)
}
