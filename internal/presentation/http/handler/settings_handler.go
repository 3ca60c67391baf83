package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/crm-billing/internal/application/service"
	"github.com/sangkips/crm-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/crm-billing/internal/presentation/http/dto/response"
)

// SettingsHandler handles company settings requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetCompany retrieves the company details printed on documents
func (h *SettingsHandler) GetCompany(c *gin.Context) {
	settings, err := h.settingsService.GetCompany(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company settings retrieved successfully", settings)
}

// UpdateCompany updates the company details. Existing documents keep theirs.
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.settingsService.UpdateCompany(c.Request.Context(), &service.UpdateCompanyInput{
		UserID:      *userID,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		TaxID:       req.TaxID,
		Phone:       req.Phone,
		Email:       req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company settings updated successfully", settings)
}
