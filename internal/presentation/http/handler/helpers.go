package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/application/service"
	"github.com/sangkips/crm-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/crm-billing/pkg/pagination"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	list, _ := roles.([]string)
	return list
}

// currentActor builds the acting user from the authenticated request
func currentActor(c *gin.Context) (service.Actor, bool) {
	userID := GetUserID(c)
	if userID == nil {
		return service.Actor{}, false
	}
	return service.Actor{UserID: *userID, Roles: GetUserRoles(c)}, true
}

// parseID reads the :id path parameter
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(f request.DocumentFilterRequest) *pagination.PaginationParams {
	p := &pagination.PaginationParams{Page: f.Page, PerPage: f.PerPage}
	p.Validate()
	return p
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toCustomerPatch(r *request.CustomerRequest) *service.CustomerPatch {
	if r == nil {
		return nil
	}
	return &service.CustomerPatch{
		Name:    r.Name,
		Address: r.Address,
		TaxID:   r.TaxID,
		Phone:   r.Phone,
		Email:   r.Email,
	}
}

func toTotalsPatch(r *request.TotalsRequest) *service.TotalsPatch {
	if r == nil {
		return nil
	}
	return &service.TotalsPatch{
		Subtotal:       r.Subtotal,
		ItemDiscount:   r.ItemDiscount,
		GlobalDiscount: r.GlobalDiscount,
		TotalDiscount:  r.TotalDiscount,
		AfterDiscount:  r.AfterDiscount,
		VATRate:        r.VATRate,
		VATAmount:      r.VATAmount,
		GrandTotal:     r.GrandTotal,
		WHTRate:        r.WHTRate,
		WHTAmount:      r.WHTAmount,
		NetTotal:       r.NetTotal,
	}
}
