package service

import (
	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/internal/domain/entity"
)

// Roles that see every deal
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID uuid.UUID
	Roles  []string
}

// IsAdmin reports whether the actor holds an admin role
func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == RoleAdmin || r == RoleSuperAdmin {
			return true
		}
	}
	return false
}

// AccessPolicy decides whether an actor may work on a deal's documents
type AccessPolicy interface {
	CanAccessDeal(actor Actor, deal *entity.Deal) bool
}

// DealAccessPolicy grants access to the deal owner, its sales team and admins
type DealAccessPolicy struct{}

// CanAccessDeal implements AccessPolicy
func (DealAccessPolicy) CanAccessDeal(actor Actor, deal *entity.Deal) bool {
	if deal == nil {
		return false
	}
	if actor.IsAdmin() || deal.OwnerID == actor.UserID {
		return true
	}
	return deal.HasMember(actor.UserID)
}
