// Package auth carries authenticated user identity through request contexts
// and validates HMAC access tokens and admin API keys.
package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/workflow"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	RoleIDs     []uuid.UUID
	RoleNames   []string
	CompanyID   domain.CompanyID
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRoleID checks if the user holds a role by id
func (u *UserContext) HasRoleID(roleID uuid.UUID) bool {
	for _, id := range u.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// HasRoleName checks if the user holds a role by name
func (u *UserContext) HasRoleName(name string) bool {
	for _, n := range u.RoleNames {
		if n == name {
			return true
		}
	}
	return false
}

// IsSuperAdmin checks if the user holds the Super Admin role
func (u *UserContext) IsSuperAdmin() bool {
	return u.HasRoleName(domain.RoleNameSuperAdmin)
}

// Actor converts the user context into a workflow actor
func (u *UserContext) Actor() workflow.Actor {
	return workflow.Actor{
		UserID:       u.UserID,
		RoleIDs:      u.RoleIDs,
		IsSuperAdmin: u.IsSuperAdmin(),
	}
}
