package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portaldovale/backend/pkg/response"
)

// RequireRole returns a middleware that admits only requests whose
// session token carries one of the given portal roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextUserRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, _ := roleVal.(string)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleSource resolves the stored role for a user id.
type RoleSource interface {
	GetRole(ctx context.Context, id uuid.UUID) (string, error)
}

// RequireProfileRole re-reads the role from the user's stored profile
// instead of trusting the token claim, so a demoted user loses access
// immediately rather than at token expiry. Used on the admin-only
// banner write surface.
func RequireProfileRole(src RoleSource, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		idVal, ok := c.Get(ContextUserID)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		id, ok := idVal.(uuid.UUID)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, err := src.GetRole(c.Request.Context(), id)
		if err != nil {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
