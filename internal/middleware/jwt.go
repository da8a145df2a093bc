package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portaldovale/backend/internal/auth"
	"github.com/portaldovale/backend/pkg/response"
)

const (
	// ContextUserID is the gin context key for the authenticated portal user id.
	ContextUserID = "user_id"
	// ContextUserRole is the gin context key for the session role claim.
	ContextUserRole = "user_role"
	// ContextUserEmail is the gin context key for the user email.
	ContextUserEmail = "user_email"
)

// JWT authenticates the request with a bearer session token and stores
// the portal identity in the gin context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}
