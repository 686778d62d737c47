package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/response"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRoles    = "user_roles"
)

// RoleAdmin may manage rates, ledger status, settings and backfills
const RoleAdmin = "admin"

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRoles, claims.Roles)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles, ok := c.Get(ContextRoles)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		userRolesList, ok := userRoles.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, userRole := range userRolesList {
			for _, requiredRole := range roles {
				if userRole == requiredRole {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
