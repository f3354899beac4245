package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collections-backend/models"
	"collections-backend/utils"
)

// Context keys set by JWTAuth and read by handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWTAuth validates the bearer token and stores the operator's identity in
// the request context. It performs no role check.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, username, role, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUsername, username)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// RequireRole is the single authorization gate: the route group's required
// role is checked against the authenticated role before any handler runs.
// A mismatch rejects the request without executing the operation.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists || role.(models.Role) != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "access denied: " + string(required) + " role required",
			})
			return
		}
		c.Next()
	}
}

// Username returns the authenticated operator name from the context.
func Username(c *gin.Context) string {
	name, _ := c.Get(CtxUsername)
	if s, ok := name.(string); ok {
		return s
	}
	return ""
}

// Role returns the authenticated role from the context.
func Role(c *gin.Context) models.Role {
	role, _ := c.Get(CtxRole)
	if r, ok := role.(models.Role); ok {
		return r
	}
	return ""
}
