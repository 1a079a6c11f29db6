package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/token"
)

// TokenValidator verifies a raw Authorization header value.
type TokenValidator interface {
	Validate(raw string) (*token.Claims, error)
}

// RequireAuth checks the bearer token and stores the caller in the context
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := validator.Validate(header)
		if err != nil {
			apierrors.Unauthorized(c, apierrors.MsgInvalidToken)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetClaims returns the validated token claims.
func GetClaims(c *gin.Context) (*token.Claims, bool) {
	v, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// IsAdmin reports whether the caller's token carries the admin role.
func IsAdmin(c *gin.Context) bool {
	claims, ok := GetClaims(c)
	return ok && claims.Role == constants.RoleAdmin
}
