package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

// RequireRole allows the request through only if the caller has one of roles.
// Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
