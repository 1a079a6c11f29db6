package middleware

import (
	"log"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

// RecoveryWithLog turns a panic into the standard 500 envelope and logs the stack.
func RecoveryWithLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered on %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, r, debug.Stack())
				apierrors.InternalError(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}
