package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

// RequireIDParam parses a positive integer path parameter and stores it
// under ContextKeyParamID.
func RequireIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || id == 0 {
			apierrors.RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("O parâmetro %s deve ser um inteiro positivo", name),
				map[string]interface{}{"campo": name})
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyParamID, id)
		c.Next()
	}
}

// GetParamID returns the id stored by RequireIDParam.
func GetParamID(c *gin.Context) uint64 {
	id, _ := c.Get(constants.ContextKeyParamID)
	v, _ := id.(uint64)
	return v
}
