package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
)

const msgInvalidBody = "Corpo da requisição inválido"

// SuccessEnvelope wraps every successful response.
type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessEnvelope{Success: true, Message: message, Data: data})
}

// decodePayload reads a JSON object body. When the object has a single
// wrapper member (e.g. {"tarefa": {...}}) the inner object is returned. An
// empty body decodes to an empty payload.
func decodePayload(c *gin.Context, wrapper string) (services.Payload, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, msgInvalidBody)
		return nil, false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return services.Payload{}, true
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		apierrors.BadRequest(c, msgInvalidBody)
		return nil, false
	}

	if inner, ok := body[wrapper].(map[string]interface{}); ok {
		return services.Payload(inner), true
	}
	return services.Payload(body), true
}

func pageOf(params utils.PaginationParams, total int64) dto.Page {
	return dto.Page{Total: total, Page: params.Page, Limit: params.Limit}
}

// callerID returns the authenticated user id; RequireAuth guarantees it is set.
func callerID(c *gin.Context) uint64 {
	id, _ := middleware.GetUserID(c)
	return id
}

// scope is the caller id as an ownership filter.
func scope(c *gin.Context) *uint64 {
	id := callerID(c)
	return &id
}

func noContent(c *gin.Context, message string) {
	respondOK(c, http.StatusOK, message, nil)
}
