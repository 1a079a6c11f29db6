package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/services"
)

// PasswordHandler serves the password reset flow under /api/auth.
type PasswordHandler struct {
	resets *services.PasswordResetService
}

func NewPasswordHandler(resets *services.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// RequestReset answers the same way whether or not the email is registered.
func (h *PasswordHandler) RequestReset(c *gin.Context) {
	p, ok := decodePayload(c, "usuario")
	if !ok {
		return
	}

	if err := h.resets.RequestReset(c.Request.Context(), p); err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Se o email estiver cadastrado, você receberá as instruções de recuperação", nil)
}

func (h *PasswordHandler) Reset(c *gin.Context) {
	p, ok := decodePayload(c, "usuario")
	if !ok {
		return
	}

	if err := h.resets.Reset(c.Request.Context(), p); err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Senha redefinida com sucesso", nil)
}
