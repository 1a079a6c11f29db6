package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// UserHandler serves /api/usuario.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create registers a new user.
func (h *UserHandler) Create(c *gin.Context) {
	p, ok := decodePayload(c, "usuario")
	if !ok {
		return
	}

	user, err := h.users.Register(p)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Usuário criado com sucesso", dto.ToUserDTO(user))
}

// Login checks credentials and returns a signed token.
func (h *UserHandler) Login(c *gin.Context) {
	p, ok := decodePayload(c, "usuario")
	if !ok {
		return
	}

	res, err := h.users.Login(p)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Login realizado com sucesso", dto.LoginResponse{
		Token: res.Token,
		User:  dto.ToUserDTO(res.User),
	})
}

// Logout only acknowledges; tokens are stateless.
func (h *UserHandler) Logout(c *gin.Context) {
	noContent(c, "Logout realizado com sucesso")
}

func (h *UserHandler) CheckEmail(c *gin.Context) {
	email := c.Param("email")
	exists, err := h.users.EmailExists(email)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Verificação concluída", dto.EmailCheckResponse{Email: email, Exists: exists})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(callerID(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Usuário encontrado", dto.ToUserDTO(user))
}

// Get returns a user by id. Only the user themself or an admin may read it.
func (h *UserHandler) Get(c *gin.Context) {
	id := middleware.GetParamID(c)
	if !h.selfOrAdmin(c, id) {
		return
	}

	user, err := h.users.GetUser(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Usuário encontrado", dto.ToUserDTO(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id := middleware.GetParamID(c)
	if !h.selfOrAdmin(c, id) {
		return
	}
	p, ok := decodePayload(c, "usuario")
	if !ok {
		return
	}

	user, err := h.users.Update(id, p, middleware.IsAdmin(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Usuário atualizado com sucesso", dto.ToUserDTO(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := middleware.GetParamID(c)
	if !h.selfOrAdmin(c, id) {
		return
	}

	if err := h.users.Delete(id); err != nil {
		apierrors.Respond(c, err)
		return
	}
	noContent(c, "Usuário removido com sucesso")
}

// List returns every user (admin).
func (h *UserHandler) List(c *gin.Context) {
	page := utils.GetPaginationParams(c)
	users, total, err := h.users.List(page)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Usuários listados com sucesso", dto.ToUserListResponse(users, pageOf(page, total)))
}

// GetByEmail looks a user up by email (admin).
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Param("email"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Usuário encontrado", dto.ToUserDTO(user))
}

func (h *UserHandler) selfOrAdmin(c *gin.Context, id uint64) bool {
	if callerID(c) == id || middleware.IsAdmin(c) {
		return true
	}
	apierrors.Forbidden(c, "")
	return false
}
