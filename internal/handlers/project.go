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

// ProjectHandler serves /api/projeto. Every :id route is scoped to the caller.
type ProjectHandler struct {
	projects *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create stores a project owned by the caller; any usuario_id in the body is ignored.
func (h *ProjectHandler) Create(c *gin.Context) {
	p, ok := decodePayload(c, "projeto")
	if !ok {
		return
	}

	project, err := h.projects.Create(callerID(c), p)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Projeto criado com sucesso", dto.ToProjectDTO(project))
}

// ListMine lists the caller's projects.
func (h *ProjectHandler) ListMine(c *gin.Context) {
	h.list(c, scope(c))
}

// ListAll lists every project (admin).
func (h *ProjectHandler) ListAll(c *gin.Context) {
	h.list(c, nil)
}

func (h *ProjectHandler) list(c *gin.Context, ownerID *uint64) {
	page := utils.GetPaginationParams(c)
	projects, total, err := h.projects.List(ownerID, page)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Projetos listados com sucesso", dto.ToProjectListResponse(projects, pageOf(page, total)))
}

// ListByUser lists one user's projects (admin).
func (h *ProjectHandler) ListByUser(c *gin.Context) {
	page := utils.GetPaginationParams(c)
	projects, total, err := h.projects.ListByUser(middleware.GetParamID(c), page)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Projetos listados com sucesso", dto.ToProjectListResponse(projects, pageOf(page, total)))
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(middleware.GetParamID(c), scope(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Projeto encontrado", dto.ToProjectDTO(project))
}

func (h *ProjectHandler) Update(c *gin.Context) {
	p, ok := decodePayload(c, "projeto")
	if !ok {
		return
	}

	project, err := h.projects.Update(middleware.GetParamID(c), scope(c), p)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Projeto atualizado com sucesso", dto.ToProjectDTO(project))
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(middleware.GetParamID(c), scope(c)); err != nil {
		apierrors.Respond(c, err)
		return
	}
	noContent(c, "Projeto removido com sucesso")
}
