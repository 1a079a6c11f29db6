package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// TaskHandler serves /api/tarefa. Scoped routes only see tasks the caller
// is responsible for.
type TaskHandler struct {
	tasks *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := decodePayload(c, "tarefa")
	if !ok {
		return
	}

	task, err := h.tasks.Create(callerID(c), p)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Tarefa criada com sucesso", dto.ToTaskDTO(task))
}

// ListMine handles GET /minhas-tarefas with optional status, prioridade,
// concluida and projeto_id filters.
func (h *TaskHandler) ListMine(c *gin.Context) {
	page := utils.GetPaginationParams(c)
	input, err := services.ParseListTasksInput(c.Request.URL.Query(), page)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	tasks, total, err := h.tasks.ListMine(callerID(c), input)
	h.respondList(c, tasks, total, page, err)
}

func (h *TaskHandler) ListAssignedByMe(c *gin.Context) {
	page := utils.GetPaginationParams(c)
	tasks, total, err := h.tasks.ListAssignedByMe(callerID(c), page)
	h.respondList(c, tasks, total, page, err)
}

func (h *TaskHandler) ListByProject(c *gin.Context) {
	page := utils.GetPaginationParams(c)
	tasks, total, err := h.tasks.ListByProject(callerID(c), middleware.GetParamID(c), page)
	h.respondList(c, tasks, total, page, err)
}

// ListAll lists every task (admin).
func (h *TaskHandler) ListAll(c *gin.Context) {
	page := utils.GetPaginationParams(c)
	tasks, total, err := h.tasks.ListAll(page)
	h.respondList(c, tasks, total, page, err)
}

func (h *TaskHandler) respondList(c *gin.Context, tasks []models.Task, total int64, page utils.PaginationParams, err error) {
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Tarefas listadas com sucesso", dto.ToTaskListResponse(tasks, pageOf(page, total)))
}

func (h *TaskHandler) Dashboard(c *gin.Context) {
	d, err := h.tasks.Dashboard(callerID(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Dashboard carregado com sucesso", d)
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(middleware.GetParamID(c), scope(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Tarefa encontrada", dto.ToTaskDTO(task))
}

func (h *TaskHandler) Update(c *gin.Context) {
	p, ok := decodePayload(c, "tarefa")
	if !ok {
		return
	}

	task, err := h.tasks.Update(middleware.GetParamID(c), scope(c), p)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Tarefa atualizada com sucesso", dto.ToTaskDTO(task))
}

// Complete sets concluida from the body; a missing value means true.
func (h *TaskHandler) Complete(c *gin.Context) {
	p, ok := decodePayload(c, "tarefa")
	if !ok {
		return
	}

	task, err := h.tasks.Complete(middleware.GetParamID(c), scope(c), p["concluida"])
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Status de conclusão atualizado", dto.ToTaskDTO(task))
}

func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	task, err := h.tasks.ToggleComplete(middleware.GetParamID(c), scope(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Status de conclusão alternado", dto.ToTaskDTO(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(middleware.GetParamID(c), scope(c)); err != nil {
		apierrors.Respond(c, err)
		return
	}
	noContent(c, "Tarefa removida com sucesso")
}
