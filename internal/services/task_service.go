package services

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"github.com/yukikurage/project-task-api/internal/validation"
	"gorm.io/gorm"
)

// TaskService handles task business logic. Scoped methods take the
// responsible user's id; nil is unscoped.
type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, users repository.UserRepository) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
	}
}

// ListTasksInput represents filters for listing the caller's tasks
type ListTasksInput struct {
	Status    *string
	Priority  *string
	Completed *bool
	ProjectID *uint64
	Page      utils.PaginationParams
}

// ParseListTasksInput reads the minhas-tarefas query filters. Empty values
// are ignored.
func ParseListTasksInput(q url.Values, page utils.PaginationParams) (ListTasksInput, error) {
	input := ListTasksInput{Page: page}

	if v := q.Get("status"); v != "" {
		input.Status = &v
	}
	if v := q.Get("prioridade"); v != "" {
		input.Priority = &v
	}
	if v := q.Get("concluida"); v != "" {
		completed, err := validation.Bool("concluida", v)
		if err != nil {
			return input, invalid(err)
		}
		input.Completed = &completed
	}
	if v := q.Get("projeto_id"); v != "" {
		id, err := validation.PositiveID("projeto_id", v, false)
		if err != nil {
			return input, invalid(err)
		}
		input.ProjectID = id
	}
	return input, nil
}

// Dashboard is the aggregate returned for the caller.
type Dashboard struct {
	*repository.TaskStats
	Projects int64 `json:"projetos"`
}

func buildTask(fields Payload) (*models.Task, error) {
	title, err := validation.RequiredString("titulo", fields["titulo"], constants.MinTaskTitleLength)
	if err != nil {
		return nil, invalid(err)
	}
	description, err := validation.OptionalString("descricao", fields["descricao"])
	if err != nil {
		return nil, invalid(err)
	}

	status := constants.DefaultTaskStatus
	if s, err := validation.OptionalString("status", fields["status"]); err != nil {
		return nil, invalid(err)
	} else if s != nil {
		status = *s
	}

	priority := constants.DefaultTaskPriority
	if s, err := validation.OptionalString("prioridade", fields["prioridade"]); err != nil {
		return nil, invalid(err)
	} else if s != nil {
		priority = *s
	}

	completed := false
	if fields.has("concluida") {
		if completed, err = validation.Bool("concluida", fields["concluida"]); err != nil {
			return nil, invalid(err)
		}
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		Completed:   completed,
	}

	dates := []struct {
		field string
		dst   **time.Time
	}{
		{"data_limite", &task.DueDate},
		{"data_inicio", &task.StartDate},
		{"data_fim", &task.EndDate},
	}
	for _, d := range dates {
		if *d.dst, err = validation.Date(d.field, fields[d.field]); err != nil {
			return nil, invalid(err)
		}
	}

	if task.ProjectID, err = validation.PositiveID("projeto_id", fields["projeto_id"], true); err != nil {
		return nil, invalid(err)
	}

	return task, nil
}

func taskFields(t *models.Task) Payload {
	return Payload{
		"titulo":      t.Title,
		"descricao":   stringOrNil(t.Description),
		"status":      t.Status,
		"prioridade":  t.Priority,
		"concluida":   t.Completed,
		"data_limite": timeOrNil(t.DueDate),
		"data_inicio": timeOrNil(t.StartDate),
		"data_fim":    timeOrNil(t.EndDate),
		"projeto_id":  idOrNil(t.ProjectID),
	}
}

// Create stores a task assigned by callerID. The responsible user is the
// payload's usuario_responsavel_id when given, otherwise the caller.
func (s *TaskService) Create(callerID uint64, p Payload) (*models.Task, error) {
	task, err := buildTask(p)
	if err != nil {
		return nil, err
	}

	responsibleID := callerID
	if p.has("usuario_responsavel_id") {
		id, err := validation.PositiveID("usuario_responsavel_id", p["usuario_responsavel_id"], false)
		if err != nil {
			return nil, invalid(err)
		}
		responsibleID = *id
	}

	if err := s.ensureUser(callerID, "usuario_atribuidor_id"); err != nil {
		return nil, err
	}
	if responsibleID != callerID {
		if err := s.ensureUser(responsibleID, "usuario_responsavel_id"); err != nil {
			return nil, err
		}
	}
	if err := s.ensureProject(task.ProjectID); err != nil {
		return nil, err
	}

	task.ResponsibleID = responsibleID
	task.AssignerID = callerID
	if err := s.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return s.Get(task.ID, nil)
}

// Get returns a task with related names
func (s *TaskService) Get(id uint64, responsibleID *uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(id, responsibleID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound, "find task")
	}
	return task, nil
}

// ListMine returns the tasks callerID is responsible for.
func (s *TaskService) ListMine(callerID uint64, input ListTasksInput) ([]models.Task, int64, error) {
	return s.list(repository.TaskFilter{
		ResponsibleID: &callerID,
		ProjectID:     input.ProjectID,
		Status:        input.Status,
		Priority:      input.Priority,
		Completed:     input.Completed,
		Page:          input.Page,
	})
}

// ListAssignedByMe returns tasks callerID delegated to other users.
func (s *TaskService) ListAssignedByMe(callerID uint64, page utils.PaginationParams) ([]models.Task, int64, error) {
	return s.list(repository.TaskFilter{
		AssignerID:          &callerID,
		ExcludeSelfAssigned: true,
		Page:                page,
	})
}

// ListByProject returns the caller's tasks inside one project.
func (s *TaskService) ListByProject(callerID, projectID uint64, page utils.PaginationParams) ([]models.Task, int64, error) {
	return s.list(repository.TaskFilter{
		ResponsibleID: &callerID,
		ProjectID:     &projectID,
		Page:          page,
	})
}

// ListAll is the unscoped admin listing.
func (s *TaskService) ListAll(page utils.PaginationParams) ([]models.Task, int64, error) {
	return s.list(repository.TaskFilter{Page: page})
}

func (s *TaskService) list(filter repository.TaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.tasks.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// Update merges p into the stored task. Reassigning the responsible user is
// allowed; the assigner never changes.
func (s *TaskService) Update(id uint64, responsibleID *uint64, p Payload) (*models.Task, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPayload
	}

	existing, err := s.Get(id, responsibleID)
	if err != nil {
		return nil, err
	}

	updated, err := buildTask(merge(taskFields(existing), p.withoutNulls("status", "prioridade", "concluida")))
	if err != nil {
		return nil, err
	}

	updated.ResponsibleID = existing.ResponsibleID
	if p.has("usuario_responsavel_id") {
		newID, err := validation.PositiveID("usuario_responsavel_id", p["usuario_responsavel_id"], false)
		if err != nil {
			return nil, invalid(err)
		}
		if *newID != existing.ResponsibleID {
			if err := s.ensureUser(*newID, "usuario_responsavel_id"); err != nil {
				return nil, err
			}
		}
		updated.ResponsibleID = *newID
	}
	if err := s.ensureProject(updated.ProjectID); err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.AssignerID = existing.AssignerID
	updated.CreatedAt = existing.CreatedAt
	if err := s.tasks.Update(updated); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.Get(id, nil)
}

// Complete sets the completion flag from any accepted boolean representation;
// nil means true.
func (s *TaskService) Complete(id uint64, responsibleID *uint64, value interface{}) (*models.Task, error) {
	completed := true
	if value != nil {
		var err error
		if completed, err = validation.Bool("concluida", value); err != nil {
			return nil, invalid(err)
		}
	}

	if _, err := s.Get(id, responsibleID); err != nil {
		return nil, err
	}
	return s.setCompleted(id, responsibleID, completed)
}

// ToggleComplete flips the completion flag.
func (s *TaskService) ToggleComplete(id uint64, responsibleID *uint64) (*models.Task, error) {
	task, err := s.Get(id, responsibleID)
	if err != nil {
		return nil, err
	}
	return s.setCompleted(id, responsibleID, !task.Completed)
}

func (s *TaskService) setCompleted(id uint64, responsibleID *uint64, completed bool) (*models.Task, error) {
	status := constants.DefaultTaskStatus
	if completed {
		status = constants.TaskStatusDone
	}
	if err := s.tasks.SetCompleted(id, responsibleID, completed, status); err != nil {
		return nil, notFound(err, ErrTaskNotFound, "update task completion")
	}
	return s.Get(id, responsibleID)
}

// Delete removes a task
func (s *TaskService) Delete(id uint64, responsibleID *uint64) error {
	if err := s.tasks.Delete(id, responsibleID); err != nil {
		return notFound(err, ErrTaskNotFound, "delete task")
	}
	return nil
}

// Dashboard aggregates the caller's tasks and counts their projects.
func (s *TaskService) Dashboard(callerID uint64) (*Dashboard, error) {
	stats, err := s.tasks.Stats(&callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute task stats: %w", err)
	}
	projects, err := s.projects.Count(&callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	return &Dashboard{TaskStats: stats, Projects: projects}, nil
}

// ensureUser fails closed: any lookup error blocks the write.
func (s *TaskService) ensureUser(id uint64, field string) error {
	if _, err := s.users.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return missingReference("Usuário", field, id)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}

func (s *TaskService) ensureProject(id *uint64) error {
	if id == nil {
		return nil
	}
	if _, err := s.projects.FindByID(*id, nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return missingReference("Projeto", "projeto_id", *id)
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}
