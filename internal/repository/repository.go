package repository

import (
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// Scoped operations take an ownerID: when non-nil the SQL statement gets an
// equality filter on the owning column, when nil the query is unscoped.
// A scoped miss returns gorm.ErrRecordNotFound whether the row is absent or
// belongs to someone else.

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List(page utils.PaginationParams) ([]models.User, int64, error)
	Update(user *models.User) error
	UpdatePassword(id uint64, hash string) error
	UpdateRole(email, role string) error
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uint64, ownerID *uint64) (*models.Project, error)
	List(ownerID *uint64, page utils.PaginationParams) ([]models.Project, int64, error)
	Update(project *models.Project) error
	Delete(id uint64, ownerID *uint64) error
	Count(ownerID *uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint64, responsibleID *uint64) (*models.Task, error)
	List(filter TaskFilter) ([]models.Task, int64, error)
	Update(task *models.Task) error
	SetCompleted(id uint64, responsibleID *uint64, completed bool, status string) error
	Delete(id uint64, responsibleID *uint64) error
	Stats(responsibleID *uint64) (*TaskStats, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ResponsibleID *uint64
	AssignerID    *uint64
	ProjectID     *uint64
	Status        *string
	Priority      *string
	Completed     *bool
	// ExcludeSelfAssigned drops tasks whose responsible is the assigner.
	ExcludeSelfAssigned bool
	Page                utils.PaginationParams
}

// TaskStats is the dashboard aggregate for a responsible user.
type TaskStats struct {
	Total        int64            `json:"total"`
	Completed    int64            `json:"concluidas"`
	Pending      int64            `json:"pendentes"`
	Urgent       int64            `json:"urgentes"`
	HighPriority int64            `json:"prioridade_alta"`
	ByStatus     map[string]int64 `json:"por_status"`
	ByPriority   map[string]int64 `json:"por_prioridade"`
}
