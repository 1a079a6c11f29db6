package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"github.com/yukikurage/project-task-api/internal/validation"
	"gorm.io/gorm"
)

// ProjectService handles project business logic. Every method taking an
// ownerID scopes the underlying query to that owner; nil is unscoped.
type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
	}
}

func buildProject(fields Payload) (*models.Project, error) {
	name, err := validation.RequiredString("nome", fields["nome"], constants.MinProjectNameLength)
	if err != nil {
		return nil, invalid(err)
	}
	description, err := validation.OptionalString("descricao", fields["descricao"])
	if err != nil {
		return nil, invalid(err)
	}
	start, err := validation.Date("data_inicio", fields["data_inicio"])
	if err != nil {
		return nil, invalid(err)
	}
	end, err := validation.Date("data_fim", fields["data_fim"])
	if err != nil {
		return nil, invalid(err)
	}

	status := constants.ProjectStatuses[0]
	if fields.has("status") {
		if status, err = validation.OneOf("status", fields["status"], constants.ProjectStatuses); err != nil {
			return nil, invalid(err)
		}
	}

	return &models.Project{
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
	}, nil
}

func projectFields(p *models.Project) Payload {
	return Payload{
		"nome":        p.Name,
		"descricao":   stringOrNil(p.Description),
		"data_inicio": timeOrNil(p.StartDate),
		"data_fim":    timeOrNil(p.EndDate),
		"status":      p.Status,
	}
}

// Create stores a project owned by ownerID; a client-supplied usuario_id is ignored.
func (s *ProjectService) Create(ownerID uint64, p Payload) (*models.Project, error) {
	project, err := buildProject(p)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOwner(ownerID); err != nil {
		return nil, err
	}

	project.UserID = ownerID
	if err := s.projects.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return s.Get(project.ID, &ownerID)
}

func (s *ProjectService) Get(id uint64, ownerID *uint64) (*models.Project, error) {
	project, err := s.projects.FindByID(id, ownerID)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound, "find project")
	}
	return project, nil
}

func (s *ProjectService) List(ownerID *uint64, page utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projects.List(ownerID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// ListByUser is the admin view of another user's projects.
func (s *ProjectService) ListByUser(userID uint64, page utils.PaginationParams) ([]models.Project, int64, error) {
	if _, err := s.users.FindByID(userID); err != nil {
		return nil, 0, notFound(err, ErrUserNotFound, "find user")
	}
	return s.List(&userID, page)
}

// Update merges p into the stored project and re-validates the result.
func (s *ProjectService) Update(id uint64, ownerID *uint64, p Payload) (*models.Project, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPayload
	}

	existing, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	updated, err := buildProject(merge(projectFields(existing), p.withoutNulls("status")))
	if err != nil {
		return nil, err
	}
	if err := s.ensureOwner(existing.UserID); err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	if err := s.projects.Update(updated); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.Get(id, ownerID)
}

func (s *ProjectService) Delete(id uint64, ownerID *uint64) error {
	if err := s.projects.Delete(id, ownerID); err != nil {
		return notFound(err, ErrProjectNotFound, "delete project")
	}
	return nil
}

func (s *ProjectService) Count(ownerID *uint64) (int64, error) {
	total, err := s.projects.Count(ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return total, nil
}

// ensureOwner fails closed: any lookup error blocks the write.
func (s *ProjectService) ensureOwner(userID uint64) error {
	if _, err := s.users.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return missingReference("Usuário", "usuario_id", userID)
		}
		return fmt.Errorf("failed to find owner: %w", err)
	}
	return nil
}
