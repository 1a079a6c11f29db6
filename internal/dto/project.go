package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/validation"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"nome"`
	Description *string   `json:"descricao"`
	StartDate   *string   `json:"data_inicio"`
	EndDate     *string   `json:"data_fim"`
	Status      string    `json:"status"`
	UserID      uint64    `json:"usuario_id"`
	UserName    string    `json:"usuario_nome"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectListResponse represents a page of projects
type ProjectListResponse struct {
	Projects []ProjectDTO `json:"projetos"`
	Page
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(p *models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   validation.FormatDate(p.StartDate),
		EndDate:     validation.FormatDate(p.EndDate),
		Status:      p.Status,
		UserID:      p.UserID,
		UserName:    p.Owner.Name,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectListResponse(projects []models.Project, page Page) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i := range projects {
		items[i] = ToProjectDTO(&projects[i])
	}
	return ProjectListResponse{Projects: items, Page: page}
}
