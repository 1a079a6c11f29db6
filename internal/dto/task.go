package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/validation"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"titulo"`
	Description     *string   `json:"descricao"`
	Status          string    `json:"status"`
	Priority        string    `json:"prioridade"`
	Completed       bool      `json:"concluida"`
	DueDate         *string   `json:"data_limite"`
	StartDate       *string   `json:"data_inicio"`
	EndDate         *string   `json:"data_fim"`
	ProjectID       *uint64   `json:"projeto_id"`
	ProjectName     *string   `json:"projeto_nome"`
	ResponsibleID   uint64    `json:"usuario_responsavel_id"`
	ResponsibleName string    `json:"responsavel_nome"`
	AssignerID      uint64    `json:"usuario_atribuidor_id"`
	AssignerName    string    `json:"atribuidor_nome"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TaskListResponse represents a page of tasks
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tarefas"`
	Page
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task *models.Task) TaskDTO {
	d := TaskDTO{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		Priority:        task.Priority,
		Completed:       task.Completed,
		DueDate:         validation.FormatDate(task.DueDate),
		StartDate:       validation.FormatDate(task.StartDate),
		EndDate:         validation.FormatDate(task.EndDate),
		ProjectID:       task.ProjectID,
		ResponsibleID:   task.ResponsibleID,
		ResponsibleName: task.Responsible.Name,
		AssignerID:      task.AssignerID,
		AssignerName:    task.Assigner.Name,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}

	// Project is left nil by the join when projeto_id is null
	if task.Project != nil && task.ProjectID != nil {
		name := task.Project.Name
		d.ProjectName = &name
	}

	return d
}

// ToTaskListResponse converts a page of tasks
func ToTaskListResponse(tasks []models.Task, page Page) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i := range tasks {
		items[i] = ToTaskDTO(&tasks[i])
	}
	return TaskListResponse{Tasks: items, Page: page}
}
