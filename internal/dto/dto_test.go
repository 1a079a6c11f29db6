package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/models"
)

func TestToTaskDTO_NamesAndDates(t *testing.T) {
	due := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	pid := uint64(3)
	task := &models.Task{
		ID:            1,
		Title:         "Revisar",
		DueDate:       &due,
		ProjectID:     &pid,
		ResponsibleID: 2,
		AssignerID:    4,
		Project:       &models.Project{ID: 3, Name: "Portal"},
		Responsible:   models.User{ID: 2, Name: "Bob"},
		Assigner:      models.User{ID: 4, Name: "Ana"},
	}

	raw, err := json.Marshal(ToTaskDTO(task))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2025-11-05", got["data_limite"])
	assert.Nil(t, got["data_inicio"])
	assert.Equal(t, "Portal", got["projeto_nome"])
	assert.Equal(t, "Bob", got["responsavel_nome"])
	assert.Equal(t, "Ana", got["atribuidor_nome"])
}

func TestToTaskDTO_NoProject(t *testing.T) {
	d := ToTaskDTO(&models.Task{ID: 1, Title: "Solta"})
	assert.Nil(t, d.ProjectID)
	assert.Nil(t, d.ProjectName)
}

func TestUserDTO_OmitsHash(t *testing.T) {
	raw, err := json.Marshal(ToUserDTO(&models.User{ID: 1, Name: "Ana", PasswordHash: "secret"}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "senha")
}

func TestListResponse_Page(t *testing.T) {
	resp := ToProjectListResponse([]models.Project{{ID: 1, Name: "Portal", Owner: models.User{Name: "Ana"}}}, Page{Total: 7, Page: 2, Limit: 1})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"projetos":[{"id":1,"nome":"Portal","descricao":null,"data_inicio":null,"data_fim":null,"status":"","usuario_id":0,"usuario_nome":"Ana","created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"}],"total":7,"page":2,"limit":1}`, string(raw))
}
