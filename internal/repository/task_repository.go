package repository

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func ownedTasks(responsibleID *uint64) func(db *gorm.DB) *gorm.DB {
	return database.OwnedBy("tarefas.usuario_responsavel_id", responsibleID)
}

// withNames joins the project, responsible and assigner rows for display names.
func (r *GormTaskRepository) withNames() *gorm.DB {
	return r.db.Joins("Project").Joins("Responsible").Joins("Assigner")
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID, scoped to the responsible user when set
func (r *GormTaskRepository) FindByID(id uint64, responsibleID *uint64) (*models.Task, error) {
	var task models.Task
	err := r.withNames().
		Where("tarefas.id = ?", id).
		Scopes(ownedTasks(responsibleID)).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	apply := func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(ownedTasks(filter.ResponsibleID))
		if filter.AssignerID != nil {
			db = db.Where("tarefas.usuario_atribuidor_id = ?", *filter.AssignerID)
		}
		if filter.ExcludeSelfAssigned {
			db = db.Where("tarefas.usuario_responsavel_id <> tarefas.usuario_atribuidor_id")
		}
		if filter.ProjectID != nil {
			db = db.Where("tarefas.projeto_id = ?", *filter.ProjectID)
		}
		if filter.Status != nil {
			db = db.Where("tarefas.status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			db = db.Where("tarefas.prioridade = ?", *filter.Priority)
		}
		if filter.Completed != nil {
			db = db.Where("tarefas.concluida = ?", *filter.Completed)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&models.Task{}).Scopes(apply).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := r.withNames().
		Scopes(apply, database.Paginate(filter.Page)).
		Order("CASE WHEN tarefas.data_limite IS NULL THEN 1 ELSE 0 END, tarefas.data_limite ASC, tarefas.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// SetCompleted writes the completion flag and matching status in one statement.
func (r *GormTaskRepository) SetCompleted(id uint64, responsibleID *uint64, completed bool, status string) error {
	res := r.db.Model(&models.Task{}).
		Where("tarefas.id = ?", id).
		Scopes(ownedTasks(responsibleID)).
		Updates(map[string]interface{}{
			"concluida": completed,
			"status":    status,
		})
	return affected(res)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64, responsibleID *uint64) error {
	res := r.db.Where("tarefas.id = ?", id).
		Scopes(ownedTasks(responsibleID)).
		Delete(&models.Task{})
	return affected(res)
}

type groupCount struct {
	GroupKey string
	Total    int64
}

// Stats aggregates the dashboard counters.
func (r *GormTaskRepository) Stats(responsibleID *uint64) (*TaskStats, error) {
	base := sq.Select().From("tarefas")
	if responsibleID != nil {
		base = base.Where(sq.Eq{"usuario_responsavel_id": *responsibleID})
	}

	query, args, err := base.
		Column("COUNT(*) AS total").
		Column("COALESCE(SUM(CASE WHEN concluida = ? THEN 1 ELSE 0 END), 0) AS completed", true).
		Column("COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS urgent", constants.TaskStatusUrgent).
		Column("COALESCE(SUM(CASE WHEN prioridade = ? THEN 1 ELSE 0 END), 0) AS high_priority", constants.TaskPriorityHigh).
		ToSql()
	if err != nil {
		return nil, err
	}

	var totals struct {
		Total        int64
		Completed    int64
		Urgent       int64
		HighPriority int64
	}
	if err := r.db.Raw(query, args...).Scan(&totals).Error; err != nil {
		return nil, err
	}

	byStatus, err := r.groupCounts(base, "status")
	if err != nil {
		return nil, err
	}
	byPriority, err := r.groupCounts(base, "prioridade")
	if err != nil {
		return nil, err
	}

	return &TaskStats{
		Total:        totals.Total,
		Completed:    totals.Completed,
		Pending:      totals.Total - totals.Completed,
		Urgent:       totals.Urgent,
		HighPriority: totals.HighPriority,
		ByStatus:     byStatus,
		ByPriority:   byPriority,
	}, nil
}

func (r *GormTaskRepository) groupCounts(base sq.SelectBuilder, column string) (map[string]int64, error) {
	query, args, err := base.
		Column(column + " AS group_key").
		Column("COUNT(*) AS total").
		GroupBy(column).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []groupCount
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Total
	}
	return counts, nil
}
