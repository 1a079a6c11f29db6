package repository

import (
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func ownedProjects(ownerID *uint64) func(db *gorm.DB) *gorm.DB {
	return database.OwnedBy("projetos.usuario_id", ownerID)
}

func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// FindByID loads the project together with its owner's name.
func (r *GormProjectRepository) FindByID(id uint64, ownerID *uint64) (*models.Project, error) {
	var project models.Project
	err := r.db.Joins("Owner").
		Where("projetos.id = ?", id).
		Scopes(ownedProjects(ownerID)).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) List(ownerID *uint64, page utils.PaginationParams) ([]models.Project, int64, error) {
	total, err := r.Count(ownerID)
	if err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err = r.db.Joins("Owner").
		Scopes(ownedProjects(ownerID), database.Paginate(page)).
		Order("projetos.id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

func (r *GormProjectRepository) Delete(id uint64, ownerID *uint64) error {
	res := r.db.Where("projetos.id = ?", id).
		Scopes(ownedProjects(ownerID)).
		Delete(&models.Project{})
	return affected(res)
}

func (r *GormProjectRepository) Count(ownerID *uint64) (int64, error) {
	var total int64
	err := r.db.Model(&models.Project{}).
		Scopes(ownedProjects(ownerID)).
		Count(&total).Error
	return total, err
}
