package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal/pagination"
	"github.com/frahmantamala/workforce-management/internal/project"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(req pagination.Request, status string) ([]project.Project, int64, error) {
	query := r.db.Model(&project.Project{})
	if status != "" {
		query = query.Where("LOWER(status) = LOWER(?)", status)
	}
	return pagination.Run[project.Project](query, req, project.QuerySpec)
}

func (r *Repository) GetByID(id int64) (*project.Project, error) {
	var proj project.Project
	if err := r.db.First(&proj, id).Error; err != nil {
		return nil, err
	}
	return &proj, nil
}

func (r *Repository) Create(proj *project.Project) error {
	return r.db.Create(proj).Error
}

func (r *Repository) Update(proj *project.Project) error {
	return r.db.Save(proj).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&project.Project{}, id).Error
}

func (r *Repository) AssignmentCount(projectID int64) (int64, error) {
	var count int64
	err := r.db.Table("employee_projects").
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
