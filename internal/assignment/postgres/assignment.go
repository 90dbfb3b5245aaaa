package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal/assignment"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(a *assignment.Assignment) error {
	return r.db.Create(a).Error
}

func (r *Repository) GetByID(id int64) (*assignment.Assignment, error) {
	var a assignment.Assignment
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) PairExists(employeeID, projectID int64) (bool, error) {
	var count int64
	err := r.db.Model(&assignment.Assignment{}).
		Where("employee_id = ? AND project_id = ?", employeeID, projectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&assignment.Assignment{}, id).Error
}

func (r *Repository) ListByProject(projectID int64, req pagination.Request) ([]assignment.ProjectMember, int64, error) {
	query := r.db.Table("employee_projects").
		Joins("JOIN employees ON employees.id = employee_projects.employee_id").
		Where("employee_projects.project_id = ?", projectID)

	return pagination.Run[assignment.ProjectMember](query, req, assignment.MemberQuerySpec)
}

func (r *Repository) ListByEmployee(employeeID int64, req pagination.Request) ([]assignment.EmployeeProject, int64, error) {
	query := r.db.Table("employee_projects").
		Joins("JOIN projects ON projects.id = employee_projects.project_id").
		Where("employee_projects.employee_id = ?", employeeID)

	return pagination.Run[assignment.EmployeeProject](query, req, assignment.EmployeeProjectQuerySpec)
}
