package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal/department"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// detailQuery joins the manager row so listings and reads can carry the
// manager's name without a second round trip.
func (r *Repository) detailQuery() *gorm.DB {
	return r.db.Table("departments").
		Joins("LEFT JOIN employees managers ON managers.id = departments.manager_id")
}

func (r *Repository) List(req pagination.Request) ([]department.Detail, int64, error) {
	return pagination.Run[department.Detail](r.detailQuery(), req, department.QuerySpec)
}

func (r *Repository) GetByID(id int64) (*department.Department, error) {
	var dept department.Department
	if err := r.db.First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *Repository) GetDetail(id int64) (*department.Detail, error) {
	var detail department.Detail
	err := r.detailQuery().
		Select(department.QuerySpec.Select).
		Where("departments.id = ?", id).
		Take(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *Repository) Create(dept *department.Department) error {
	return r.db.Create(dept).Error
}

func (r *Repository) Update(dept *department.Department) error {
	return r.db.Save(dept).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&department.Department{}, id).Error
}

func (r *Repository) EmployeeCount(departmentID int64) (int64, error) {
	var count int64
	err := r.db.Table("employees").
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

func (r *Repository) EmployeeExists(employeeID int64) (bool, error) {
	var count int64
	err := r.db.Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
