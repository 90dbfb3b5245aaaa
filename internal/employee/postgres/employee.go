package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/employee"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(req pagination.Request, filter employee.Filter) ([]employee.Employee, int64, error) {
	query := r.db.Model(&employee.Employee{})
	if filter.DepartmentID != 0 {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.JobRole != "" {
		query = query.Where("LOWER(job_role) = LOWER(?)", filter.JobRole)
	}
	if filter.SystemRole != "" {
		query = query.Where("system_role = ?", filter.SystemRole)
	}

	return pagination.Run[employee.Employee](query, req, employee.QuerySpec)
}

func (r *Repository) GetByID(id int64) (*employee.Employee, error) {
	var emp employee.Employee
	if err := r.db.First(&emp, id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// CreateWithUser inserts the employee and its shadow auth record in one
// transaction, linking the user back by employee_id.
func (r *Repository) CreateWithUser(emp *employee.Employee, user *auth.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(emp).Error; err != nil {
			return err
		}
		user.EmployeeID = &emp.ID
		return tx.Create(user).Error
	})
}

// UpdateSynced rewrites the employee row and pushes email, username and role
// onto the linked auth record inside the same transaction.
func (r *Repository) UpdateSynced(emp *employee.Employee) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(emp).Error; err != nil {
			return err
		}
		return tx.Model(&auth.User{}).
			Where("employee_id = ?", emp.ID).
			Updates(map[string]interface{}{
				"email":    emp.Email,
				"username": emp.FullName(),
				"role":     emp.SystemRole,
			}).Error
	})
}

// DeleteWithUser removes both records together. The FK also cascades, but
// deleting explicitly keeps the behavior identical on databases that do not
// enforce it.
func (r *Repository) DeleteWithUser(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&auth.User{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employee.Employee{}, id).Error
	})
}

// EmailInUse checks both the employees and the users table, so an address
// held by a self-registered account also counts as taken.
func (r *Repository) EmailInUse(email string, excludeEmployeeID int64) (bool, error) {
	var count int64

	empQuery := r.db.Model(&employee.Employee{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeEmployeeID != 0 {
		empQuery = empQuery.Where("id != ?", excludeEmployeeID)
	}
	if err := empQuery.Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	userQuery := r.db.Model(&auth.User{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeEmployeeID != 0 {
		userQuery = userQuery.Where("(employee_id IS NULL OR employee_id != ?)", excludeEmployeeID)
	}
	if err := userQuery.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) DepartmentExists(departmentID int64) (bool, error) {
	var count int64
	err := r.db.Table("departments").Where("id = ?", departmentID).Count(&count).Error
	return count > 0, err
}
