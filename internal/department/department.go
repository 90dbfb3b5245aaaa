package department

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal/pagination"
)

type Department struct {
	ID          int64     `json:"-" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	ManagerID   *int64    `json:"-" gorm:"column:manager_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

// Detail is the read shape: the department row plus the manager's name and
// the live employee headcount, both computed in the store.
type Detail struct {
	ID            int64     `gorm:"column:id"`
	Name          string    `gorm:"column:name"`
	Description   string    `gorm:"column:description"`
	ManagerID     *int64    `gorm:"column:manager_id"`
	ManagerName   *string   `gorm:"column:manager_name"`
	EmployeeCount int64     `gorm:"column:employee_count"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

type ServiceAPI interface {
	List(req pagination.Request) (pagination.Response[DepartmentDTO], error)
	Get(opaqueID string) (*DepartmentDTO, error)
	Create(dto CreateDepartmentDTO) (*DepartmentDTO, error)
	Update(opaqueID string, dto UpdateDepartmentDTO) (*DepartmentDTO, error)
	Delete(opaqueID string) error
}

type RepositoryAPI interface {
	List(req pagination.Request) ([]Detail, int64, error)
	GetByID(id int64) (*Department, error)
	GetDetail(id int64) (*Detail, error)
	Create(department *Department) error
	Update(department *Department) error
	Delete(id int64) error
	EmployeeCount(departmentID int64) (int64, error)
	EmployeeExists(employeeID int64) (bool, error)
}

// QuerySpec is the list-shape contract for departments: which fields sort,
// which columns search covers. Columns are table-qualified because the
// listing joins the manager row.
var QuerySpec = pagination.Spec{
	DefaultSort: "name",
	Sortable: map[string]string{
		"name":          "departments.name",
		"employeeCount": "employee_count",
		"createdAt":     "departments.created_at",
	},
	Searchable: []string{"departments.name", "departments.description"},
	Select: "departments.id, departments.name, departments.description, departments.manager_id, " +
		"managers.first_name || ' ' || managers.last_name AS manager_name, " +
		"(SELECT COUNT(*) FROM employees WHERE employees.department_id = departments.id) AS employee_count, " +
		"departments.created_at, departments.updated_at",
}
