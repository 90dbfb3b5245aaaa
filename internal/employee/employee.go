package employee

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

// Employee is the identity record. Every employee also owns exactly one
// shadow auth record (auth.User) linked by users.employee_id; the repository
// keeps both in step inside one transaction.
type Employee struct {
	ID           int64      `json:"-" gorm:"primaryKey"`
	FirstName    string     `json:"first_name" gorm:"column:first_name;not null"`
	LastName     string     `json:"last_name" gorm:"column:last_name"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string     `json:"phone"`
	JobRole      string     `json:"job_role" gorm:"column:job_role"`
	SystemRole   string     `json:"system_role" gorm:"column:system_role;not null;default:Employee"`
	Salary       float64    `json:"salary"`
	HireDate     *time.Time `json:"hire_date" gorm:"column:hire_date"`
	DepartmentID *int64     `json:"-" gorm:"column:department_id"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Filter narrows a listing before pagination applies. Zero values mean no
// constraint.
type Filter struct {
	DepartmentID int64
	JobRole      string
	SystemRole   string
}

type ServiceAPI interface {
	List(req pagination.Request, filter FilterDTO) (pagination.Response[EmployeeDTO], error)
	Get(opaqueID string) (*EmployeeDTO, error)
	Create(dto CreateEmployeeDTO) (*EmployeeDTO, error)
	Update(opaqueID string, dto UpdateEmployeeDTO) (*EmployeeDTO, error)
	Delete(opaqueID string) error
}

type RepositoryAPI interface {
	List(req pagination.Request, filter Filter) ([]Employee, int64, error)
	GetByID(id int64) (*Employee, error)
	CreateWithUser(employee *Employee, user *auth.User) error
	UpdateSynced(employee *Employee) error
	DeleteWithUser(id int64) error
	EmailInUse(email string, excludeEmployeeID int64) (bool, error)
	DepartmentExists(departmentID int64) (bool, error)
}

type MailerAPI interface {
	Enqueue(email notification.Email)
}

var QuerySpec = pagination.Spec{
	DefaultSort: "lastName",
	Sortable: map[string]string{
		"firstName": "first_name",
		"lastName":  "last_name",
		"email":     "email",
		"jobRole":   "job_role",
		"salary":    "salary",
		"hireDate":  "hire_date",
		"createdAt": "created_at",
	},
	Searchable: []string{"first_name", "last_name", "email", "job_role"},
}
