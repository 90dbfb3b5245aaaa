package assignment

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal/employee"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/pagination"
	"github.com/frahmantamala/workforce-management/internal/project"
)

// Assignment links one employee to one project. The pair is unique; assigning
// twice is a conflict, not an upsert.
type Assignment struct {
	ID         int64     `json:"-" gorm:"primaryKey"`
	EmployeeID int64     `json:"-" gorm:"column:employee_id;not null;uniqueIndex:idx_employee_project"`
	ProjectID  int64     `json:"-" gorm:"column:project_id;not null;uniqueIndex:idx_employee_project"`
	Role       string    `json:"role" gorm:"column:role"`
	AssignedAt time.Time `json:"assigned_at" gorm:"column:assigned_at"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Assignment) TableName() string {
	return "employee_projects"
}

// ProjectMember is one row of a project's member listing, joined with the
// employee it points at.
type ProjectMember struct {
	AssignmentID int64     `gorm:"column:assignment_id"`
	EmployeeID   int64     `gorm:"column:employee_id"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email"`
	JobRole      string    `gorm:"column:job_role"`
	Role         string    `gorm:"column:role"`
	AssignedAt   time.Time `gorm:"column:assigned_at"`
}

// EmployeeProject is one row of an employee's project listing.
type EmployeeProject struct {
	AssignmentID int64     `gorm:"column:assignment_id"`
	ProjectID    int64     `gorm:"column:project_id"`
	Name         string    `gorm:"column:name"`
	Description  string    `gorm:"column:description"`
	Status       string    `gorm:"column:status"`
	Role         string    `gorm:"column:role"`
	AssignedAt   time.Time `gorm:"column:assigned_at"`
}

type ServiceAPI interface {
	Assign(dto AssignDTO) (*AssignmentDTO, error)
	Remove(opaqueID string) error
	ListProjectMembers(opaqueProjectID string, req pagination.Request) (pagination.Response[ProjectMemberDTO], error)
	ListEmployeeProjects(opaqueEmployeeID string, req pagination.Request) (pagination.Response[EmployeeProjectDTO], error)
}

type RepositoryAPI interface {
	Create(assignment *Assignment) error
	GetByID(id int64) (*Assignment, error)
	PairExists(employeeID, projectID int64) (bool, error)
	Delete(id int64) error
	ListByProject(projectID int64, req pagination.Request) ([]ProjectMember, int64, error)
	ListByEmployee(employeeID int64, req pagination.Request) ([]EmployeeProject, int64, error)
}

// EmployeeGetter and ProjectGetter are the slices of the sibling repositories
// this service needs for existence checks and notification content.
type EmployeeGetter interface {
	GetByID(id int64) (*employee.Employee, error)
}

type ProjectGetter interface {
	GetByID(id int64) (*project.Project, error)
}

type MailerAPI interface {
	Enqueue(email notification.Email)
}

// MemberQuerySpec sorts and searches over the joined employee columns.
var MemberQuerySpec = pagination.Spec{
	DefaultSort: "lastName",
	Sortable: map[string]string{
		"firstName":  "employees.first_name",
		"lastName":   "employees.last_name",
		"email":      "employees.email",
		"assignedAt": "employee_projects.assigned_at",
	},
	Searchable: []string{"employees.first_name", "employees.last_name", "employees.email"},
	Select:     "employee_projects.id AS assignment_id, employees.id AS employee_id, employees.first_name, employees.last_name, employees.email, employees.job_role, employee_projects.role, employee_projects.assigned_at",
}

var EmployeeProjectQuerySpec = pagination.Spec{
	DefaultSort: "name",
	Sortable: map[string]string{
		"name":       "projects.name",
		"assignedAt": "employee_projects.assigned_at",
	},
	Searchable: []string{"projects.name", "projects.description"},
	Select:     "employee_projects.id AS assignment_id, projects.id AS project_id, projects.name, projects.description, projects.status, employee_projects.role, employee_projects.assigned_at",
}
