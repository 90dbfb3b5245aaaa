package assignment

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal"
)

type AssignDTO struct {
	EmployeeID string `json:"employee_id"`
	ProjectID  string `json:"project_id"`
	Role       string `json:"role"`
}

func (d *AssignDTO) Validate() error {
	if d.EmployeeID == "" {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	if d.ProjectID == "" {
		return internal.NewValidationError("project_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AssignmentDTO struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	ProjectID  string    `json:"project_id"`
	Role       string    `json:"role,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

type ProjectMemberDTO struct {
	AssignmentID string    `json:"assignment_id"`
	EmployeeID   string    `json:"employee_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	JobRole      string    `json:"job_role"`
	Role         string    `json:"role,omitempty"`
	AssignedAt   time.Time `json:"assigned_at"`
}

type EmployeeProjectDTO struct {
	AssignmentID string    `json:"assignment_id"`
	ProjectID    string    `json:"project_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Role         string    `json:"role,omitempty"`
	AssignedAt   time.Time `json:"assigned_at"`
}
