package employee

import (
	"strings"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
)

// EmployeeDTO is the outward shape. Both identifiers are opaque tokens.
type EmployeeDTO struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	JobRole      string     `json:"job_role"`
	SystemRole   string     `json:"system_role"`
	Salary       float64    `json:"salary"`
	HireDate     *time.Time `json:"hire_date"`
	DepartmentID string     `json:"department_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FilterDTO is the raw filter input from the query string; identifiers are
// still opaque and roles still free text.
type FilterDTO struct {
	DepartmentID string
	JobRole      string
	SystemRole   string
}

type CreateEmployeeDTO struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	JobRole      string     `json:"job_role"`
	SystemRole   string     `json:"system_role"`
	Salary       float64    `json:"salary"`
	HireDate     *time.Time `json:"hire_date"`
	DepartmentID string     `json:"department_id"`
	Password     string     `json:"password"`
}

func (d *CreateEmployeeDTO) Validate() error {
	if strings.TrimSpace(d.FirstName) == "" {
		return internal.NewValidationError("first_name is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("email format is invalid", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if d.Salary < 0 {
		return internal.NewValidationError("salary must not be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateEmployeeDTO struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	JobRole      string     `json:"job_role"`
	SystemRole   string     `json:"system_role"`
	Salary       float64    `json:"salary"`
	HireDate     *time.Time `json:"hire_date"`
	DepartmentID string     `json:"department_id"`
}

func (d *UpdateEmployeeDTO) Validate() error {
	if strings.TrimSpace(d.FirstName) == "" {
		return internal.NewValidationError("first_name is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("email format is invalid", internal.ErrCodeValidationFailed)
	}
	if d.Salary < 0 {
		return internal.NewValidationError("salary must not be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}
