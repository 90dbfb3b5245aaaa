package department

import (
	"strings"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
)

// DepartmentDTO is the outward shape. ID and ManagerID are opaque tokens,
// never the storage keys.
type DepartmentDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ManagerID     *string   `json:"manager_id,omitempty"`
	ManagerName   *string   `json:"manager_name,omitempty"`
	EmployeeCount int64     `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id"`
}

func (d *CreateDepartmentDTO) Validate() error {
	return validateDepartmentFields(d.Name, d.Description)
}

type UpdateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id"`
}

func (d *UpdateDepartmentDTO) Validate() error {
	return validateDepartmentFields(d.Name, d.Description)
}

func validateDepartmentFields(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if len(name) > 100 {
		return internal.NewValidationError("name must be at most 100 characters", internal.ErrCodeValidationFailed)
	}
	if len(description) > 500 {
		return internal.NewValidationError("description must be at most 500 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
