package project

import (
	"strings"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
)

type ProjectDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DefaultStatus is assigned when a project is created without one.
const DefaultStatus = "Active"

type CreateProjectDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status"`
}

func (d *CreateProjectDTO) Validate() error {
	return validateProjectFields(d.Name, d.StartDate, d.EndDate)
}

type UpdateProjectDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status"`
}

func (d *UpdateProjectDTO) Validate() error {
	if strings.TrimSpace(d.Status) == "" {
		return internal.NewValidationError("status is required", internal.ErrCodeValidationFailed)
	}
	return validateProjectFields(d.Name, d.StartDate, d.EndDate)
}

func validateProjectFields(name string, start, end *time.Time) error {
	if strings.TrimSpace(name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if len(name) > 150 {
		return internal.NewValidationError("name must be at most 150 characters", internal.ErrCodeValidationFailed)
	}
	if start != nil && end != nil && end.Before(*start) {
		return internal.NewValidationError("end_date must not precede start_date", internal.ErrCodeValidationFailed)
	}
	return nil
}
