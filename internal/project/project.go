package project

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal/pagination"
)

type Project struct {
	ID          int64      `json:"-" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date" gorm:"column:start_date"`
	EndDate     *time.Time `json:"end_date" gorm:"column:end_date"`
	Status      string     `json:"status" gorm:"not null;default:Active"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

type ServiceAPI interface {
	List(req pagination.Request, status string) (pagination.Response[ProjectDTO], error)
	Get(opaqueID string) (*ProjectDTO, error)
	Create(dto CreateProjectDTO) (*ProjectDTO, error)
	Update(opaqueID string, dto UpdateProjectDTO) (*ProjectDTO, error)
	Delete(opaqueID string) error
}

type RepositoryAPI interface {
	List(req pagination.Request, status string) ([]Project, int64, error)
	GetByID(id int64) (*Project, error)
	Create(project *Project) error
	Update(project *Project) error
	Delete(id int64) error
	AssignmentCount(projectID int64) (int64, error)
}

var QuerySpec = pagination.Spec{
	DefaultSort: "name",
	Sortable: map[string]string{
		"name":      "name",
		"startDate": "start_date",
		"endDate":   "end_date",
		"status":    "status",
		"createdAt": "created_at",
	},
	Searchable: []string{"name", "description", "status"},
}
