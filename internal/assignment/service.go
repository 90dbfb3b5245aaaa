package assignment

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/idcodec"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

type Service struct {
	repo      RepositoryAPI
	employees EmployeeGetter
	projects  ProjectGetter
	ids       *idcodec.Codec
	mailer    MailerAPI
	logger    *slog.Logger
}

func NewService(
	repo RepositoryAPI,
	employees EmployeeGetter,
	projects ProjectGetter,
	ids *idcodec.Codec,
	mailer MailerAPI,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		projects:  projects,
		ids:       ids,
		mailer:    mailer,
		logger:    logger,
	}
}

// Assign links an employee to a project. The pair must not already exist; a
// repeat is a conflict. The notification is queued after the write succeeds
// and never blocks or fails the request.
func (s *Service) Assign(dto AssignDTO) (*AssignmentDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employeeID, err := s.ids.Decode(dto.EmployeeID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.ids.Decode(dto.ProjectID)
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, internal.NewUnavailableError("could not load employee", err)
	}
	proj, err := s.projects.GetByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProjectNotFound
		}
		return nil, internal.NewUnavailableError("could not load project", err)
	}

	exists, err := s.repo.PairExists(employeeID, projectID)
	if err != nil {
		return nil, internal.NewUnavailableError("could not check existing assignment", err)
	}
	if exists {
		return nil, internal.NewConflictError(
			"employee is already assigned to this project",
			internal.ErrCodeDuplicateAssignment,
		)
	}

	a := &Assignment{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		Role:       strings.TrimSpace(dto.Role),
		AssignedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(a); err != nil {
		s.logger.Error("failed to create assignment",
			"employee_id", employeeID, "project_id", projectID, "error", err)
		return nil, internal.NewUnavailableError("could not create assignment", err)
	}

	s.logger.Info("employee assigned to project",
		"assignment_id", a.ID, "employee_id", employeeID, "project_id", projectID)

	if s.mailer != nil {
		s.mailer.Enqueue(notification.AssignmentEmail(emp.Email, emp.FullName(), proj.Name))
	}

	return s.toDTO(a)
}

// Remove deletes an assignment by its opaque id and notifies the employee.
func (s *Service) Remove(opaqueID string) error {
	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return err
	}

	a, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrAssignmentNotFound
		}
		return internal.NewUnavailableError("could not load assignment", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete assignment", "assignment_id", id, "error", err)
		return internal.NewUnavailableError("could not delete assignment", err)
	}

	s.logger.Info("employee removed from project",
		"assignment_id", id, "employee_id", a.EmployeeID, "project_id", a.ProjectID)

	if s.mailer != nil {
		emp, empErr := s.employees.GetByID(a.EmployeeID)
		proj, projErr := s.projects.GetByID(a.ProjectID)
		if empErr == nil && projErr == nil {
			s.mailer.Enqueue(notification.UnassignmentEmail(emp.Email, emp.FullName(), proj.Name))
		}
	}

	return nil
}

func (s *Service) ListProjectMembers(opaqueProjectID string, req pagination.Request) (pagination.Response[ProjectMemberDTO], error) {
	projectID, err := s.ids.Decode(opaqueProjectID)
	if err != nil {
		return pagination.Response[ProjectMemberDTO]{}, err
	}

	if _, err := s.projects.GetByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pagination.Response[ProjectMemberDTO]{}, internal.ErrProjectNotFound
		}
		return pagination.Response[ProjectMemberDTO]{}, internal.NewUnavailableError("could not load project", err)
	}

	members, total, err := s.repo.ListByProject(projectID, req)
	if err != nil {
		s.logger.Error("failed to list project members", "project_id", projectID, "error", err)
		return pagination.Response[ProjectMemberDTO]{}, err
	}

	dtos := make([]ProjectMemberDTO, 0, len(members))
	for _, m := range members {
		assignmentID, err := s.ids.Encode(m.AssignmentID)
		if err != nil {
			return pagination.Response[ProjectMemberDTO]{}, internal.NewInternalError("could not encode identifier", err)
		}
		employeeID, err := s.ids.Encode(m.EmployeeID)
		if err != nil {
			return pagination.Response[ProjectMemberDTO]{}, internal.NewInternalError("could not encode identifier", err)
		}
		dtos = append(dtos, ProjectMemberDTO{
			AssignmentID: assignmentID,
			EmployeeID:   employeeID,
			FirstName:    m.FirstName,
			LastName:     m.LastName,
			Email:        m.Email,
			JobRole:      m.JobRole,
			Role:         m.Role,
			AssignedAt:   m.AssignedAt,
		})
	}

	return pagination.NewResponse(req, total, dtos), nil
}

func (s *Service) ListEmployeeProjects(opaqueEmployeeID string, req pagination.Request) (pagination.Response[EmployeeProjectDTO], error) {
	employeeID, err := s.ids.Decode(opaqueEmployeeID)
	if err != nil {
		return pagination.Response[EmployeeProjectDTO]{}, err
	}

	if _, err := s.employees.GetByID(employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pagination.Response[EmployeeProjectDTO]{}, internal.ErrEmployeeNotFound
		}
		return pagination.Response[EmployeeProjectDTO]{}, internal.NewUnavailableError("could not load employee", err)
	}

	rows, total, err := s.repo.ListByEmployee(employeeID, req)
	if err != nil {
		s.logger.Error("failed to list employee projects", "employee_id", employeeID, "error", err)
		return pagination.Response[EmployeeProjectDTO]{}, err
	}

	dtos := make([]EmployeeProjectDTO, 0, len(rows))
	for _, row := range rows {
		assignmentID, err := s.ids.Encode(row.AssignmentID)
		if err != nil {
			return pagination.Response[EmployeeProjectDTO]{}, internal.NewInternalError("could not encode identifier", err)
		}
		projectID, err := s.ids.Encode(row.ProjectID)
		if err != nil {
			return pagination.Response[EmployeeProjectDTO]{}, internal.NewInternalError("could not encode identifier", err)
		}
		dtos = append(dtos, EmployeeProjectDTO{
			AssignmentID: assignmentID,
			ProjectID:    projectID,
			Name:         row.Name,
			Description:  row.Description,
			Status:       row.Status,
			Role:         row.Role,
			AssignedAt:   row.AssignedAt,
		})
	}

	return pagination.NewResponse(req, total, dtos), nil
}

func (s *Service) toDTO(a *Assignment) (*AssignmentDTO, error) {
	id, err := s.ids.Encode(a.ID)
	if err != nil {
		return nil, internal.NewInternalError("could not encode identifier", err)
	}
	employeeID, err := s.ids.Encode(a.EmployeeID)
	if err != nil {
		return nil, internal.NewInternalError("could not encode identifier", err)
	}
	projectID, err := s.ids.Encode(a.ProjectID)
	if err != nil {
		return nil, internal.NewInternalError("could not encode identifier", err)
	}

	return &AssignmentDTO{
		ID:         id,
		EmployeeID: employeeID,
		ProjectID:  projectID,
		Role:       a.Role,
		AssignedAt: a.AssignedAt,
	}, nil
}
