package employee

import (
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/idcodec"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/pagination"
	"github.com/frahmantamala/workforce-management/internal/role"
)

type Service struct {
	repo       RepositoryAPI
	ids        *idcodec.Codec
	mailer     MailerAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, ids *idcodec.Codec, mailer MailerAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		ids:        ids,
		mailer:     mailer,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(req pagination.Request, filterDTO FilterDTO) (pagination.Response[EmployeeDTO], error) {
	filter, err := s.resolveFilter(filterDTO)
	if err != nil {
		return pagination.Response[EmployeeDTO]{}, err
	}

	employees, total, err := s.repo.List(req, filter)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return pagination.Response[EmployeeDTO]{}, err
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for i := range employees {
		dto, err := s.toDTO(&employees[i])
		if err != nil {
			return pagination.Response[EmployeeDTO]{}, err
		}
		dtos = append(dtos, *dto)
	}

	return pagination.NewResponse(req, total, dtos), nil
}

func (s *Service) Get(opaqueID string) (*EmployeeDTO, error) {
	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, internal.NewUnavailableError("could not load employee", err)
	}

	return s.toDTO(emp)
}

// Create stores the employee and its shadow auth record in one transaction;
// either both exist afterwards or neither does. The welcome email is queued
// only after the transaction commits.
func (s *Service) Create(dto CreateEmployeeDTO) (*EmployeeDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	systemRole, err := role.Canonicalize(dto.SystemRole)
	if err != nil {
		return nil, err
	}

	departmentID, err := s.resolveDepartment(dto.DepartmentID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	inUse, err := s.repo.EmailInUse(email, 0)
	if err != nil {
		return nil, internal.NewUnavailableError("could not check email availability", err)
	}
	if inUse {
		return nil, internal.ErrDuplicateEmail
	}

	passwordHash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("could not process password", err)
	}

	emp := &Employee{
		FirstName:    strings.TrimSpace(dto.FirstName),
		LastName:     strings.TrimSpace(dto.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(dto.Phone),
		JobRole:      strings.TrimSpace(dto.JobRole),
		SystemRole:   string(systemRole),
		Salary:       dto.Salary,
		HireDate:     dto.HireDate,
		DepartmentID: departmentID,
	}
	user := &auth.User{
		Username:     emp.FullName(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(systemRole),
	}

	if err := s.repo.CreateWithUser(emp, user); err != nil {
		s.logger.Error("failed to create employee", "email", email, "error", err)
		return nil, internal.NewUnavailableError("could not create employee", err)
	}

	s.logger.Info("employee created",
		"employee_id", emp.ID,
		"user_id", user.ID,
		"system_role", emp.SystemRole)

	if s.mailer != nil {
		s.mailer.Enqueue(notification.WelcomeEmail(emp.Email, emp.FullName()))
	}

	return s.toDTO(emp)
}

// Update rewrites the employee and propagates email, name and role to the
// linked auth record in the same transaction.
func (s *Service) Update(opaqueID string, dto UpdateEmployeeDTO) (*EmployeeDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	systemRole, err := role.Canonicalize(dto.SystemRole)
	if err != nil {
		return nil, err
	}

	departmentID, err := s.resolveDepartment(dto.DepartmentID)
	if err != nil {
		return nil, err
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, internal.NewUnavailableError("could not load employee", err)
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email != emp.Email {
		inUse, err := s.repo.EmailInUse(email, emp.ID)
		if err != nil {
			return nil, internal.NewUnavailableError("could not check email availability", err)
		}
		if inUse {
			return nil, internal.ErrDuplicateEmail
		}
	}

	emp.FirstName = strings.TrimSpace(dto.FirstName)
	emp.LastName = strings.TrimSpace(dto.LastName)
	emp.Email = email
	emp.Phone = strings.TrimSpace(dto.Phone)
	emp.JobRole = strings.TrimSpace(dto.JobRole)
	emp.SystemRole = string(systemRole)
	emp.Salary = dto.Salary
	emp.HireDate = dto.HireDate
	emp.DepartmentID = departmentID

	if err := s.repo.UpdateSynced(emp); err != nil {
		s.logger.Error("failed to update employee", "employee_id", emp.ID, "error", err)
		return nil, internal.NewUnavailableError("could not update employee", err)
	}

	return s.toDTO(emp)
}

// Delete removes the employee and its shadow auth record together.
func (s *Service) Delete(opaqueID string) error {
	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrEmployeeNotFound
		}
		return internal.NewUnavailableError("could not load employee", err)
	}

	if err := s.repo.DeleteWithUser(id); err != nil {
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return internal.NewUnavailableError("could not delete employee", err)
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

func (s *Service) resolveFilter(dto FilterDTO) (Filter, error) {
	filter := Filter{JobRole: strings.TrimSpace(dto.JobRole)}

	if dto.DepartmentID != "" {
		departmentID, err := s.ids.Decode(dto.DepartmentID)
		if err != nil {
			return Filter{}, err
		}
		filter.DepartmentID = departmentID
	}

	if strings.TrimSpace(dto.SystemRole) != "" {
		systemRole, err := role.Canonicalize(dto.SystemRole)
		if err != nil {
			return Filter{}, err
		}
		filter.SystemRole = string(systemRole)
	}

	return filter, nil
}

// resolveDepartment turns an optional opaque token into a storage key. An
// absent token means no department, stored as NULL.
func (s *Service) resolveDepartment(opaqueID string) (*int64, error) {
	if opaqueID == "" {
		return nil, nil
	}

	departmentID, err := s.ids.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.DepartmentExists(departmentID)
	if err != nil {
		return nil, internal.NewUnavailableError("could not verify department", err)
	}
	if !exists {
		return nil, internal.ErrDepartmentNotFound
	}

	return &departmentID, nil
}

func (s *Service) toDTO(emp *Employee) (*EmployeeDTO, error) {
	opaqueID, err := s.ids.Encode(emp.ID)
	if err != nil {
		s.logger.Error("failed to encode employee id", "employee_id", emp.ID, "error", err)
		return nil, internal.NewInternalError("could not encode identifier", err)
	}

	dto := &EmployeeDTO{
		ID:         opaqueID,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Email:      emp.Email,
		Phone:      emp.Phone,
		JobRole:    emp.JobRole,
		SystemRole: emp.SystemRole,
		Salary:     emp.Salary,
		HireDate:   emp.HireDate,
		CreatedAt:  emp.CreatedAt,
		UpdatedAt:  emp.UpdatedAt,
	}

	if emp.DepartmentID != nil {
		opaqueDept, err := s.ids.Encode(*emp.DepartmentID)
		if err != nil {
			return nil, internal.NewInternalError("could not encode identifier", err)
		}
		dto.DepartmentID = opaqueDept
	}

	return dto, nil
}
