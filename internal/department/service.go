package department

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/idcodec"
	"github.com/frahmantamala/workforce-management/internal/pagination"
)

type Service struct {
	repo   RepositoryAPI
	ids    *idcodec.Codec
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, ids *idcodec.Codec, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ids:    ids,
		logger: logger,
	}
}

func (s *Service) List(req pagination.Request) (pagination.Response[DepartmentDTO], error) {
	details, total, err := s.repo.List(req)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return pagination.Response[DepartmentDTO]{}, err
	}

	dtos := make([]DepartmentDTO, 0, len(details))
	for i := range details {
		dto, err := s.toDTO(&details[i])
		if err != nil {
			return pagination.Response[DepartmentDTO]{}, err
		}
		dtos = append(dtos, *dto)
	}

	return pagination.NewResponse(req, total, dtos), nil
}

func (s *Service) Get(opaqueID string) (*DepartmentDTO, error) {
	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.GetDetail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDepartmentNotFound
		}
		return nil, internal.NewUnavailableError("could not load department", err)
	}

	return s.toDTO(detail)
}

func (s *Service) Create(dto CreateDepartmentDTO) (*DepartmentDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	managerID, err := s.resolveManager(dto.ManagerID)
	if err != nil {
		return nil, err
	}

	dept := &Department{
		Name:        strings.TrimSpace(dto.Name),
		Description: strings.TrimSpace(dto.Description),
		ManagerID:   managerID,
	}
	if err := s.repo.Create(dept); err != nil {
		s.logger.Error("failed to create department", "name", dept.Name, "error", err)
		return nil, internal.NewUnavailableError("could not create department", err)
	}

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	return s.detailDTO(dept.ID)
}

func (s *Service) Update(opaqueID string, dto UpdateDepartmentDTO) (*DepartmentDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	managerID, err := s.resolveManager(dto.ManagerID)
	if err != nil {
		return nil, err
	}

	dept, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDepartmentNotFound
		}
		return nil, internal.NewUnavailableError("could not load department", err)
	}

	dept.Name = strings.TrimSpace(dto.Name)
	dept.Description = strings.TrimSpace(dto.Description)
	dept.ManagerID = managerID
	if err := s.repo.Update(dept); err != nil {
		s.logger.Error("failed to update department", "department_id", dept.ID, "error", err)
		return nil, internal.NewUnavailableError("could not update department", err)
	}

	return s.detailDTO(dept.ID)
}

// Delete refuses to remove a department that still has employees. The caller
// must move or delete them first.
func (s *Service) Delete(opaqueID string) error {
	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrDepartmentNotFound
		}
		return internal.NewUnavailableError("could not load department", err)
	}

	count, err := s.repo.EmployeeCount(id)
	if err != nil {
		return internal.NewUnavailableError("could not count department employees", err)
	}
	if count > 0 {
		return internal.NewConflictError(
			fmt.Sprintf("department still has %d employees assigned", count),
			internal.ErrCodeDeleteConflict,
		)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete department", "department_id", id, "error", err)
		return internal.NewUnavailableError("could not delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}

// resolveManager turns an optional opaque employee token into a storage key,
// verifying the employee exists.
func (s *Service) resolveManager(opaque string) (*int64, error) {
	if opaque == "" {
		return nil, nil
	}

	id, err := s.ids.Decode(opaque)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.EmployeeExists(id)
	if err != nil {
		return nil, internal.NewUnavailableError("could not verify manager", err)
	}
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}
	return &id, nil
}

func (s *Service) detailDTO(id int64) (*DepartmentDTO, error) {
	detail, err := s.repo.GetDetail(id)
	if err != nil {
		return nil, internal.NewUnavailableError("could not load department", err)
	}
	return s.toDTO(detail)
}

func (s *Service) toDTO(detail *Detail) (*DepartmentDTO, error) {
	opaqueID, err := s.ids.Encode(detail.ID)
	if err != nil {
		s.logger.Error("failed to encode department id", "department_id", detail.ID, "error", err)
		return nil, internal.NewInternalError("could not encode identifier", err)
	}

	dto := &DepartmentDTO{
		ID:            opaqueID,
		Name:          detail.Name,
		Description:   detail.Description,
		ManagerName:   detail.ManagerName,
		EmployeeCount: detail.EmployeeCount,
		CreatedAt:     detail.CreatedAt,
		UpdatedAt:     detail.UpdatedAt,
	}

	if detail.ManagerID != nil {
		opaqueManager, err := s.ids.Encode(*detail.ManagerID)
		if err != nil {
			s.logger.Error("failed to encode manager id", "employee_id", *detail.ManagerID, "error", err)
			return nil, internal.NewInternalError("could not encode identifier", err)
		}
		dto.ManagerID = &opaqueManager
	}

	return dto, nil
}
