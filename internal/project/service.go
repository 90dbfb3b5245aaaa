package project

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

func (s *Service) List(req pagination.Request, status string) (pagination.Response[ProjectDTO], error) {
	projects, total, err := s.repo.List(req, strings.TrimSpace(status))
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		return pagination.Response[ProjectDTO]{}, err
	}

	dtos := make([]ProjectDTO, 0, len(projects))
	for i := range projects {
		dto, err := s.toDTO(&projects[i])
		if err != nil {
			return pagination.Response[ProjectDTO]{}, err
		}
		dtos = append(dtos, *dto)
	}

	return pagination.NewResponse(req, total, dtos), nil
}

func (s *Service) Get(opaqueID string) (*ProjectDTO, error) {
	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	proj, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProjectNotFound
		}
		return nil, internal.NewUnavailableError("could not load project", err)
	}

	return s.toDTO(proj)
}

func (s *Service) Create(dto CreateProjectDTO) (*ProjectDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := strings.TrimSpace(dto.Status)
	if status == "" {
		status = DefaultStatus
	}

	proj := &Project{
		Name:        strings.TrimSpace(dto.Name),
		Description: strings.TrimSpace(dto.Description),
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		Status:      status,
	}
	if err := s.repo.Create(proj); err != nil {
		s.logger.Error("failed to create project", "name", proj.Name, "error", err)
		return nil, internal.NewUnavailableError("could not create project", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "name", proj.Name)
	return s.toDTO(proj)
}

func (s *Service) Update(opaqueID string, dto UpdateProjectDTO) (*ProjectDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	proj, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProjectNotFound
		}
		return nil, internal.NewUnavailableError("could not load project", err)
	}

	proj.Name = strings.TrimSpace(dto.Name)
	proj.Description = strings.TrimSpace(dto.Description)
	proj.StartDate = dto.StartDate
	proj.EndDate = dto.EndDate
	proj.Status = strings.TrimSpace(dto.Status)
	if err := s.repo.Update(proj); err != nil {
		s.logger.Error("failed to update project", "project_id", proj.ID, "error", err)
		return nil, internal.NewUnavailableError("could not update project", err)
	}

	return s.toDTO(proj)
}

// Delete refuses to remove a project with active assignments; members come
// off the project first.
func (s *Service) Delete(opaqueID string) error {
	id, err := s.ids.Decode(opaqueID)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrProjectNotFound
		}
		return internal.NewUnavailableError("could not load project", err)
	}

	count, err := s.repo.AssignmentCount(id)
	if err != nil {
		return internal.NewUnavailableError("could not count project assignments", err)
	}
	if count > 0 {
		return internal.NewConflictError(
			fmt.Sprintf("project still has %d employees assigned", count),
			internal.ErrCodeDeleteConflict,
		)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete project", "project_id", id, "error", err)
		return internal.NewUnavailableError("could not delete project", err)
	}

	s.logger.Info("project deleted", "project_id", id)
	return nil
}

func (s *Service) toDTO(proj *Project) (*ProjectDTO, error) {
	opaqueID, err := s.ids.Encode(proj.ID)
	if err != nil {
		s.logger.Error("failed to encode project id", "project_id", proj.ID, "error", err)
		return nil, internal.NewInternalError("could not encode identifier", err)
	}

	return &ProjectDTO{
		ID:          opaqueID,
		Name:        proj.Name,
		Description: proj.Description,
		StartDate:   proj.StartDate,
		EndDate:     proj.EndDate,
		Status:      proj.Status,
		CreatedAt:   proj.CreatedAt,
		UpdatedAt:   proj.UpdatedAt,
	}, nil
}
