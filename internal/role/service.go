package role

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

type RepositoryAPI interface {
	Create(ctx context.Context, role *rbac.Role) error
	GetByID(ctx context.Context, id string) (*rbac.Role, error)
	// GetByName returns the earliest created role with the name.
	GetByName(ctx context.Context, name string) (*rbac.Role, error)
	ListByDepartment(ctx context.Context, department string) ([]*rbac.Role, error)
	Update(ctx context.Context, role *rbac.Role) error
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := ToDataModel(NewRole(dto.Name, dto.Department))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create role", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("Failed to create role.", err)
	}

	s.logger.Info("role created", "role_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Role, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get role", "error", err, "role_id", id)
		return nil, internal.NewInternalError("Failed to get role.", err)
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound()
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*Role, error) {
	row, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to get role by name", "error", err, "name", name)
		return nil, internal.NewInternalError("Failed to get role.", err)
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound()
	}
	return FromDataModel(row), nil
}

func (s *Service) ListByDepartment(ctx context.Context, department string) ([]*Role, error) {
	rows, err := s.repo.ListByDepartment(ctx, department)
	if err != nil {
		s.logger.Error("failed to list department roles", "error", err, "department", department)
		return nil, internal.NewInternalError("Failed to get department roles.", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Apply(dto)

	row := ToDataModel(r)
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update role", "error", err, "role_id", id)
		return nil, internal.NewInternalError("Failed to update role.", err)
	}
	return FromDataModel(row), nil
}

// Delete removes the role. User assignments and permission grants go with it.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete role", "error", err, "role_id", id)
		return false, internal.NewInternalError("Failed to delete role.", err)
	}
	if deleted {
		s.logger.Info("role deleted", "role_id", id)
	}
	return deleted, nil
}
