package permission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

type RepositoryAPI interface {
	// Create inserts the permission. When RoleID is set the role is checked
	// and granted the permission in the same transaction.
	Create(ctx context.Context, permission *rbac.Permission) error
	GetByID(ctx context.Context, id string) (*rbac.Permission, error)
	GetByName(ctx context.Context, name string) (*rbac.Permission, error)
	List(ctx context.Context) ([]*rbac.Permission, error)
	ListByRole(ctx context.Context, roleID string) ([]*rbac.Permission, error)
	Update(ctx context.Context, permission *rbac.Permission) error
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

func (s *Service) Create(ctx context.Context, dto CreatePermissionDTO) (*Permission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &rbac.Permission{
		Name:     dto.Name,
		Action:   dto.Action,
		Resource: dto.Resource,
		RoleID:   dto.RoleID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.writeError("create", err, dto.Name)
	}

	s.logger.Info("permission created", "permission_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Permission, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get permission", "error", err, "permission_id", id)
		return nil, internal.NewInternalError("Failed to get permission.", err)
	}
	if row == nil {
		return nil, internal.ErrPermissionNotFound()
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*Permission, error) {
	row, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to get permission by name", "error", err, "name", name)
		return nil, internal.NewInternalError("Failed to get permission.", err)
	}
	if row == nil {
		return nil, internal.ErrPermissionNotFound()
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context) ([]*Permission, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, internal.NewInternalError("Failed to retrieve permissions.", err)
	}
	return FromDataModels(rows), nil
}

// ListByRole returns the permissions granted to roleID. An unknown role
// yields an empty list.
func (s *Service) ListByRole(ctx context.Context, roleID string) ([]*Permission, error) {
	rows, err := s.repo.ListByRole(ctx, roleID)
	if err != nil {
		s.logger.Error("failed to list role permissions", "error", err, "role_id", roleID)
		return nil, internal.NewInternalError("Failed to retrieve permissions.", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdatePermissionDTO) (*Permission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(dto)

	row := ToDataModel(p)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.writeError("update", err, p.Name)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete permission", "error", err, "permission_id", id)
		return false, internal.NewInternalError("Failed to delete permission.", err)
	}
	if deleted {
		s.logger.Info("permission deleted", "permission_id", id)
	}
	return deleted, nil
}

func (s *Service) writeError(op string, err error, name string) error {
	switch {
	case errors.Is(err, internal.ErrDuplicateKey):
		return internal.NewConflictError("Permission name already exists.", internal.ErrCodePermissionExists).WithCause(err)
	case errors.Is(err, ErrRoleNotFound):
		return internal.ErrRoleNotFound()
	default:
		s.logger.Error("failed to "+op+" permission", "error", err, "name", name)
		return internal.NewInternalError("Failed to "+op+" permission.", err)
	}
}
