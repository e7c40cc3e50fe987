package assignment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-management/internal/permission"
)

// Store is the set of reads and writes an assignment needs. Lookups return
// (nil, nil) when no row matches.
type Store interface {
	UserExists(ctx context.Context, id string) (bool, error)
	RoleExists(ctx context.Context, id string) (bool, error)
	PermissionExists(ctx context.Context, id string) (bool, error)

	FindUserRole(ctx context.Context, userID, roleID string) (*rbac.UserRole, error)
	CreateUserRole(ctx context.Context, row *rbac.UserRole) error
	DeleteUserRole(ctx context.Context, id string) (bool, error)
	ListUserRoles(ctx context.Context, userID string) ([]*rbac.UserRole, error)

	FindUserPermission(ctx context.Context, userID, permissionID string) (*rbac.UserPermission, error)
	CreateUserPermission(ctx context.Context, row *rbac.UserPermission) error
	DeleteUserPermission(ctx context.Context, userID, permissionID string) (bool, error)
	ListUserPermissions(ctx context.Context, userID string) ([]*rbac.Permission, error)

	FindRolePermission(ctx context.Context, roleID, permissionID string) (*rbac.RolePermission, error)
	CreateRolePermission(ctx context.Context, row *rbac.RolePermission) error
	DeleteRolePermission(ctx context.Context, roleID, permissionID string) (bool, error)
	ListRolePermissions(ctx context.Context, roleID string) ([]*rbac.Permission, error)
}

// RepositoryAPI runs fn against a Store bound to one transaction. A non-nil
// error from fn rolls the transaction back and is returned unchanged.
type RepositoryAPI interface {
	Store
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
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

// AssignRole gives the user the role. Assigning a pair that already exists
// returns the existing assignment.
func (s *Service) AssignRole(ctx context.Context, dto AssignRoleDTO) (*UserRole, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var result *rbac.UserRole
	err := s.repo.WithinTransaction(ctx, func(tx Store) error {
		if err := requireUser(ctx, tx, dto.UserID); err != nil {
			return err
		}
		if err := requireRole(ctx, tx, dto.RoleID); err != nil {
			return err
		}

		existing, err := tx.FindUserRole(ctx, dto.UserID, dto.RoleID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		row := &rbac.UserRole{UserID: dto.UserID, RoleID: dto.RoleID}
		if err := tx.CreateUserRole(ctx, row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if errors.Is(err, internal.ErrDuplicateKey) {
		// a concurrent request inserted the pair first
		existing, findErr := s.repo.FindUserRole(ctx, dto.UserID, dto.RoleID)
		if findErr == nil && existing != nil {
			return UserRoleFromDataModel(existing), nil
		}
	}
	if err != nil {
		return nil, s.failed("assign role", err, "user_id", dto.UserID, "role_id", dto.RoleID)
	}

	s.logger.Info("role assigned", "user_id", dto.UserID, "role_id", dto.RoleID, "assignment_id", result.ID)
	return UserRoleFromDataModel(result), nil
}

// RemoveRoleAssignment deletes one assignment by its own id. A missing id
// reports false without an error.
func (s *Service) RemoveRoleAssignment(ctx context.Context, assignmentID string) (bool, error) {
	removed, err := s.repo.DeleteUserRole(ctx, assignmentID)
	if err != nil {
		s.logger.Error("failed to remove role assignment", "error", err, "assignment_id", assignmentID)
		return false, internal.NewInternalError("Failed to remove role.", err)
	}
	if removed {
		s.logger.Info("role assignment removed", "assignment_id", assignmentID)
	}
	return removed, nil
}

func (s *Service) ListUserRoles(ctx context.Context, userID string) ([]*UserRole, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, s.failed("list user roles", err, "user_id", userID)
	}

	rows, err := s.repo.ListUserRoles(ctx, userID)
	if err != nil {
		return nil, s.failed("list user roles", err, "user_id", userID)
	}

	out := make([]*UserRole, 0, len(rows))
	for _, row := range rows {
		out = append(out, UserRoleFromDataModel(row))
	}
	return out, nil
}

// AssignPermission grants a permission to the user directly, independent of
// any role. Repeated grants return the existing link.
func (s *Service) AssignPermission(ctx context.Context, dto AssignPermissionDTO) (*UserPermission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var result *rbac.UserPermission
	err := s.repo.WithinTransaction(ctx, func(tx Store) error {
		if err := requireUser(ctx, tx, dto.UserID); err != nil {
			return err
		}
		if err := requirePermission(ctx, tx, dto.PermissionID); err != nil {
			return err
		}

		existing, err := tx.FindUserPermission(ctx, dto.UserID, dto.PermissionID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		row := &rbac.UserPermission{UserID: dto.UserID, PermissionID: dto.PermissionID}
		if err := tx.CreateUserPermission(ctx, row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if errors.Is(err, internal.ErrDuplicateKey) {
		existing, findErr := s.repo.FindUserPermission(ctx, dto.UserID, dto.PermissionID)
		if findErr == nil && existing != nil {
			return UserPermissionFromDataModel(existing), nil
		}
	}
	if err != nil {
		return nil, s.failed("assign permission", err, "user_id", dto.UserID, "permission_id", dto.PermissionID)
	}

	s.logger.Info("permission granted to user", "user_id", dto.UserID, "permission_id", dto.PermissionID)
	return UserPermissionFromDataModel(result), nil
}

// RemovePermission revokes a direct grant. It reports false when the user
// never held the permission directly.
func (s *Service) RemovePermission(ctx context.Context, userID, permissionID string) (bool, error) {
	var removed bool
	err := s.repo.WithinTransaction(ctx, func(tx Store) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := requirePermission(ctx, tx, permissionID); err != nil {
			return err
		}

		var err error
		removed, err = tx.DeleteUserPermission(ctx, userID, permissionID)
		return err
	})
	if err != nil {
		return false, s.failed("remove permission", err, "user_id", userID, "permission_id", permissionID)
	}
	return removed, nil
}

func (s *Service) ListDirectPermissions(ctx context.Context, userID string) ([]*permission.Permission, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, s.failed("list direct permissions", err, "user_id", userID)
	}

	rows, err := s.repo.ListUserPermissions(ctx, userID)
	if err != nil {
		return nil, s.failed("list direct permissions", err, "user_id", userID)
	}
	return permission.FromDataModels(rows), nil
}

// AssignPermissionToRole grants a permission to every holder of the role.
func (s *Service) AssignPermissionToRole(ctx context.Context, roleID, permissionID string) (*RolePermission, error) {
	var result *rbac.RolePermission
	err := s.repo.WithinTransaction(ctx, func(tx Store) error {
		if err := requireRole(ctx, tx, roleID); err != nil {
			return err
		}
		if err := requirePermission(ctx, tx, permissionID); err != nil {
			return err
		}

		existing, err := tx.FindRolePermission(ctx, roleID, permissionID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		row := &rbac.RolePermission{RoleID: roleID, PermissionID: permissionID}
		if err := tx.CreateRolePermission(ctx, row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if errors.Is(err, internal.ErrDuplicateKey) {
		existing, findErr := s.repo.FindRolePermission(ctx, roleID, permissionID)
		if findErr == nil && existing != nil {
			return RolePermissionFromDataModel(existing), nil
		}
	}
	if err != nil {
		return nil, s.failed("assign permission to role", err, "role_id", roleID, "permission_id", permissionID)
	}

	s.logger.Info("permission granted to role", "role_id", roleID, "permission_id", permissionID)
	return RolePermissionFromDataModel(result), nil
}

func (s *Service) RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) (bool, error) {
	var removed bool
	err := s.repo.WithinTransaction(ctx, func(tx Store) error {
		if err := requireRole(ctx, tx, roleID); err != nil {
			return err
		}
		if err := requirePermission(ctx, tx, permissionID); err != nil {
			return err
		}

		var err error
		removed, err = tx.DeleteRolePermission(ctx, roleID, permissionID)
		return err
	})
	if err != nil {
		return false, s.failed("remove permission from role", err, "role_id", roleID, "permission_id", permissionID)
	}
	return removed, nil
}

// ListRolePermissions returns the permissions a role grants, in grant order.
func (s *Service) ListRolePermissions(ctx context.Context, roleID string) ([]*permission.Permission, error) {
	if err := requireRole(ctx, s.repo, roleID); err != nil {
		return nil, s.failed("list role permissions", err, "role_id", roleID)
	}

	rows, err := s.repo.ListRolePermissions(ctx, roleID)
	if err != nil {
		return nil, s.failed("list role permissions", err, "role_id", roleID)
	}
	return permission.FromDataModels(rows), nil
}

// failed passes AppErrors through and wraps anything else as a transaction
// failure.
func (s *Service) failed(op string, err error, attrs ...any) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("failed to "+op, append([]any{"error", err}, attrs...)...)
	return internal.NewTransactionError("Failed to "+op+".", err)
}

func requireUser(ctx context.Context, st Store, id string) error {
	ok, err := st.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return internal.ErrUserNotFound()
	}
	return nil
}

func requireRole(ctx context.Context, st Store, id string) error {
	ok, err := st.RoleExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return internal.ErrRoleNotFound()
	}
	return nil
}

func requirePermission(ctx context.Context, st Store, id string) error {
	ok, err := st.PermissionExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return internal.ErrPermissionNotFound()
	}
	return nil
}
