package resolver

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-management/internal/role"
)

type RepositoryAPI interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	// ListUserRoleIDs returns role ids in assignment order. Ids may repeat.
	ListUserRoleIDs(ctx context.Context, userID string) ([]string, error)
	// GetRole returns (nil, nil) when the role no longer exists.
	GetRole(ctx context.Context, roleID string) (*rbac.Role, error)
	ListRolePermissions(ctx context.Context, roleID string) ([]*rbac.Permission, error)
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

// ResolveRoles returns the user's roles, first assignment first, with
// repeated role ids collapsed. An unknown user is a NotFound error; a user
// without roles gets an empty slice.
func (s *Service) ResolveRoles(ctx context.Context, userID string) ([]*role.Role, error) {
	rows, err := s.resolveRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return role.FromDataModels(rows), nil
}

// ResolvePermissions flattens the permissions of every resolved role. The
// same permission appears once per role that grants it.
func (s *Service) ResolvePermissions(ctx context.Context, userID string) ([]*ResolvedPermission, error) {
	roles, err := s.resolveRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	perms := make([]*ResolvedPermission, 0)
	for _, r := range roles {
		rows, err := s.repo.ListRolePermissions(ctx, r.ID)
		if err != nil {
			s.logger.Error("failed to retrieve permissions", "error", err, "user_id", userID, "role_id", r.ID)
			return nil, internal.NewInternalError("Failed to retrieve permissions.", err)
		}
		for _, p := range rows {
			perms = append(perms, newResolvedPermission(p, r.ID))
		}
	}

	s.logger.Debug("permissions resolved", "user_id", userID, "roles", len(roles), "permissions", len(perms))
	return perms, nil
}

// ProcessLoginRequest builds the login payload: the user's resolved
// permissions keyed by granting role.
func (s *Service) ProcessLoginRequest(ctx context.Context, userID string) (PermissionsByRole, error) {
	perms, err := s.ResolvePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GroupByRole(perms), nil
}

func (s *Service) resolveRoles(ctx context.Context, userID string) ([]*rbac.Role, error) {
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		s.logger.Error("failed to look up user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Failed to retrieve roles.", err)
	}
	if !ok {
		return nil, internal.ErrUserNotFound()
	}

	ids, err := s.repo.ListUserRoleIDs(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user roles", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Failed to retrieve roles.", err)
	}

	seen := make(map[string]struct{}, len(ids))
	roles := make([]*rbac.Role, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		r, err := s.repo.GetRole(ctx, id)
		if err != nil {
			s.logger.Error("failed to get role", "error", err, "user_id", userID, "role_id", id)
			return nil, internal.NewInternalError("Failed to retrieve roles.", err)
		}
		if r == nil {
			s.logger.Warn("assignment references missing role", "user_id", userID, "role_id", id)
			continue
		}
		roles = append(roles, r)
	}
	return roles, nil
}
