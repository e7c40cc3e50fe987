package assignment

import (
	"time"

	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

// UserRole is a user's membership in a role. Its ID is what
// RemoveRoleAssignment expects.
type UserRole struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RolePermission struct {
	ID           string    `json:"id"`
	RoleID       string    `json:"role_id"`
	PermissionID string    `json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserPermission struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PermissionID string    `json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func UserRoleFromDataModel(row *rbac.UserRole) *UserRole {
	return &UserRole{
		ID:        row.ID,
		UserID:    row.UserID,
		RoleID:    row.RoleID,
		CreatedAt: row.CreatedAt,
	}
}

func RolePermissionFromDataModel(row *rbac.RolePermission) *RolePermission {
	return &RolePermission{
		ID:           row.ID,
		RoleID:       row.RoleID,
		PermissionID: row.PermissionID,
		CreatedAt:    row.CreatedAt,
	}
}

func UserPermissionFromDataModel(row *rbac.UserPermission) *UserPermission {
	return &UserPermission{
		ID:           row.ID,
		UserID:       row.UserID,
		PermissionID: row.PermissionID,
		CreatedAt:    row.CreatedAt,
	}
}
