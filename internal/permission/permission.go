package permission

import (
	"errors"
	"time"

	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

// ErrRoleNotFound is returned by repositories when a permission is created
// under a role that does not exist.
var ErrRoleNotFound = errors.New("role not found")

// Permission is an action on a resource. RoleID is the role the permission
// was created under, if any.
type Permission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	RoleID    *string   `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Permission) Apply(dto UpdatePermissionDTO) {
	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Action != nil {
		p.Action = *dto.Action
	}
	if dto.Resource != nil {
		p.Resource = *dto.Resource
	}
}

func ToDataModel(p *Permission) *rbac.Permission {
	return &rbac.Permission{
		ID:        p.ID,
		Name:      p.Name,
		Action:    p.Action,
		Resource:  p.Resource,
		RoleID:    p.RoleID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDataModel(p *rbac.Permission) *Permission {
	return &Permission{
		ID:        p.ID,
		Name:      p.Name,
		Action:    p.Action,
		Resource:  p.Resource,
		RoleID:    p.RoleID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDataModels(rows []*rbac.Permission) []*Permission {
	perms := make([]*Permission, 0, len(rows))
	for _, row := range rows {
		perms = append(perms, FromDataModel(row))
	}
	return perms
}
