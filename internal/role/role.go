package role

import (
	"time"

	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

type Role struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department *string   `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Role) Apply(dto UpdateRoleDTO) {
	if dto.Name != nil {
		r.Name = *dto.Name
	}
	switch {
	case dto.Department == nil:
	case *dto.Department == "":
		r.Department = nil
	default:
		r.Department = dto.Department
	}
}

func NewRole(name string, department *string) *Role {
	return &Role{
		Name:       name,
		Department: department,
	}
}

func ToDataModel(r *Role) *rbac.Role {
	return &rbac.Role{
		ID:         r.ID,
		Name:       r.Name,
		Department: r.Department,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromDataModel(r *rbac.Role) *Role {
	return &Role{
		ID:         r.ID,
		Name:       r.Name,
		Department: r.Department,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromDataModels(rows []*rbac.Role) []*Role {
	roles := make([]*Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, FromDataModel(row))
	}
	return roles
}
