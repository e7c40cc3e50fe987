package role

import "github.com/frahmantamala/rbac-management/internal/core/common/validation"

type CreateRoleDTO struct {
	Name       string  `json:"name" validate:"required,min=1,max=50"`
	Department *string `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
}

func (dto CreateRoleDTO) Validate() error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	return nil
}

// UpdateRoleDTO changes only the fields that are set. An empty department
// clears it.
type UpdateRoleDTO struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
}

func (dto UpdateRoleDTO) Validate() error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	return nil
}
