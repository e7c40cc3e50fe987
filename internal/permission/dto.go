package permission

import "github.com/frahmantamala/rbac-management/internal/core/common/validation"

type CreatePermissionDTO struct {
	Name     string  `json:"name" validate:"required,min=1,max=50"`
	Action   string  `json:"action" validate:"required,min=1,max=50"`
	Resource string  `json:"resource" validate:"required,min=1,max=50"`
	RoleID   *string `json:"role_id,omitempty" validate:"omitempty,uuid"`
}

func (dto CreatePermissionDTO) Validate() error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	return nil
}

type UpdatePermissionDTO struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Action   *string `json:"action,omitempty" validate:"omitempty,min=1,max=50"`
	Resource *string `json:"resource,omitempty" validate:"omitempty,min=1,max=50"`
}

func (dto UpdatePermissionDTO) Validate() error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	return nil
}
