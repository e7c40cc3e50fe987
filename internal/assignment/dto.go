package assignment

import "github.com/frahmantamala/rbac-management/internal/core/common/validation"

type AssignRoleDTO struct {
	UserID string `json:"userId" validate:"required"`
	RoleID string `json:"roleId" validate:"required"`
}

func (dto AssignRoleDTO) Validate() error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	return nil
}

type AssignPermissionDTO struct {
	UserID       string `json:"userId" validate:"required"`
	PermissionID string `json:"permissionId" validate:"required"`
}

func (dto AssignPermissionDTO) Validate() error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	return nil
}
