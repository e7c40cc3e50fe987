package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-management/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(ctx context.Context, p *rbac.Permission) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.RoleID != nil {
			var count int64
			if err := tx.Model(&rbac.Role{}).Where("id = ?", *p.RoleID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return permission.ErrRoleNotFound
			}
		}

		if err := tx.Create(p).Error; err != nil {
			return err
		}

		if p.RoleID == nil {
			return nil
		}
		return tx.Create(&rbac.RolePermission{RoleID: *p.RoleID, PermissionID: p.ID}).Error
	})
	return translate(err)
}

func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*rbac.Permission, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*rbac.Permission, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *PermissionRepository) first(ctx context.Context, query string, arg interface{}) (*rbac.Permission, error) {
	var p rbac.Permission
	err := r.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) List(ctx context.Context) ([]*rbac.Permission, error) {
	var rows []*rbac.Permission
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *PermissionRepository) ListByRole(ctx context.Context, roleID string) ([]*rbac.Permission, error) {
	var rows []*rbac.Permission
	err := r.db.WithContext(ctx).
		Select("permissions.*").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("role_permissions.created_at ASC, role_permissions.id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *PermissionRepository) Update(ctx context.Context, p *rbac.Permission) error {
	return translate(r.db.WithContext(ctx).Model(p).Select("name", "action", "resource", "updated_at").Updates(p).Error)
}

func (r *PermissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&rbac.Permission{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", internal.ErrDuplicateKey, err)
	}
	return err
}
