package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/assignment"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) assignment.RepositoryAPI {
	return &AssignmentRepository{db: db}
}

// WithinTransaction hands fn a repository bound to tx. Everything fn does
// commits together or not at all.
func (r *AssignmentRepository) WithinTransaction(ctx context.Context, fn func(tx assignment.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AssignmentRepository{db: tx})
	})
}

func (r *AssignmentRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, &rbac.User{}, "id = ?", id)
}

func (r *AssignmentRepository) RoleExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, &rbac.Role{}, "id = ?", id)
}

func (r *AssignmentRepository) PermissionExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, &rbac.Permission{}, "id = ?", id)
}

func (r *AssignmentRepository) exists(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ---- user <-> role ----

func (r *AssignmentRepository) FindUserRole(ctx context.Context, userID, roleID string) (*rbac.UserRole, error) {
	var row rbac.UserRole
	err := r.db.WithContext(ctx).Where("user_id = ? AND role_id = ?", userID, roleID).First(&row).Error
	return found(&row, err)
}

func (r *AssignmentRepository) CreateUserRole(ctx context.Context, row *rbac.UserRole) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *AssignmentRepository) DeleteUserRole(ctx context.Context, id string) (bool, error) {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&rbac.UserRole{}))
}

func (r *AssignmentRepository) ListUserRoles(ctx context.Context, userID string) ([]*rbac.UserRole, error) {
	var rows []*rbac.UserRole
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&rows).Error
	return rows, err
}

// ---- user <-> permission ----

func (r *AssignmentRepository) FindUserPermission(ctx context.Context, userID, permissionID string) (*rbac.UserPermission, error) {
	var row rbac.UserPermission
	err := r.db.WithContext(ctx).Where("user_id = ? AND permission_id = ?", userID, permissionID).First(&row).Error
	return found(&row, err)
}

func (r *AssignmentRepository) CreateUserPermission(ctx context.Context, row *rbac.UserPermission) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *AssignmentRepository) DeleteUserPermission(ctx context.Context, userID, permissionID string) (bool, error) {
	return deleted(r.db.WithContext(ctx).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&rbac.UserPermission{}))
}

func (r *AssignmentRepository) ListUserPermissions(ctx context.Context, userID string) ([]*rbac.Permission, error) {
	var rows []*rbac.Permission
	err := r.db.WithContext(ctx).
		Select("permissions.*").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Order("user_permissions.created_at ASC, user_permissions.id ASC").
		Find(&rows).Error
	return rows, err
}

// ---- role <-> permission ----

func (r *AssignmentRepository) FindRolePermission(ctx context.Context, roleID, permissionID string) (*rbac.RolePermission, error) {
	var row rbac.RolePermission
	err := r.db.WithContext(ctx).Where("role_id = ? AND permission_id = ?", roleID, permissionID).First(&row).Error
	return found(&row, err)
}

func (r *AssignmentRepository) CreateRolePermission(ctx context.Context, row *rbac.RolePermission) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *AssignmentRepository) DeleteRolePermission(ctx context.Context, roleID, permissionID string) (bool, error) {
	return deleted(r.db.WithContext(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&rbac.RolePermission{}))
}

func (r *AssignmentRepository) ListRolePermissions(ctx context.Context, roleID string) ([]*rbac.Permission, error) {
	var rows []*rbac.Permission
	err := r.db.WithContext(ctx).
		Select("permissions.*").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("role_permissions.created_at ASC, role_permissions.id ASC").
		Find(&rows).Error
	return rows, err
}

func found[T any](row *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

func deleted(res *gorm.DB) (bool, error) {
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
