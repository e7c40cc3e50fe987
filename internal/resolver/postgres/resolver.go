package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-management/internal/resolver"
	"gorm.io/gorm"
)

type ResolverRepository struct {
	db *gorm.DB
}

func NewResolverRepository(db *gorm.DB) resolver.RepositoryAPI {
	return &ResolverRepository{db: db}
}

func (r *ResolverRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&rbac.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ResolverRepository) ListUserRoleIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&rbac.UserRole{}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Pluck("role_id", &ids).Error
	return ids, err
}

func (r *ResolverRepository) GetRole(ctx context.Context, roleID string) (*rbac.Role, error) {
	var row rbac.Role
	err := r.db.WithContext(ctx).Where("id = ?", roleID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ResolverRepository) ListRolePermissions(ctx context.Context, roleID string) ([]*rbac.Permission, error) {
	var rows []*rbac.Permission
	err := r.db.WithContext(ctx).
		Select("permissions.*").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("role_permissions.created_at ASC, role_permissions.id ASC").
		Find(&rows).Error
	return rows, err
}
