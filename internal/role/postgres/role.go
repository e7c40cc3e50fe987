package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-management/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, row *rbac.Role) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*rbac.Role, error) {
	var row rbac.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*rbac.Role, error) {
	var row rbac.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at ASC, id ASC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) ListByDepartment(ctx context.Context, department string) ([]*rbac.Role, error) {
	var rows []*rbac.Role
	err := r.db.WithContext(ctx).Where("department = ?", department).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *RoleRepository) Update(ctx context.Context, row *rbac.Role) error {
	return r.db.WithContext(ctx).Model(row).Select("name", "department", "updated_at").Updates(row).Error
}

func (r *RoleRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&rbac.Role{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
