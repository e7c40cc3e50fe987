package rbac

import (
	"time"

	"gorm.io/gorm"
)

// UserRole records that a user holds a role.
type UserRole struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_user_roles_user_role"`
	RoleID    string    `gorm:"column:role_id;type:varchar(36);not null;uniqueIndex:idx_user_roles_user_role;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role      *Role     `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserRole) TableName() string { return "user_roles" }

func (ur *UserRole) BeforeCreate(*gorm.DB) error {
	ur.ID = ensureID(ur.ID)
	return nil
}

// RolePermission records that a role grants a permission.
type RolePermission struct {
	ID           string      `gorm:"column:id;type:varchar(36);primaryKey"`
	RoleID       string      `gorm:"column:role_id;type:varchar(36);not null;uniqueIndex:idx_role_permissions_role_permission"`
	PermissionID string      `gorm:"column:permission_id;type:varchar(36);not null;uniqueIndex:idx_role_permissions_role_permission;index"`
	Role         *Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission   *Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (RolePermission) TableName() string { return "role_permissions" }

func (rp *RolePermission) BeforeCreate(*gorm.DB) error {
	rp.ID = ensureID(rp.ID)
	return nil
}

// UserPermission is a permission granted to a user directly, outside any role.
type UserPermission struct {
	ID           string      `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID       string      `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_user_permissions_user_permission"`
	PermissionID string      `gorm:"column:permission_id;type:varchar(36);not null;uniqueIndex:idx_user_permissions_user_permission;index"`
	User         *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Permission   *Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (UserPermission) TableName() string { return "user_permissions" }

func (up *UserPermission) BeforeCreate(*gorm.DB) error {
	up.ID = ensureID(up.ID)
	return nil
}

// Models lists every table in dependency order for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Role{},
		&Permission{},
		&UserRole{},
		&RolePermission{},
		&UserPermission{},
	}
}
