package rbac

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	Username  string    `gorm:"column:username;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	u.ID = ensureID(u.ID)
	return nil
}

type Role struct {
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Name       string    `gorm:"column:name;index;not null"`
	Department *string   `gorm:"column:department;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) BeforeCreate(*gorm.DB) error {
	r.ID = ensureID(r.ID)
	return nil
}

type Permission struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Action    string    `gorm:"column:action;not null"`
	Resource  string    `gorm:"column:resource;not null"`
	RoleID    *string   `gorm:"column:role_id;type:varchar(36);index"`
	Role      *Role     `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Permission) TableName() string { return "permissions" }

func (p *Permission) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
