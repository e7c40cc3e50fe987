package user

import (
	"time"

	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Apply copies the fields present in dto onto u.
func (u *User) Apply(dto UpdateUserDTO) {
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.Username != nil {
		u.Username = *dto.Username
	}
}

func NewUser(email, username string) *User {
	return &User{
		Email:    email,
		Username: username,
	}
}

func ToDataModel(u *User) *rbac.User {
	return &rbac.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromDataModel(u *rbac.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
