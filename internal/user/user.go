package user

import (
	"time"

	"github.com/frahmantamala/hr-management/internal"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `json:"date_joined"`
	Profile      Profile    `json:"profile"`
}

type Profile struct {
	Role string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Profile.Role == internal.RoleAdmin
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsStaff:      u.IsStaff,
		LastLogin:    u.LastLogin,
		DateJoined:   u.DateJoined,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	out := &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsStaff:      u.IsStaff,
		LastLogin:    u.LastLogin,
		DateJoined:   u.DateJoined,
		Profile:      Profile{Role: internal.RoleEmployee},
	}
	if u.Profile != nil && u.Profile.Role != "" {
		out.Profile.Role = u.Profile.Role
	}
	return out
}
