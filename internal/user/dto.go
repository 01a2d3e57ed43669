package user

import (
	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

var roles = []string{internal.RoleAdmin, internal.RoleManager, internal.RoleEmployee}

type ProfileDTO struct {
	Role string `json:"role"`
}

type CreateUserDTO struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Password  string      `json:"password"`
	Profile   *ProfileDTO `json:"profile"`
}

// UpdateUserDTO changes only the fields that are present.
type UpdateUserDTO struct {
	Username  *string     `json:"username"`
	Email     *string     `json:"email"`
	FirstName *string     `json:"first_name"`
	LastName  *string     `json:"last_name"`
	Password  *string     `json:"password"`
	IsActive  *bool       `json:"is_active"`
	Profile   *ProfileDTO `json:"profile"`
}

func (d CreateUserDTO) Role() string {
	if d.Profile == nil || d.Profile.Role == "" {
		return internal.RoleEmployee
	}
	return d.Profile.Role
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(150)
	v.Field("email", d.Email).MaxLength(254).Email()
	v.Field("first_name", d.FirstName).MaxLength(150)
	v.Field("last_name", d.LastName).MaxLength(150)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	if d.Profile != nil {
		v.Field("profile.role", d.Profile.Role).OneOf(roles...)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	if d.Username != nil {
		v.Field("username", d.Username).Required().MaxLength(150)
	}
	if d.Email != nil {
		v.Field("email", d.Email).MaxLength(254).Email()
	}
	if d.FirstName != nil {
		v.Field("first_name", d.FirstName).MaxLength(150)
	}
	if d.LastName != nil {
		v.Field("last_name", d.LastName).MaxLength(150)
	}
	if d.Password != nil {
		v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	}
	if d.Profile != nil {
		v.Field("profile.role", d.Profile.Role).Required().OneOf(roles...)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
