package auth

import "github.com/frahmantamala/hr-management/internal"

// RoleChecker answers role questions about a principal.
type RoleChecker interface {
	HasAnyRole(role string, allowed []string) bool
	IsAdmin(role string) bool
	IsManager(role string) bool
	IsKnownRole(role string) bool
}

type DefaultRoleChecker struct{}

func NewRoleChecker() RoleChecker {
	return &DefaultRoleChecker{}
}

func (c *DefaultRoleChecker) HasAnyRole(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func (c *DefaultRoleChecker) IsAdmin(role string) bool {
	return role == internal.RoleAdmin
}

func (c *DefaultRoleChecker) IsManager(role string) bool {
	return role == internal.RoleManager
}

func (c *DefaultRoleChecker) IsKnownRole(role string) bool {
	return c.HasAnyRole(role, Roles())
}

// Roles lists every role a profile may hold.
func Roles() []string {
	return []string{internal.RoleAdmin, internal.RoleManager, internal.RoleEmployee}
}
