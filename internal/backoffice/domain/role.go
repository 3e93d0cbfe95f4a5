package domain

import (
	"errors"
	"fmt"
)

// Role is one of a closed set of three values. There is no hierarchy between
// them: an admin does not implicitly satisfy a staff-only or client-only
// check.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

var ErrInvalidRole = errors.New("domain: invalid role")

// ParseRole validates s against the closed role set. Invalid values are
// rejected here, at assignment time, never at enforcement time.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleClient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStaff, RoleClient}
}
