package domain

import "github.com/backdeskhq/backdesk/pkg/idx"

// Decision is the structured outcome of an authorization check. The gate
// never redirects or writes responses itself; handlers act on the decision.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Allowed reports whether the decision permits the request.
func (d Decision) Allowed() bool { return d == Allow }

// Owned is any resource that carries exactly one owning-principal identifier,
// set at creation.
type Owned interface {
	OwnedBy() idx.ID
}

// RequireRole gates entry to a route class. Deny when the principal is
// anonymous (nil) or its role differs from the required one. Roles are not
// hierarchical: each handler declares exactly the role it accepts.
//
// Pure function of its inputs: no side effects, deterministic.
func RequireRole(p *User, role Role) Decision {
	if p == nil {
		return Deny
	}
	if p.Role != role {
		return Deny
	}
	return Allow
}

// RequireAuthenticated gates routes open to any signed-in principal
// regardless of role.
func RequireAuthenticated(p *User) Decision {
	if p == nil {
		return Deny
	}
	return Allow
}

// RequireOwnerOrAdmin gates access to one specific record within an already
// allowed route. Allow iff the principal is an admin or owns the resource.
// No other bypass exists.
func RequireOwnerOrAdmin(p *User, res Owned) Decision {
	if p == nil {
		return Deny
	}
	if p.Role == RoleAdmin {
		return Allow
	}
	if res.OwnedBy() == p.ID {
		return Allow
	}
	return Deny
}
