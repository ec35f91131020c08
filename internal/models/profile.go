package models

import "time"

// Role is the sole authorization signal attached to a profile.
type Role string

const (
	RoleUser        Role = "user"
	RolePendingOrg  Role = "pending_org"
	RoleApprovedOrg Role = "approved_org"
	RoleAdmin       Role = "admin"
)

// Known reports whether the role is one of the enumerated values. Anything else
// is treated as unauthorized for all authoring actions.
func (r Role) Known() bool {
	switch r {
	case RoleUser, RolePendingOrg, RoleApprovedOrg, RoleAdmin:
		return true
	default:
		return false
	}
}

// Profile is an account record. Organization signups start as pending_org and
// move to approved_org or user only through an admin decision.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
