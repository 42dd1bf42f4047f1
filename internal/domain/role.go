package domain

import "fmt"

// Role is the access level assigned to an account. Authorization decisions
// are made exclusively against these values; handlers never compare raw
// strings.
type Role string

const (
	RoleMember        Role = "member"
	RoleAdministrator Role = "administrator"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleAdministrator:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q, must be %q or %q", s, RoleMember, RoleAdministrator)
	}
}

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdministrator
}
