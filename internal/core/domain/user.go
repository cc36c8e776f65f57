package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles the backend may assign to a user.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSalesperson Role = "salesperson"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleSalesperson}

// ParseRole maps a wire value onto the Role enumeration. Anything outside the
// enumeration yields ErrUnexpectedRole.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSalesperson:
		return RoleSalesperson, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnexpectedRole, s)
	}
}

// Valid reports whether r belongs to the enumeration.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// DashboardPath returns the landing page of the role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin-dashboard"
	case RoleSalesperson:
		return "/sales-dashboard"
	default:
		return "/"
	}
}

// Credential is the opaque token issued by the backend at login.
type Credential string

// Identity describes the logged-in user.
type Identity struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"username"`
	Role        Role   `json:"role"`
}

// LoginResult is the backend's answer to a successful login exchange.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
