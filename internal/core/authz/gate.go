// Package authz decides whether a navigation to a protected view may proceed.
// Decisions are a pure function of the session state and the roles a route
// admits; nothing here touches the network.
package authz

import "github.com/salesrecorder/sales-web/internal/core/domain"

// LoginPath is the public login view.
const LoginPath = "/"

// Outcome classifies a gate decision.
type Outcome string

const (
	Allow       Outcome = "allow"
	ToLogin     Outcome = "login"
	ToDashboard Outcome = "dashboard"
)

// Session is the read side of the session store the gate consults.
type Session interface {
	Identity() (domain.Identity, bool)
}

// Decision is the result of checking one navigation.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Allowed reports whether the navigation proceeds.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Check admits an authenticated session whose role is in allowed. An empty
// allowed set admits every authenticated session. Unauthenticated sessions go
// to the login view; sessions with the wrong role go to their own dashboard.
func Check(s Session, allowed ...domain.Role) Decision {
	id, ok := s.Identity()
	if !ok || !id.Role.Valid() {
		return Decision{Outcome: ToLogin, Redirect: LoginPath}
	}
	if len(allowed) == 0 {
		return Decision{Outcome: Allow}
	}
	for _, r := range allowed {
		if r == id.Role {
			return Decision{Outcome: Allow}
		}
	}
	return Decision{Outcome: ToDashboard, Redirect: id.Role.DashboardPath()}
}

// Landing returns where an already-authenticated visitor of the login view
// is sent, or "" when the login view should be shown.
func Landing(s Session) string {
	id, ok := s.Identity()
	if !ok || !id.Role.Valid() {
		return ""
	}
	return id.Role.DashboardPath()
}
