// Package routes decides whether a navigation is permitted for the current
// session. Decisions are pure functions of session state; nothing here is
// cached, so a decision is never stale with respect to a session change.
package routes

import (
	"github.com/pkittipat/feedloop/models"
	"github.com/pkittipat/feedloop/session"
)

const (
	// LoginPath is where unauthenticated navigations are sent.
	LoginPath = "/login"
	// DashboardPath is the default landing page for authenticated users,
	// and where role-denied navigations are sent.
	DashboardPath = "/dashboard"
)

// Decision is the outcome of a guard check: either the navigation is
// allowed, or the caller should go to RedirectTo instead.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide maps session state and route requirements to a decision.
// Authentication is checked before role membership, so an unauthenticated
// user is always sent to login, never to the dashboard.
func Decide(status session.Status, role models.Role, requiresAuth bool, allowedRoles []models.Role) Decision {
	if requiresAuth && status != session.StatusAuthenticated {
		return Decision{RedirectTo: LoginPath}
	}
	if len(allowedRoles) > 0 && !roleAllowed(role, allowedRoles) {
		return Decision{RedirectTo: DashboardPath}
	}
	return Decision{Allow: true}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
