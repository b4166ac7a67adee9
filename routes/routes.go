package routes

import (
	"github.com/pkittipat/feedloop/models"
	"github.com/pkittipat/feedloop/session"
)

// Route is pure configuration for one navigable page.
type Route struct {
	Path         string
	RequiresAuth bool
	// AllowedRoles restricts the route to the listed roles; empty means any
	// authenticated role.
	AllowedRoles []models.Role
	// RedirectAuthenticated marks public auth pages (login, register) that
	// bounce already-authenticated users to the dashboard.
	RedirectAuthenticated bool
}

// Decide evaluates the guard for this route.
func (r Route) Decide(status session.Status, role models.Role) Decision {
	if r.RedirectAuthenticated && status == session.StatusAuthenticated {
		return Decision{RedirectTo: DashboardPath}
	}
	return Decide(status, role, r.RequiresAuth, r.AllowedRoles)
}

// Table mirrors the application's navigation map.
var Table = []Route{
	{Path: "/login", RedirectAuthenticated: true},
	{Path: "/register", RedirectAuthenticated: true},
	{Path: "/dashboard", RequiresAuth: true},
	{Path: "/feedback", RequiresAuth: true},
	{Path: "/feedback/create", RequiresAuth: true, AllowedRoles: []models.Role{models.RoleManager}},
	{Path: "/feedback/:id", RequiresAuth: true},
	{Path: "/employees", RequiresAuth: true, AllowedRoles: []models.Role{models.RoleManager}},
	{Path: "/profile", RequiresAuth: true},
	{Path: "/requests", RequiresAuth: true},
}

// Lookup finds the route registered for path.
func Lookup(path string) (Route, bool) {
	for _, r := range Table {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
