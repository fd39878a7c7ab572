// Package routes implements the declarative route table, the per-navigation
// guard, and the navigator shared with the transport client's 401 handling.
package routes

import (
	"strings"

	"github.com/evermediavault/vault-admin/internal/constants"
)

// Route describes one navigable destination.
type Route struct {
	Path string

	// Public routes need no session (login page, not-found).
	Public bool

	// RequiresAdmin routes are invisible to non-admin users.
	RequiresAdmin bool
}

// table mirrors the console's route records. Unknown paths resolve to the
// public not-found route.
var table = []Route{
	{Path: constants.DefaultLandingPath},
	{Path: "/files"},
	{Path: "/upload"},
	{Path: "/categories"},
	{Path: "/users", RequiresAdmin: true},
	{Path: constants.LoginPath, Public: true},
}

// notFound is the catch-all destination; public like the console's 404 page.
var notFound = Route{Path: "/not-found", Public: true}

// Lookup resolves a path to its route. Trailing slashes are ignored.
func Lookup(path string) Route {
	cleaned := strings.TrimSuffix(path, "/")
	if cleaned == "" {
		cleaned = constants.DefaultLandingPath
	}
	for _, r := range table {
		if r.Path == cleaned {
			return r
		}
	}
	return notFound
}
