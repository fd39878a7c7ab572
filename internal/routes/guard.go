package routes

import (
	"net/url"

	"github.com/evermediavault/vault-admin/internal/constants"
)

// SessionState is the slice of the session store the guard reads. The
// check is synchronous and never touches the network: token presence
// comes from already-loaded state.
type SessionState interface {
	Authenticated() bool
	IsAdmin() bool
}

// Decision is a guard verdict for one navigation attempt.
type Decision struct {
	Allow bool

	// RedirectTo is the replacement destination (path, possibly with a
	// query) when Allow is false.
	RedirectTo string
}

// Guard decides per navigation whether a destination requires an active
// session. It consumes session state only; no upload coupling.
type Guard struct {
	session SessionState
}

// NewGuard creates a guard reading session.
func NewGuard(session SessionState) *Guard {
	return &Guard{session: session}
}

// Check applies the transition rules to target (path plus optional query):
//
//   - public login destination while authenticated: redirect to the
//     carried redirect target, or the default landing path, query dropped
//   - protected destination without a token: redirect to login carrying
//     the original path+query as the redirect parameter
//   - everything else: allow
func (g *Guard) Check(target *url.URL) Decision {
	route := Lookup(target.Path)

	if route.Public {
		if route.Path == constants.LoginPath && g.session.Authenticated() {
			dest := target.Query().Get(constants.RedirectQueryParam)
			if dest == "" {
				dest = constants.DefaultLandingPath
			}
			return Decision{RedirectTo: dest}
		}
		return Decision{Allow: true}
	}

	if !g.session.Authenticated() {
		query := url.Values{}
		query.Set(constants.RedirectQueryParam, fullPath(target))
		return Decision{RedirectTo: constants.LoginPath + "?" + query.Encode()}
	}

	if route.RequiresAdmin && !g.session.IsAdmin() {
		return Decision{RedirectTo: constants.DefaultLandingPath}
	}

	return Decision{Allow: true}
}

// fullPath renders path plus query, the form carried in redirect params.
func fullPath(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}
