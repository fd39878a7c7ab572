package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/evermediavault/vault-admin/internal/constants"
)

// maxRedirectHops bounds guard redirect chains. Two hops cover every legal
// chain (target -> login -> landing); more means a table bug.
const maxRedirectHops = 4

// Navigator owns the current location and applies guard decisions to every
// navigation. It also implements the 401 redirect with loop avoidance and
// the at-most-once guarantee for re-entrant 401 bursts.
type Navigator struct {
	guard    *Guard
	basePath string

	mu      sync.RWMutex
	current *url.URL

	// redirecting is set while a 401 redirect is pending, so a burst of
	// 401s from concurrent calls produces a single redirect.
	redirecting atomic.Bool
}

// NewNavigator creates a navigator at the default landing path. basePath
// is the application's mount prefix, usually empty.
func NewNavigator(guard *Guard, basePath string) *Navigator {
	return &Navigator{
		guard:    guard,
		basePath: strings.TrimSuffix(basePath, "/"),
		current:  &url.URL{Path: constants.DefaultLandingPath},
	}
}

// Current returns the current location as path plus query.
func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return fullPath(n.current)
}

// Navigate runs the guard on target (a path with optional query), follows
// its redirects, and commits the final location. Returns the committed
// location.
func (n *Navigator) Navigate(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid navigation target %q: %w", target, err)
	}

	for hop := 0; hop < maxRedirectHops; hop++ {
		decision := n.guard.Check(u)
		if decision.Allow {
			n.commit(u)
			return fullPath(u), nil
		}
		u, err = url.Parse(decision.RedirectTo)
		if err != nil {
			return "", fmt.Errorf("invalid guard redirect %q: %w", decision.RedirectTo, err)
		}
	}
	return "", fmt.Errorf("navigation to %q did not settle after %d redirects", target, maxRedirectHops)
}

// commit records the new location and re-arms 401 handling once the flow
// has moved somewhere.
func (n *Navigator) commit(u *url.URL) {
	n.mu.Lock()
	n.current = u
	n.mu.Unlock()
	n.redirecting.Store(false)
}

// LoginRedirect computes the 401 redirect destination for the current
// location. If already at the login destination (trailing slash ignored)
// or at the application base path, the result is login with no query —
// never a redirect parameter pointing at login itself. Otherwise the
// pre-401 path+query rides along URL-encoded, so re-authentication
// returns the user to where they were.
func (n *Navigator) LoginRedirect() string {
	loginPath := n.basePath + constants.LoginPath
	current := n.Current()

	trimmed := strings.TrimSuffix(current, "/")
	if trimmed == loginPath || current == n.basePath || current == n.basePath+"/" || trimmed == "" {
		return loginPath
	}
	if path := strings.SplitN(trimmed, "?", 2)[0]; path == loginPath {
		return loginPath
	}

	query := url.Values{}
	query.Set(constants.RedirectQueryParam, current)
	return loginPath + "?" + query.Encode()
}

// HandleUnauthorized reacts to a 401: it moves the flow to the login
// destination computed by LoginRedirect. Re-entrant calls while a
// redirect is already pending are dropped, so stacked 401s from sibling
// in-flight requests cannot stack redirects. Returns the destination, or
// "" when the call was suppressed.
func (n *Navigator) HandleUnauthorized() string {
	if !n.redirecting.CompareAndSwap(false, true) {
		return ""
	}

	dest := n.LoginRedirect()
	u, err := url.Parse(dest)
	if err != nil {
		// Guard-computed destination; parse failure means a table bug.
		n.redirecting.Store(false)
		return ""
	}

	n.mu.Lock()
	n.current = u
	n.mu.Unlock()
	return dest
}
