package routes

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	authenticated bool
	admin         bool
}

func (f *fakeSession) Authenticated() bool { return f.authenticated }
func (f *fakeSession) IsAdmin() bool       { return f.admin }

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestGuardProtectedWithoutTokenRedirectsToLogin(t *testing.T) {
	g := NewGuard(&fakeSession{})

	d := g.Check(mustParse(t, "/files?page=2&page_size=20"))
	assert.False(t, d.Allow)

	redirect := mustParse(t, d.RedirectTo)
	assert.Equal(t, "/login", redirect.Path)
	// The original full path+query rides along for the return trip.
	assert.Equal(t, "/files?page=2&page_size=20", redirect.Query().Get("redirect"))
}

func TestGuardProtectedWithTokenAllows(t *testing.T) {
	g := NewGuard(&fakeSession{authenticated: true})

	for _, path := range []string{"/", "/files", "/upload", "/categories"} {
		d := g.Check(mustParse(t, path))
		assert.True(t, d.Allow, "expected %s to be allowed", path)
	}
}

func TestGuardLoginWhileAuthenticatedFollowsRedirectParam(t *testing.T) {
	g := NewGuard(&fakeSession{authenticated: true})

	d := g.Check(mustParse(t, "/login?redirect=%2Ffiles%3Fpage%3D3"))
	assert.False(t, d.Allow)
	assert.Equal(t, "/files?page=3", d.RedirectTo)
}

func TestGuardLoginWhileAuthenticatedDefaultsToLanding(t *testing.T) {
	g := NewGuard(&fakeSession{authenticated: true})

	d := g.Check(mustParse(t, "/login"))
	assert.False(t, d.Allow)
	assert.Equal(t, "/", d.RedirectTo)
}

func TestGuardLoginWithoutTokenAllows(t *testing.T) {
	g := NewGuard(&fakeSession{})

	d := g.Check(mustParse(t, "/login"))
	assert.True(t, d.Allow)
}

func TestGuardAdminRouteRequiresAdminRole(t *testing.T) {
	uploader := NewGuard(&fakeSession{authenticated: true})
	d := uploader.Check(mustParse(t, "/users"))
	assert.False(t, d.Allow)
	assert.Equal(t, "/", d.RedirectTo)

	admin := NewGuard(&fakeSession{authenticated: true, admin: true})
	d = admin.Check(mustParse(t, "/users"))
	assert.True(t, d.Allow)
}

func TestGuardUnknownPathIsPublic(t *testing.T) {
	g := NewGuard(&fakeSession{})

	d := g.Check(mustParse(t, "/no/such/page"))
	assert.True(t, d.Allow)
}

func TestLookupIgnoresTrailingSlash(t *testing.T) {
	assert.Equal(t, "/files", Lookup("/files/").Path)
	assert.Equal(t, "/", Lookup("").Path)
}
