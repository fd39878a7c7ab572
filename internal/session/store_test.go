package session

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
	"github.com/evermediavault/vault-admin/internal/storage"
)

type fakeAuth struct {
	data *models.LoginData
	err  error
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*models.LoginData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func newTestStore(t *testing.T) (*Store, *storage.Store) {
	t.Helper()
	st, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewStore(st), st
}

// assertPairInvariant checks token == "" iff user == nil.
func assertPairInvariant(t *testing.T, s *Store) {
	t.Helper()
	if s.Token() == "" {
		assert.Nil(t, s.User(), "cleared token must mean cleared user")
	} else {
		assert.NotNil(t, s.User(), "set token must mean set user")
	}
}

func TestLoginSetsAndPersistsPair(t *testing.T) {
	s, st := newTestStore(t)
	auth := &fakeAuth{data: &models.LoginData{
		Token: "tok-1",
		User:  models.AuthUser{ID: 1, Username: "admin", Role: "admin"},
	}}

	data, err := s.Login(context.Background(), auth, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", data.Token)

	assert.Equal(t, "tok-1", s.Token())
	assert.True(t, s.Authenticated())
	assert.True(t, s.IsAdmin())
	assertPairInvariant(t, s)

	// Both keys persisted.
	assert.True(t, st.Has(constants.StorageKeyToken))
	assert.True(t, st.Has(constants.StorageKeyUser))
}

func TestLoginFailurePropagatesAndLeavesSessionEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	auth := &fakeAuth{err: errors.New("invalid credentials")}

	_, err := s.Login(context.Background(), auth, "admin", "wrong")
	assert.EqualError(t, err, "invalid credentials")
	assert.False(t, s.Authenticated())
	assertPairInvariant(t, s)
}

func TestLogoutIdempotent(t *testing.T) {
	s, st := newTestStore(t)

	// Logout with no session: state unchanged, storage clear.
	s.Logout()
	assert.False(t, s.Authenticated())
	assert.False(t, st.Has(constants.StorageKeyToken))
	assert.False(t, st.Has(constants.StorageKeyUser))

	auth := &fakeAuth{data: &models.LoginData{
		Token: "tok-1",
		User:  models.AuthUser{ID: 1, Username: "admin", Role: "admin"},
	}}
	_, err := s.Login(context.Background(), auth, "admin", "secret")
	require.NoError(t, err)

	s.Logout()
	s.Logout()
	assert.False(t, s.Authenticated())
	assert.False(t, st.Has(constants.StorageKeyToken))
	assert.False(t, st.Has(constants.StorageKeyUser))
	assertPairInvariant(t, s)
}

func TestRestoreRoundTrip(t *testing.T) {
	s, st := newTestStore(t)
	auth := &fakeAuth{data: &models.LoginData{
		Token: "tok-1",
		User:  models.AuthUser{ID: 2, Username: "ops", Role: "uploader"},
	}}
	_, err := s.Login(context.Background(), auth, "ops", "secret")
	require.NoError(t, err)

	// A fresh store over the same storage picks the session back up.
	restored := NewStore(st)
	restored.Restore()
	assert.Equal(t, "tok-1", restored.Token())
	require.NotNil(t, restored.User())
	assert.Equal(t, "ops", restored.User().Username)
	assert.False(t, restored.IsAdmin())
	assertPairInvariant(t, restored)
}

func TestRestoreTokenWithoutUserClearsBoth(t *testing.T) {
	st, err := storage.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.Set(constants.StorageKeyToken, "orphan-token", 0))

	s := NewStore(st)
	s.Restore()

	assert.False(t, s.Authenticated())
	assert.False(t, st.Has(constants.StorageKeyToken), "corrupt pair must be cleared, not retried")
	assertPairInvariant(t, s)
}

func TestRestoreUserWithoutTokenClearsBoth(t *testing.T) {
	st, err := storage.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.Set(constants.StorageKeyUser, models.AuthUser{ID: 3, Username: "ghost"}, 0))

	s := NewStore(st)
	s.Restore()

	assert.False(t, s.Authenticated())
	assert.False(t, st.Has(constants.StorageKeyUser))
	assertPairInvariant(t, s)
}

func TestLoginSurvivesPersistFailure(t *testing.T) {
	dir := t.TempDir()
	st, err := storage.New(dir)
	require.NoError(t, err)

	// Pull the directory out from under the storage layer so every
	// mirror write fails.
	require.NoError(t, os.RemoveAll(dir))

	s := NewStore(st)
	auth := &fakeAuth{data: &models.LoginData{
		Token: "tok-1",
		User:  models.AuthUser{ID: 1, Username: "admin", Role: "admin"},
	}}

	// The in-memory session is authoritative; a failed mirror write must
	// not fail the login or break the pair invariant.
	data, err := s.Login(context.Background(), auth, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", data.Token)
	assert.True(t, s.Authenticated())
	assertPairInvariant(t, s)
}

func TestPairInvariantAcrossSequences(t *testing.T) {
	s, _ := newTestStore(t)
	auth := &fakeAuth{data: &models.LoginData{
		Token: "tok-1",
		User:  models.AuthUser{ID: 1, Username: "admin", Role: "admin"},
	}}

	// Interleave login/logout/restore and observe the invariant at
	// every step.
	steps := []func(){
		func() { s.Restore() },
		func() { _, _ = s.Login(context.Background(), auth, "admin", "secret") },
		func() { s.Restore() },
		func() { s.Logout() },
		func() { s.Restore() },
		func() { _, _ = s.Login(context.Background(), auth, "admin", "secret") },
		func() { s.Invalidate() },
	}
	for _, step := range steps {
		step()
		assertPairInvariant(t, s)
	}
}
