// Package session owns the bearer token and current-user identity.
//
// The store is the sole writer of session state; the transport client and
// route guard only read through accessors. Token and user are always set
// or cleared together, so no reader ever observes a half-updated pair.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
	"github.com/evermediavault/vault-admin/internal/storage"
)

// AuthAPI is the slice of the API client the store needs for login.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*models.LoginData, error)
}

// Store holds the in-memory session and mirrors it to durable storage
// under two distinct keys.
type Store struct {
	mu      sync.RWMutex
	token   string
	user    *models.AuthUser
	storage *storage.Store
}

// NewStore creates a session store backed by st. The session starts empty;
// call Restore to pick up a previously persisted one.
func NewStore(st *storage.Store) *Store {
	return &Store{storage: st}
}

// Token returns the current bearer token, or empty when logged out.
// Satisfies api.TokenSource; read on every outgoing request.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// User returns a copy of the current user, or nil when logged out.
func (s *Store) User() *models.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAdmin reports whether the current user holds the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin()
}

// Login authenticates via the backend and, on success, atomically sets
// and persists the token/user pair. A rejected login propagates the
// backend's message unchanged; the session stays untouched.
func (s *Store) Login(ctx context.Context, auth AuthAPI, username, password string) (*models.LoginData, error) {
	data, err := auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.setAuth(data.Token, data.User)
	return data, nil
}

// Logout clears the in-memory and persisted session. Idempotent.
func (s *Store) Logout() {
	s.clearAuth()
}

// Invalidate clears the session after a 401. Same effect as Logout; the
// distinct name keeps call sites honest about why the session went away.
func (s *Store) Invalidate() {
	s.clearAuth()
}

// Restore loads the persisted token/user pair at process start. A missing
// or malformed half is treated as corrupt: both are cleared, never a
// partial session.
func (s *Store) Restore() {
	var token string
	var user models.AuthUser

	tokenErr := s.storage.Get(constants.StorageKeyToken, &token)
	userErr := s.storage.Get(constants.StorageKeyUser, &user)

	if tokenErr != nil || userErr != nil || token == "" {
		s.clearAuth()
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
}

func (s *Store) setAuth(token string, user models.AuthUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	u := user
	s.user = &u
	// The in-memory session stands even when the mirror write fails; the
	// failure only costs session survival across restarts, so it is
	// logged rather than surfaced to the login call.
	if err := s.storage.Set(constants.StorageKeyToken, token, 0); err != nil {
		log.Error().Err(err).Msg("failed to persist session token")
	}
	if err := s.storage.Set(constants.StorageKeyUser, user, 0); err != nil {
		log.Error().Err(err).Msg("failed to persist session user")
	}
}

func (s *Store) clearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.storage.Remove(constants.StorageKeyToken)
	s.storage.Remove(constants.StorageKeyUser)
}
