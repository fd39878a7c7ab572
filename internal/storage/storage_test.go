package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGetRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("token", "abc123", 0))

	var got string
	require.NoError(t, s.Get("token", &got))
	assert.Equal(t, "abc123", got)
	assert.True(t, s.Has("token"))
}

func TestStoreGetMissingKey(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	var got string
	assert.ErrorIs(t, s.Get("nope", &got), ErrNotFound)
	assert.False(t, s.Has("nope"))
}

func TestStoreExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	s, err := New(t.TempDir(), WithClock(clock))
	require.NoError(t, err)

	require.NoError(t, s.Set("token", "abc123", time.Minute))

	var got string
	require.NoError(t, s.Get("token", &got))

	// Advance past the expiry; the value is absent and the file is removed.
	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, s.Get("token", &got), ErrNotFound)

	_, statErr := os.Stat(filepath.Join(s.Dir(), "token.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStoreCorruptValueCleared(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("{not json"), 0600))

	var got string
	assert.ErrorIs(t, s.Get("bad", &got), ErrNotFound)

	_, statErr := os.Stat(filepath.Join(s.Dir(), "bad.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStoreRemoveIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("k", 42, 0))
	s.Remove("k")
	s.Remove("k")
	assert.False(t, s.Has("k"))
}

func TestStoreClear(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("a", 1, 0))
	require.NoError(t, s.Set("b", 2, 0))
	require.NoError(t, s.Clear())

	assert.False(t, s.Has("a"))
	assert.False(t, s.Has("b"))
}

func TestStoreStructValue(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	type user struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, s.Set("user", user{ID: 7, Name: "ops"}, 0))

	var got user
	require.NoError(t, s.Get("user", &got))
	assert.Equal(t, user{ID: 7, Name: "ops"}, got)
}
