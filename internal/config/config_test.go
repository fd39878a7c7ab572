package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermediavault/vault-admin/internal/constants"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultUploadConcurrency, cfg.MaxConcurrent)
	assert.Empty(t, cfg.BaseURL)
}

func TestLoadParsesINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := "[vault]\nbase_url = https://vault.example.com\nmax_concurrent = 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://vault.example.com", cfg.BaseURL)
	assert.Equal(t, 8, cfg.MaxConcurrent)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("[vault]\nbase_url = https://file.example\n"), 0600))

	t.Setenv("VAULT_BASE_URL", "https://env.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.BaseURL)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBaseURL)

	cfg.BaseURL = "https://vault.example.com"
	assert.NoError(t, cfg.Validate())

	cfg.MaxConcurrent = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxConcurrent)

	cfg.MaxConcurrent = constants.MaxUploadConcurrency + 1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxConcurrent)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config")

	cfg := Default()
	cfg.BaseURL = "https://vault.example.com"
	cfg.MaxConcurrent = 2
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.BaseURL, loaded.BaseURL)
	assert.Equal(t, cfg.MaxConcurrent, loaded.MaxConcurrent)
}
