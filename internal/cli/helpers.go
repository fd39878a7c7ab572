// Package cli provides shared wiring helpers for CLI commands.
package cli

import (
	"fmt"

	"github.com/evermediavault/vault-admin/internal/api"
	"github.com/evermediavault/vault-admin/internal/config"
	"github.com/evermediavault/vault-admin/internal/routes"
	"github.com/evermediavault/vault-admin/internal/session"
	"github.com/evermediavault/vault-admin/internal/storage"
)

// loadConfig loads configuration honoring the --config and --base-url
// global flags.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return cfg, nil
}

// newSession opens the durable storage under the config's data directory
// and restores any persisted session pair.
func newSession(cfg *config.Config) (*session.Store, error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	sess := session.NewStore(store)
	sess.Restore()
	return sess, nil
}

// newAPIClient wires the full authenticated stack: config, session,
// transport client, and the unauthorized hook that invalidates the
// session and computes the login destination exactly once per 401 burst.
func newAPIClient() (*api.Client, *session.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	sess, err := newSession(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := api.NewClient(cfg, sess)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}

	nav := routes.NewNavigator(routes.NewGuard(sess), "/")
	client.SetUnauthorizedHandler(func() {
		sess.Invalidate()
		if dest := nav.HandleUnauthorized(); dest != "" {
			GetLogger().Warn().Str("login", dest).Msg("Session expired, credentials cleared")
			fmt.Println("Session expired. Run 'vault-admin login' to sign in again.")
		}
	})

	return client, sess, nil
}

// requireSession fails fast when no authenticated session is present,
// before any request leaves the machine.
func requireSession(sess *session.Store) error {
	if !sess.Authenticated() {
		return fmt.Errorf("not logged in (run 'vault-admin login' first)")
	}
	return nil
}
