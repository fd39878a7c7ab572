package api

import (
	"context"
	"strings"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
)

// loginPath is the admin authentication endpoint.
const loginPath = "/auth/admin/login"

// Login authenticates against the backend. On rejection the backend's
// message is propagated unchanged inside a KindAuth error; a login 401
// never triggers the session-expired redirect.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginData, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.APITimeout)
	defer cancel()

	req := models.LoginRequest{
		Username: strings.TrimSpace(username),
		Password: password,
	}

	var data models.LoginData
	if err := c.postJSON(ctx, loginPath, req, &data, callOptions{authAttempt: true}); err != nil {
		return nil, err
	}
	if data.Token == "" {
		return nil, &Error{Kind: KindAuth, Message: "login response missing token"}
	}
	return &data, nil
}
