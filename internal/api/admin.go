package api

import (
	"context"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
)

// Admin list endpoints. Pure request/response mapping over the shared
// envelope; the backend enforces role restrictions.
const (
	categoriesPath = "/categories"
	usersPath      = "/users"
	statsPath      = "/stats"
)

// ListCategories retrieves one page of media categories.
func (c *Client) ListCategories(ctx context.Context, q models.ListQuery) ([]models.Category, *models.PageMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.APITimeout)
	defer cancel()

	var categories []models.Category
	var meta models.PageMeta
	if err := c.getJSON(ctx, categoriesPath, pageQuery(q), &categories, &meta); err != nil {
		return nil, nil, err
	}
	return categories, &meta, nil
}

// ListUsers retrieves one page of users. Admin-restricted.
func (c *Client) ListUsers(ctx context.Context, q models.ListQuery) ([]models.AdminUser, *models.PageMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.APITimeout)
	defer cancel()

	var users []models.AdminUser
	var meta models.PageMeta
	if err := c.getJSON(ctx, usersPath, pageQuery(q), &users, &meta); err != nil {
		return nil, nil, err
	}
	return users, &meta, nil
}

// Stats retrieves the dashboard counters. Requires an active session.
func (c *Client) Stats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.APITimeout)
	defer cancel()

	var stats models.DashboardStats
	if err := c.getJSON(ctx, statsPath, nil, &stats, nil); err != nil {
		return nil, err
	}
	return &stats, nil
}
