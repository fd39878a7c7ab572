// Package models defines the data types exchanged with the media-vault backend.
package models

// AuthUser is the identity attached to an authenticated session.
type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginData is the payload of a successful login response.
type LoginData struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// LoginRequest is the body sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// IsAdmin reports whether the user holds the admin role.
func (u AuthUser) IsAdmin() bool {
	return u.Role == "admin"
}
