package auth

import (
	"context"

	"gymportal/internal/domain/user"
)

// Client is the auth surface of the backend.
type Client interface {
	// Login exchanges credentials for a bearer token and the profile the
	// backend attached to the login response.
	Login(ctx context.Context, identifier, password string) (LoginResult, error)
	// Logout invalidates the token server-side. Best-effort only.
	Logout(ctx context.Context, token string) error
	// Profile re-fetches the canonical profile for the token.
	Profile(ctx context.Context, token string) (user.User, error)
}

// LoginResult carries the token and profile from POST /login.
type LoginResult struct {
	Token string
	User  user.User
}
