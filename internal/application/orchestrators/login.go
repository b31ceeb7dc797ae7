package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authclient "gymportal/internal/adapters/backend/auth"
	"gymportal/internal/adapters/cache"
	"gymportal/internal/domain/session"
	"gymportal/internal/domain/user"
)

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Identifier string // email or phone, passed through as-is
	Password   string
}

// LoginResult carries the established session and its cookie token.
type LoginResult struct {
	CookieToken string
	Session     session.Session
	HomePath    string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth     authclient.Client
	Sessions cache.SessionStore
}

var ErrInvalidCredentials = errors.New("invalid email or password")

// ExecuteLogin authenticates against the backend and establishes a portal session.
// PRE: Identifier and Password provided
// POST: Session persisted under a fresh cookie token; role is the profile
// endpoint's, not the login response's
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Identifier == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	res, err := deps.Auth.Login(ctx, input.Identifier, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "identifier", input.Identifier, "error", err.Error())
		return LoginResult{}, ErrInvalidCredentials
	}

	u := res.User
	// The profile endpoint is authoritative for the role; the login payload
	// on some backend versions reports a stale one.
	if profile, err := deps.Auth.Profile(ctx, res.Token); err == nil {
		u = profile
	} else {
		slog.Warn("auth_event", "event", "profile_refetch_failed", "error", err.Error())
	}
	u.Role = user.NormalizeRole(u.Role)

	sess := session.Session{Token: res.Token, User: u, CreatedAt: time.Now()}
	if err := sess.Validate(); err != nil {
		slog.Error("auth_event", "event", "login_bad_session", "error", err.Error())
		return LoginResult{}, ErrInvalidCredentials
	}

	cookieToken := uuid.New().String()
	if err := deps.Sessions.Put(ctx, cookieToken, sess); err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "user_id", u.ID, "role", u.Role)
	return LoginResult{
		CookieToken: cookieToken,
		Session:     sess,
		HomePath:    user.HomePath(u.Role),
	}, nil
}

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	CookieToken string
	BearerToken string
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Auth     authclient.Client
	Sessions cache.SessionStore
}

// ExecuteLogout tears down the portal session. The backend call is
// best-effort; the local session is removed regardless.
// POST: Cookie token no longer resolves to a session
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) {
	if input.BearerToken != "" {
		if err := deps.Auth.Logout(ctx, input.BearerToken); err != nil {
			slog.Warn("auth_event", "event", "backend_logout_failed", "error", err.Error())
		}
	}
	if input.CookieToken != "" {
		if err := deps.Sessions.Delete(ctx, input.CookieToken); err != nil {
			slog.Error("auth_event", "event", "session_delete_failed", "error", err.Error())
		}
	}
	slog.Info("auth_event", "event", "logout")
}
