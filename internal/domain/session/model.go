package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gymportal/internal/domain/user"
)

// Session is the portal's local copy of an authenticated backend session:
// the bearer token issued by the backend plus the profile it belongs to.
// It is destroyed on logout or on the first 401.
type Session struct {
	Token     string
	User      user.User
	CreatedAt time.Time
}

var ErrMissingToken = errors.New("session token is required")

// Validate checks required fields for a Session.
// PRE: Session struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Session) Validate() error {
	if s.Token == "" {
		return ErrMissingToken
	}
	return s.User.Validate()
}

// Expired reports whether the session should be treated as absent.
//
// The backend remains authoritative — the portal never verifies token
// signatures. But when the bearer token is a JWT carrying an exp claim,
// honoring it locally avoids a doomed round-trip that would end in a 401.
// Opaque tokens never expire locally.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := tokenExpiry(s.Token)
	if !ok {
		return false
	}
	return now.After(exp)
}

// tokenExpiry extracts the exp claim from a JWT without verification.
// Returns false for non-JWT or claimless tokens.
func tokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
