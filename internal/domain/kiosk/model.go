package kiosk

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors
var (
	ErrEmptyAccountID = errors.New("kiosk must be tied to a launching account")
	ErrNotActive      = errors.New("kiosk session is not active")
	ErrPINTooShort    = errors.New("kiosk pin must be at least 4 digits")
	ErrWrongPIN       = errors.New("incorrect kiosk pin")
)

// Session represents an active kiosk mode session.
// Kiosk mode locks a shared device to the QR scan widget only; exiting
// requires the locally configured kiosk PIN.
type Session struct {
	ID        string
	AccountID string // The account that launched kiosk mode
	StartedAt time.Time
	EndedAt   time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if s.AccountID == "" {
		return ErrEmptyAccountID
	}
	if s.StartedAt.IsZero() {
		return errors.New("started_at cannot be zero")
	}
	return nil
}

// IsActive returns true if the kiosk session is currently active.
// INVARIANT: Session fields are not mutated
func (s *Session) IsActive() bool {
	return s.EndedAt.IsZero()
}

// End terminates the kiosk session.
// PRE: Session is currently active
// POST: EndedAt is set to current time
func (s *Session) End() error {
	if !s.IsActive() {
		return ErrNotActive
	}
	s.EndedAt = time.Now()
	return nil
}

// HashPIN hashes a kiosk unlock PIN using bcrypt with cost 12.
// The hash is stored in the local settings store, never sent to the backend.
// PRE: pin is at least 4 characters
// POST: Returns the bcrypt hash or an error
func HashPIN(pin string) (string, error) {
	if len(pin) < 4 {
		return "", ErrPINTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN verifies a PIN against the stored hash.
// POST: Returns nil on match, ErrWrongPIN otherwise
func CheckPIN(hash, pin string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) != nil {
		return ErrWrongPIN
	}
	return nil
}
