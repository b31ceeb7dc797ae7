package subscription

import (
	"errors"
	"time"
)

// Display status vocabulary. The backend emits a wider, drifting set of
// strings; pages only ever see these.
const (
	StatusActive  = "active"
	StatusOnHold  = "on-hold"
	StatusExpired = "expired"
	StatusPending = "pending"
)

// Subscription is the canonical shape for a member's subscription as shown
// on the admin and member pages.
type Subscription struct {
	ID          string
	MemberID    string
	MemberName  string
	PackageType string
	Status      string // display vocabulary
	Paid        bool
	Price       float64
	StartDate   time.Time
	EndDate     time.Time
}

var ErrMissingMember = errors.New("subscription must name a member")

// Validate checks required fields for a Subscription create form.
// PRE: Subscription struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Subscription) Validate() error {
	if s.MemberID == "" {
		return ErrMissingMember
	}
	if s.PackageType == "" {
		return errors.New("package type must be selected")
	}
	if s.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

// NormalizeStatus maps the backend's status enums into the display
// vocabulary. Unknown strings pass through unchanged so new backend states
// are visible rather than hidden.
func NormalizeStatus(raw string) string {
	switch raw {
	case "confirmed", "active", "Active", "ACTIVE":
		return StatusActive
	case "hold", "on_hold", "on-hold", "cancelled", "canceled":
		return StatusOnHold
	case "expired", "ended", "lapsed":
		return StatusExpired
	case "pending", "awaiting_payment", "unconfirmed":
		return StatusPending
	}
	return raw
}

// NormalizePaid maps the backend's paid markers ("paid"/"unpaid", "1"/"0",
// "yes"/"no") onto a boolean.
func NormalizePaid(raw string) bool {
	switch raw {
	case "paid", "1", "yes", "true", "Paid":
		return true
	}
	return false
}
