package booking

import (
	"errors"
	"time"

	"gymportal/internal/domain/subscription"
)

// Booking is the canonical shape for a training booking: a member booked
// onto a trainer's package for a number of sessions.
type Booking struct {
	ID           string
	MemberID     string
	MemberName   string
	TrainerID    string
	TrainerName  string
	PackageType  string
	SessionCount int
	Price        float64
	Status       string // subscription display vocabulary
	CreatedAt    time.Time
}

var (
	ErrMissingMember  = errors.New("a member must be selected")
	ErrMissingTrainer = errors.New("a trainer must be selected")
)

// Validate checks the create-form fields before any request is sent.
// PRE: Booking struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (b *Booking) Validate() error {
	if b.MemberID == "" {
		return ErrMissingMember
	}
	if b.TrainerID == "" {
		return ErrMissingTrainer
	}
	if b.PackageType == "" {
		return errors.New("package type must be selected")
	}
	if b.SessionCount <= 0 {
		return errors.New("session count must be positive")
	}
	if b.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

// NormalizeStatus shares the subscription display vocabulary — bookings and
// subscriptions drift through the same backend enums.
func NormalizeStatus(raw string) string {
	return subscription.NormalizeStatus(raw)
}
