package booking

import (
	"context"

	domain "gymportal/internal/domain/booking"
)

// Option is one dropdown entry for the booking create form.
type Option struct {
	ID    string
	Label string
	Price float64
}

// Options carries the dropdown data from GET /bookings/options.
type Options struct {
	Members      []Option
	Trainers     []Option
	PackageTypes []Option
	Statuses     []string
}

// Client is the booking surface of the backend.
type Client interface {
	List(ctx context.Context, token string) ([]domain.Booking, error)
	Create(ctx context.Context, token string, b domain.Booking) (domain.Booking, error)
	Update(ctx context.Context, token, id string, b domain.Booking) (domain.Booking, error)
	Delete(ctx context.Context, token, id string) error
	Options(ctx context.Context, token string) (Options, error)
}
