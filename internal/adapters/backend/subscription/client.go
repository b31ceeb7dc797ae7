package subscription

import (
	"context"

	domain "gymportal/internal/domain/subscription"
)

// Options carries the dropdown data for the subscription create form.
type Options struct {
	Members      []Option
	PackageTypes []Option
	Statuses     []string
}

// Option is one dropdown entry.
type Option struct {
	ID    string
	Label string
	Price float64 // default price for package-type options
}

// Client is the subscription surface of the backend.
type Client interface {
	List(ctx context.Context, token string) ([]domain.Subscription, error)
	Create(ctx context.Context, token string, s domain.Subscription) (domain.Subscription, error)
	Update(ctx context.Context, token, id string, s domain.Subscription) (domain.Subscription, error)
	Delete(ctx context.Context, token, id string) error
	Options(ctx context.Context, token string) (Options, error)
}
