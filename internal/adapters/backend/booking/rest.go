package booking

import (
	"context"

	"gymportal/internal/adapters/backend"
	domain "gymportal/internal/domain/booking"
)

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new booking client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

type wireBooking struct {
	ID           any    `json:"id"`
	MemberID     any    `json:"member_id"`
	MemberName   string `json:"member_name"`
	TrainerID    any    `json:"trainer_id"`
	TrainerName  string `json:"trainer_name"`
	PackageType  string `json:"package_type"`
	SessionCount any    `json:"session_count"`
	Sessions     any    `json:"sessions"`
	Price        any    `json:"price"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func (w wireBooking) normalize() domain.Booking {
	b := domain.Booking{
		ID:           backend.StringID(w.ID),
		MemberID:     backend.StringID(w.MemberID),
		MemberName:   w.MemberName,
		TrainerID:    backend.StringID(w.TrainerID),
		TrainerName:  w.TrainerName,
		PackageType:  w.PackageType,
		SessionCount: backend.ParseInt(w.SessionCount),
		Price:        backend.ParseFloat(w.Price),
		Status:       domain.NormalizeStatus(w.Status),
		CreatedAt:    backend.ParseTime(w.CreatedAt),
	}
	if b.SessionCount == 0 {
		b.SessionCount = backend.ParseInt(w.Sessions)
	}
	return b
}

func body(b domain.Booking) map[string]any {
	return map[string]any{
		"member_id":     b.MemberID,
		"trainer_id":    b.TrainerID,
		"package_type":  b.PackageType,
		"session_count": b.SessionCount,
		"price":         b.Price,
	}
}

func (c *RESTClient) List(ctx context.Context, token string) ([]domain.Booking, error) {
	var wires []wireBooking
	if err := c.api.Get(ctx, token, "/bookings", &wires); err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(wires))
	for _, w := range wires {
		bookings = append(bookings, w.normalize())
	}
	return bookings, nil
}

func (c *RESTClient) Create(ctx context.Context, token string, b domain.Booking) (domain.Booking, error) {
	var w wireBooking
	if err := c.api.PostJSON(ctx, token, "/bookings", body(b), &w); err != nil {
		return domain.Booking{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Update(ctx context.Context, token, id string, b domain.Booking) (domain.Booking, error) {
	var w wireBooking
	payload := body(b)
	payload["status"] = b.Status
	if err := c.api.PatchJSON(ctx, token, "/bookings/"+id, payload, &w); err != nil {
		return domain.Booking{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Delete(ctx context.Context, token, id string) error {
	return c.api.Delete(ctx, token, "/bookings/"+id)
}

type wireOption struct {
	ID    any    `json:"id"`
	Label string `json:"label"`
	Name  string `json:"name"`
	Price any    `json:"price"`
}

func (w wireOption) normalize() Option {
	o := Option{ID: backend.StringID(w.ID), Label: w.Label, Price: backend.ParseFloat(w.Price)}
	if o.Label == "" {
		o.Label = w.Name
	}
	return o
}

func (c *RESTClient) Options(ctx context.Context, token string) (Options, error) {
	var w struct {
		Members      []wireOption `json:"members"`
		Trainers     []wireOption `json:"trainers"`
		PackageTypes []wireOption `json:"package_types"`
		Statuses     []string     `json:"statuses"`
	}
	if err := c.api.Get(ctx, token, "/bookings/options", &w); err != nil {
		return Options{}, err
	}
	opts := Options{Statuses: w.Statuses}
	for _, m := range w.Members {
		opts.Members = append(opts.Members, m.normalize())
	}
	for _, tr := range w.Trainers {
		opts.Trainers = append(opts.Trainers, tr.normalize())
	}
	for _, p := range w.PackageTypes {
		opts.PackageTypes = append(opts.PackageTypes, p.normalize())
	}
	return opts, nil
}
