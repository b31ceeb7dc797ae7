package subscription

import (
	"context"

	"gymportal/internal/adapters/backend"
	domain "gymportal/internal/domain/subscription"
)

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new subscription client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

type wireSubscription struct {
	ID          any    `json:"id"`
	MemberID    any    `json:"member_id"`
	UserID      any    `json:"user_id"`
	MemberName  string `json:"member_name"`
	UserName    string `json:"user_name"`
	PackageType string `json:"package_type"`
	Status      string `json:"status"`
	Paid        string `json:"paid"`
	Price       any    `json:"price"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (w wireSubscription) normalize() domain.Subscription {
	s := domain.Subscription{
		ID:          backend.StringID(w.ID),
		MemberID:    backend.StringID(w.MemberID),
		MemberName:  w.MemberName,
		PackageType: w.PackageType,
		Status:      domain.NormalizeStatus(w.Status),
		Paid:        domain.NormalizePaid(w.Paid),
		Price:       backend.ParseFloat(w.Price),
		StartDate:   backend.ParseTime(w.StartDate),
		EndDate:     backend.ParseTime(w.EndDate),
	}
	if s.MemberID == "" {
		s.MemberID = backend.StringID(w.UserID)
	}
	if s.MemberName == "" {
		s.MemberName = w.UserName
	}
	return s
}

func createBody(s domain.Subscription) map[string]any {
	return map[string]any{
		"member_id":    s.MemberID,
		"package_type": s.PackageType,
		"price":        s.Price,
	}
}

func (c *RESTClient) List(ctx context.Context, token string) ([]domain.Subscription, error) {
	var wires []wireSubscription
	if err := c.api.Get(ctx, token, "/subscriptions", &wires); err != nil {
		return nil, err
	}
	subs := make([]domain.Subscription, 0, len(wires))
	for _, w := range wires {
		subs = append(subs, w.normalize())
	}
	return subs, nil
}

func (c *RESTClient) Create(ctx context.Context, token string, s domain.Subscription) (domain.Subscription, error) {
	var w wireSubscription
	if err := c.api.PostJSON(ctx, token, "/subscriptions", createBody(s), &w); err != nil {
		return domain.Subscription{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Update(ctx context.Context, token, id string, s domain.Subscription) (domain.Subscription, error) {
	var w wireSubscription
	body := createBody(s)
	body["status"] = s.Status
	body["paid"] = s.Paid
	if err := c.api.PatchJSON(ctx, token, "/subscriptions/"+id, body, &w); err != nil {
		return domain.Subscription{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Delete(ctx context.Context, token, id string) error {
	return c.api.Delete(ctx, token, "/subscriptions/"+id)
}

type wireOption struct {
	ID    any     `json:"id"`
	Label string  `json:"label"`
	Name  string  `json:"name"`
	Price any     `json:"price"`
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
		PackageTypes []wireOption `json:"package_types"`
		Statuses     []string     `json:"statuses"`
	}
	if err := c.api.Get(ctx, token, "/subscriptions/options", &w); err != nil {
		return Options{}, err
	}
	opts := Options{Statuses: w.Statuses}
	for _, m := range w.Members {
		opts.Members = append(opts.Members, m.normalize())
	}
	for _, p := range w.PackageTypes {
		opts.PackageTypes = append(opts.PackageTypes, p.normalize())
	}
	return opts, nil
}
