package pricing

import (
	"context"

	"gymportal/internal/adapters/backend"
	domain "gymportal/internal/domain/pricing"
)

// Client is the pricing surface of the backend.
type Client interface {
	List(ctx context.Context, token string) ([]domain.Plan, error)
	Create(ctx context.Context, token string, p domain.Plan) (domain.Plan, error)
	Update(ctx context.Context, token, id string, p domain.Plan) (domain.Plan, error)
	Delete(ctx context.Context, token, id string) error
}

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new pricing client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

type wirePlan struct {
	ID           any    `json:"id"`
	Name         string `json:"name"`
	PackageType  string `json:"package_type"`
	Price        any    `json:"price"`
	DefaultPrice any    `json:"default_price"`
	SessionCount any    `json:"session_count"`
	Active       bool   `json:"active"`
}

func (w wirePlan) normalize() domain.Plan {
	return domain.Plan{
		ID:           backend.StringID(w.ID),
		Name:         w.Name,
		PackageType:  w.PackageType,
		Price:        backend.ParseFloat(w.Price),
		DefaultPrice: backend.ParseFloat(w.DefaultPrice),
		SessionCount: backend.ParseInt(w.SessionCount),
		Active:       w.Active,
	}
}

func body(p domain.Plan) map[string]any {
	return map[string]any{
		"name":          p.Name,
		"package_type":  p.PackageType,
		"price":         p.Price,
		"session_count": p.SessionCount,
		"active":        p.Active,
	}
}

func (c *RESTClient) List(ctx context.Context, token string) ([]domain.Plan, error) {
	var wires []wirePlan
	if err := c.api.Get(ctx, token, "/pricing", &wires); err != nil {
		return nil, err
	}
	plans := make([]domain.Plan, 0, len(wires))
	for _, w := range wires {
		plans = append(plans, w.normalize())
	}
	return plans, nil
}

func (c *RESTClient) Create(ctx context.Context, token string, p domain.Plan) (domain.Plan, error) {
	var w wirePlan
	if err := c.api.PostJSON(ctx, token, "/pricing", body(p), &w); err != nil {
		return domain.Plan{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Update(ctx context.Context, token, id string, p domain.Plan) (domain.Plan, error) {
	var w wirePlan
	if err := c.api.PutJSON(ctx, token, "/pricing/"+id, body(p), &w); err != nil {
		return domain.Plan{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Delete(ctx context.Context, token, id string) error {
	return c.api.Delete(ctx, token, "/pricing/"+id)
}
