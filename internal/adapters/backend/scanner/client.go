package scanner

import (
	"context"

	"gymportal/internal/adapters/backend"
)

// Client reads and writes the backend-owned scanner-enabled flag.
type Client interface {
	Enabled(ctx context.Context, token string) (bool, error)
	SetEnabled(ctx context.Context, token string, enabled bool) error
}

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new scanner flag client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

func (c *RESTClient) Enabled(ctx context.Context, token string) (bool, error) {
	var w struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.api.Get(ctx, token, "/attendance/scanner", &w); err != nil {
		return false, err
	}
	return w.IsActive, nil
}

func (c *RESTClient) SetEnabled(ctx context.Context, token string, enabled bool) error {
	body := map[string]bool{"isActive": enabled}
	return c.api.PostJSON(ctx, token, "/attendance/scanner", body, nil)
}
