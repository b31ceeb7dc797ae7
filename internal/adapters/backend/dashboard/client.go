package dashboard

import (
	"context"
	"io"

	"gymportal/internal/adapters/backend"
)

// Stats carries the admin dashboard headline numbers.
type Stats struct {
	Members       int
	Trainers      int
	CheckedInNow  int
	ActiveSubs    int
	UnpaidSubs    int
	BookingsToday int
}

// GrowthPoint is one sample of the membership growth series the dashboard
// polls every 30 seconds.
type GrowthPoint struct {
	Period  string
	Members int
	Revenue float64
}

// Export formats accepted by the backend.
const (
	FormatExcel = "excel"
	FormatJSON  = "json"
)

// Client is the dashboard surface of the backend.
type Client interface {
	Stats(ctx context.Context, token string) (Stats, error)
	Growth(ctx context.Context, token string) ([]GrowthPoint, error)
	// Export streams a report blob. The caller owns the body.
	Export(ctx context.Context, token, format string) (body io.ReadCloser, filename, contentType string, err error)
}

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new dashboard client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

func (c *RESTClient) Stats(ctx context.Context, token string) (Stats, error) {
	var w struct {
		Members       any `json:"members"`
		Trainers      any `json:"trainers"`
		CheckedInNow  any `json:"checked_in_now"`
		ActiveSubs    any `json:"active_subscriptions"`
		UnpaidSubs    any `json:"unpaid_subscriptions"`
		BookingsToday any `json:"bookings_today"`
	}
	if err := c.api.Get(ctx, token, "/dashboard/stats", &w); err != nil {
		return Stats{}, err
	}
	return Stats{
		Members:       backend.ParseInt(w.Members),
		Trainers:      backend.ParseInt(w.Trainers),
		CheckedInNow:  backend.ParseInt(w.CheckedInNow),
		ActiveSubs:    backend.ParseInt(w.ActiveSubs),
		UnpaidSubs:    backend.ParseInt(w.UnpaidSubs),
		BookingsToday: backend.ParseInt(w.BookingsToday),
	}, nil
}

func (c *RESTClient) Growth(ctx context.Context, token string) ([]GrowthPoint, error) {
	var wires []struct {
		Period  string `json:"period"`
		Members any    `json:"members"`
		Revenue any    `json:"revenue"`
	}
	if err := c.api.Get(ctx, token, "/dashboard/growth", &wires); err != nil {
		return nil, err
	}
	points := make([]GrowthPoint, 0, len(wires))
	for _, w := range wires {
		points = append(points, GrowthPoint{
			Period:  w.Period,
			Members: backend.ParseInt(w.Members),
			Revenue: backend.ParseFloat(w.Revenue),
		})
	}
	return points, nil
}

func (c *RESTClient) Export(ctx context.Context, token, format string) (io.ReadCloser, string, string, error) {
	return c.api.Download(ctx, token, "/dashboard/export/"+format)
}
