package projections

import (
	"context"
	"log/slog"

	dashclient "gymportal/internal/adapters/backend/dashboard"
)

// DashboardClient defines the backend surface needed by the dashboard projection.
type DashboardClient interface {
	Stats(ctx context.Context, token string) (dashclient.Stats, error)
	Growth(ctx context.Context, token string) ([]dashclient.GrowthPoint, error)
}

// GetDashboardQuery carries input for the admin dashboard projection.
type GetDashboardQuery struct {
	Token string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Dashboard DashboardClient
}

// DashboardResult carries the output of the admin dashboard projection.
type DashboardResult struct {
	Stats  dashclient.Stats
	Growth []dashclient.GrowthPoint
}

// QueryGetDashboard assembles the admin dashboard. The growth series is
// best-effort: a failed fetch leaves it empty rather than blanking the
// headline numbers.
// PRE: Token belongs to an admin session
// POST: Stats are present on success; Growth may be empty
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	stats, err := deps.Dashboard.Stats(ctx, query.Token)
	if err != nil {
		return DashboardResult{}, err
	}

	growth, err := deps.Dashboard.Growth(ctx, query.Token)
	if err != nil {
		slog.Warn("dashboard_event", "event", "growth_fetch_failed", "error", err.Error())
		growth = nil
	}

	return DashboardResult{Stats: stats, Growth: growth}, nil
}
