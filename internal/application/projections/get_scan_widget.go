package projections

import (
	"context"
	"time"

	"gymportal/internal/domain/attendance"
	"gymportal/internal/domain/scanner"
	"gymportal/internal/domain/session"
)

// ScanWidgetClient defines the attendance surface needed by the scan widget.
type ScanWidgetClient interface {
	LastScan(ctx context.Context, token, role string) (*attendance.ScanRecord, error)
}

// FlagResolver resolves the scanner-enabled flag for one request.
type FlagResolver interface {
	Resolve(ctx context.Context, token string) scanner.State
}

// GetScanWidgetQuery carries input for the scan widget projection.
type GetScanWidgetQuery struct {
	Session session.Session
}

// GetScanWidgetDeps holds dependencies for the scan widget projection.
type GetScanWidgetDeps struct {
	Attendance ScanWidgetClient
	Flag       FlagResolver
}

// ScanWidgetResult drives the member and trainer check-in widget.
type ScanWidgetResult struct {
	ScannerEnabled bool
	FlagSource     string
	LastScan       *attendance.ScanRecord
	NextAction     string
}

// QueryGetScanWidget assembles the check-in widget state: whether the
// scanner is enabled, the most recent scan, and which action the next
// scan will take.
// POST: NextAction is always check_in or check_out
func QueryGetScanWidget(ctx context.Context, query GetScanWidgetQuery, deps GetScanWidgetDeps) (ScanWidgetResult, error) {
	state := deps.Flag.Resolve(ctx, query.Session.Token)

	last, err := deps.Attendance.LastScan(ctx, query.Session.Token, query.Session.User.Role)
	if err != nil {
		return ScanWidgetResult{}, err
	}

	return ScanWidgetResult{
		ScannerEnabled: state.Enabled,
		FlagSource:     state.Source,
		LastScan:       last,
		NextAction:     attendance.NextAction(last, time.Now()),
	}, nil
}
