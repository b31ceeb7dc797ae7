package orchestrators

import (
	"context"
	"log/slog"
	"time"

	attclient "gymportal/internal/adapters/backend/attendance"
	"gymportal/internal/domain/attendance"
	"gymportal/internal/domain/session"
)

// ScanClient is the attendance surface needed by the scan orchestrator.
type ScanClient interface {
	SubmitScan(ctx context.Context, token, role, scanToken string) (attendance.ScanRecord, error)
}

// ScanInput carries a raw scanned QR payload and the scanning session.
type ScanInput struct {
	Session    session.Session
	RawPayload string
}

// ScanResult carries the recorded scan and the action the next scan will take.
type ScanResult struct {
	Record     attendance.ScanRecord
	NextAction string
}

// ScanDeps holds dependencies for Scan.
type ScanDeps struct {
	Attendance ScanClient
}

var _ ScanClient = (attclient.Client)(nil)

// ExecuteScan validates a scanned QR payload and submits it to the backend.
// Malformed payloads and audience mismatches are rejected locally, before
// any network call.
// PRE: Session is authenticated
// POST: On success the backend has recorded the scan; NextAction reflects it
func ExecuteScan(ctx context.Context, input ScanInput, deps ScanDeps) (ScanResult, error) {
	payload, err := attendance.ParsePayload(input.RawPayload)
	if err != nil {
		slog.Info("checkin_event", "event", "scan_rejected", "user_id", input.Session.User.ID, "reason", err.Error())
		return ScanResult{}, err
	}
	if err := payload.MatchesRole(input.Session.User.Role); err != nil {
		slog.Info("checkin_event", "event", "scan_rejected", "user_id", input.Session.User.ID, "reason", "wrong_audience", "qr_type", payload.Type)
		return ScanResult{}, err
	}

	record, err := deps.Attendance.SubmitScan(ctx, input.Session.Token, input.Session.User.Role, payload.Token)
	if err != nil {
		return ScanResult{}, err
	}

	slog.Info("checkin_event", "event", "scan_recorded", "user_id", input.Session.User.ID, "action", record.Action)
	return ScanResult{
		Record:     record,
		NextAction: attendance.NextAction(&record, time.Now()),
	}, nil
}
