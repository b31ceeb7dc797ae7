package attendance

import (
	"context"

	domain "gymportal/internal/domain/attendance"
)

// QRCodes carries the current site QR payloads, one per audience.
type QRCodes struct {
	UserQR    string
	TrainerQR string
}

// Client is the attendance surface of the backend.
type Client interface {
	// QRCodes fetches the current user/trainer QR payloads.
	QRCodes(ctx context.Context, token string) (QRCodes, error)
	// RefreshQRCodes rotates both payloads server-side and returns the new ones.
	RefreshQRCodes(ctx context.Context, token string) (QRCodes, error)
	// Records lists the attendance ledger.
	Records(ctx context.Context, token string) ([]domain.ScanRecord, error)
	// CheckedIn lists everyone currently checked in.
	CheckedIn(ctx context.Context, token string) ([]domain.ScanRecord, error)
	// SubmitScan posts a scanned QR token to the role-specific endpoint.
	// The backend alone decides whether it becomes a check-in or check-out;
	// the returned record's action drives the toggle display.
	SubmitScan(ctx context.Context, token, role, scanToken string) (domain.ScanRecord, error)
	// LastScan returns the viewer's most recent scan, or nil if none.
	LastScan(ctx context.Context, token, role string) (*domain.ScanRecord, error)
}
