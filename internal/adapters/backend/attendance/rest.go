package attendance

import (
	"context"
	"errors"

	"gymportal/internal/adapters/backend"
	domain "gymportal/internal/domain/attendance"
	"gymportal/internal/domain/user"
)

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new attendance client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

type wireQR struct {
	UserQR    string `json:"user_qr"`
	TrainerQR string `json:"trainer_qr"`
}

type wireScan struct {
	ID        any    `json:"id"`
	UserID    any    `json:"user_id"`
	UserName  string `json:"user_name"`
	Name      string `json:"name"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	ScannedAt string `json:"scanned_at"`
}

func (w wireScan) normalize() domain.ScanRecord {
	r := domain.ScanRecord{
		ID:       backend.StringID(w.ID),
		UserID:   backend.StringID(w.UserID),
		UserName: w.UserName,
		Action:   normalizeAction(w.Action),
	}
	if r.UserName == "" {
		r.UserName = w.Name
	}
	ts := w.Timestamp
	if ts == "" {
		ts = w.ScannedAt
	}
	r.Timestamp = backend.ParseTime(ts)
	return r
}

// normalizeAction maps the backend's action spellings ("checkin",
// "check-out") onto the ledger vocabulary.
func normalizeAction(a string) string {
	switch a {
	case "check_in", "checkin", "check-in", "in":
		return domain.ActionCheckIn
	case "check_out", "checkout", "check-out", "out":
		return domain.ActionCheckOut
	}
	return a
}

func (c *RESTClient) QRCodes(ctx context.Context, token string) (QRCodes, error) {
	var w wireQR
	if err := c.api.Get(ctx, token, "/attendance/qr", &w); err != nil {
		return QRCodes{}, err
	}
	return QRCodes{UserQR: w.UserQR, TrainerQR: w.TrainerQR}, nil
}

func (c *RESTClient) RefreshQRCodes(ctx context.Context, token string) (QRCodes, error) {
	if err := c.api.PostJSON(ctx, token, "/attendance/qr/refresh", nil, nil); err != nil {
		return QRCodes{}, err
	}
	// The refresh response body has been inconsistent across backend
	// versions; the follow-up GET is the authoritative read.
	return c.QRCodes(ctx, token)
}

func (c *RESTClient) Records(ctx context.Context, token string) ([]domain.ScanRecord, error) {
	return c.scanList(ctx, token, "/attendance/records")
}

func (c *RESTClient) CheckedIn(ctx context.Context, token string) ([]domain.ScanRecord, error) {
	return c.scanList(ctx, token, "/attendance/checked-in")
}

func (c *RESTClient) scanList(ctx context.Context, token, path string) ([]domain.ScanRecord, error) {
	var wires []wireScan
	if err := c.api.Get(ctx, token, path, &wires); err != nil {
		return nil, err
	}
	records := make([]domain.ScanRecord, 0, len(wires))
	for _, w := range wires {
		records = append(records, w.normalize())
	}
	return records, nil
}

// checkInPath returns the role-specific check-in route prefix.
func checkInPath(role string) (string, error) {
	switch role {
	case user.RoleMember:
		return "/user/check-in", nil
	case user.RoleTrainer:
		return "/trainer/check-in", nil
	}
	return "", errors.New("no check-in endpoint for role " + role)
}

func (c *RESTClient) SubmitScan(ctx context.Context, token, role, scanToken string) (domain.ScanRecord, error) {
	path, err := checkInPath(role)
	if err != nil {
		return domain.ScanRecord{}, err
	}
	var w wireScan
	body := map[string]string{"token": scanToken}
	if err := c.api.PostJSON(ctx, token, path+"/scan", body, &w); err != nil {
		return domain.ScanRecord{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) LastScan(ctx context.Context, token, role string) (*domain.ScanRecord, error) {
	path, err := checkInPath(role)
	if err != nil {
		return nil, err
	}
	var wires []wireScan
	if err := c.api.Get(ctx, token, path, &wires); err != nil {
		return nil, err
	}
	if len(wires) == 0 {
		return nil, nil
	}
	// The backend returns the ledger newest-first.
	r := wires[0].normalize()
	return &r, nil
}
