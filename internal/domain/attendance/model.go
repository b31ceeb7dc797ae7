package attendance

import (
	"errors"
	"net/url"
	"time"

	"gymportal/internal/domain/user"
)

// Scan actions as reported by the backend's attendance ledger.
const (
	ActionCheckIn  = "check_in"
	ActionCheckOut = "check_out"
)

// ScanRecord is one entry of the backend attendance ledger, as consumed
// by the toggle widget and the records pages.
type ScanRecord struct {
	ID        string
	UserID    string
	UserName  string
	Action    string
	Timestamp time.Time
}

// Validate checks required fields for a ScanRecord.
// PRE: ScanRecord struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *ScanRecord) Validate() error {
	if r.Action != ActionCheckIn && r.Action != ActionCheckOut {
		return errors.New("scan action must be check_in or check_out")
	}
	if r.Timestamp.IsZero() {
		return errors.New("scan timestamp must be set")
	}
	return nil
}

// NextAction derives the "next expected action" the toggle widget displays
// from the most recent known scan.
//
// Only a scan from the current calendar day drives the toggle; anything
// older resets to undetermined and the widget offers check-in. The returned
// action is display state only — the backend alone decides what a submitted
// scan becomes.
//
// INVARIANT: NextAction(check_in today) == check_out and vice versa
func NextAction(last *ScanRecord, now time.Time) string {
	if last == nil || !sameDay(last.Timestamp, now) {
		return ActionCheckIn
	}
	if last.Action == ActionCheckIn {
		return ActionCheckOut
	}
	return ActionCheckIn
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// QR payload type declarations, matched against the viewing role.
const (
	QRTypeMember  = "member"
	QRTypeTrainer = "trainer"
)

// Payload is a decoded QR code payload.
type Payload struct {
	Token string
	Type  string // optional; empty when the QR declares no audience
}

var (
	ErrMalformedPayload = errors.New("qr payload is not a valid url")
	ErrMissingScanToken = errors.New("qr payload has no token")
	ErrWrongAudience    = errors.New("this qr code is not for your role")
)

// ParsePayload decodes a raw QR payload. The payload must be an absolute
// URL carrying a `token` query parameter; `type` is optional. Malformed
// payloads are rejected here, before any network round-trip.
// POST: Returns a Payload with a non-empty Token, or an error
func ParsePayload(raw string) (Payload, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Payload{}, ErrMalformedPayload
	}
	q := u.Query()
	token := q.Get("token")
	if token == "" {
		return Payload{}, ErrMissingScanToken
	}
	return Payload{Token: token, Type: normalizeQRType(q.Get("type"))}, nil
}

// MatchesRole enforces that a QR code declaring an audience is scanned by
// that audience. Payloads without a type match any role.
func (p Payload) MatchesRole(role string) error {
	if p.Type == "" {
		return nil
	}
	switch role {
	case user.RoleMember:
		if p.Type != QRTypeMember {
			return ErrWrongAudience
		}
	case user.RoleTrainer:
		if p.Type != QRTypeTrainer {
			return ErrWrongAudience
		}
	default:
		return ErrWrongAudience
	}
	return nil
}

// normalizeQRType maps the backend's QR type vocabulary ("user" on older
// codes) onto the portal's.
func normalizeQRType(t string) string {
	switch t {
	case "user", "member":
		return QRTypeMember
	case "trainer", "coach":
		return QRTypeTrainer
	}
	return t
}
