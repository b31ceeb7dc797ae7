package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadEnvelope is returned when a response body matches none of the
// pinned shapes. The contract is deliberately strict: the portal does not
// guess at novel envelopes.
var ErrBadEnvelope = errors.New("unrecognized response envelope")

// DecodeEnvelope decodes a backend response body into out.
//
// The backend has shipped three shapes for the same endpoints over time:
// a bare value, `{"data": <value>}`, and `{"data": {"data": <value>}}` for
// paginated lists. Those three are the pinned contract; they are unwrapped
// here, at the client boundary, so pages consume one canonical shape.
// Any other structure is an error, not a guess.
func DecodeEnvelope(raw []byte, out any) error {
	payload := raw
	for depth := 0; depth < 2; depth++ {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &env); err != nil || env.Data == nil {
			break
		}
		payload = env.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %s", ErrBadEnvelope, snippet(payload))
	}
	return nil
}

func snippet(raw []byte) string {
	const max = 120
	if len(raw) > max {
		raw = raw[:max]
	}
	return string(raw)
}
