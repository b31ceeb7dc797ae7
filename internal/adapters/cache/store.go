// Package cache is the portal's local client-state store — the browser
// storage analog. It holds transient, derived copies only: persisted
// sessions, the scanner-flag cache, and kiosk settings. The backend is
// authoritative for everything in here; losing this file logs everyone out
// and nothing else.
package cache

import (
	"context"

	"gymportal/internal/domain/session"
)

// SessionStore persists portal sessions across restarts.
type SessionStore interface {
	Get(ctx context.Context, cookieToken string) (session.Session, bool, error)
	Put(ctx context.Context, cookieToken string, s session.Session) error
	Delete(ctx context.Context, cookieToken string) error
}

// SettingsStore is a small kv store for cached flags and local settings.
// Values are strings; absence is distinct from empty.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
