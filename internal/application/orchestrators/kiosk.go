package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymportal/internal/adapters/cache"
	"gymportal/internal/domain/kiosk"
	"gymportal/internal/domain/user"
)

const (
	kioskPINKey     = "kiosk_pin_hash"
	kioskSessionKey = "kiosk_session"
)

// ErrNoKioskPIN is returned when kiosk mode is used before a PIN is set.
var ErrNoKioskPIN = errors.New("no kiosk PIN configured")

// SetKioskPINInput carries input for configuring the kiosk unlock PIN.
type SetKioskPINInput struct {
	Role string
	PIN  string
}

// SetKioskPINDeps holds dependencies for SetKioskPIN.
type SetKioskPINDeps struct {
	Settings cache.SettingsStore
}

// ExecuteSetKioskPIN stores a hashed kiosk unlock PIN.
// PRE: Caller is an admin
// POST: Only the hash is stored, never the PIN itself
func ExecuteSetKioskPIN(ctx context.Context, input SetKioskPINInput, deps SetKioskPINDeps) error {
	if input.Role != user.RoleAdmin {
		return errors.New("only an admin can set the kiosk PIN")
	}
	hash, err := kiosk.HashPIN(input.PIN)
	if err != nil {
		return err
	}
	if err := deps.Settings.Put(ctx, kioskPINKey, hash); err != nil {
		return err
	}
	slog.Info("kiosk_event", "event", "pin_set")
	return nil
}

// LaunchKioskInput carries input for locking a screen into kiosk mode.
type LaunchKioskInput struct {
	AccountID string
	Role      string
}

// LaunchKioskDeps holds dependencies for LaunchKiosk.
type LaunchKioskDeps struct {
	Settings cache.SettingsStore
}

// ExecuteLaunchKiosk starts a kiosk session tied to the launching account.
// PRE: A kiosk PIN has been configured; caller is admin or trainer
// POST: The active kiosk session is persisted locally
func ExecuteLaunchKiosk(ctx context.Context, input LaunchKioskInput, deps LaunchKioskDeps) (kiosk.Session, error) {
	if input.Role != user.RoleAdmin && input.Role != user.RoleTrainer {
		return kiosk.Session{}, errors.New("only admin or trainer can launch kiosk mode")
	}
	if _, ok, err := deps.Settings.Get(ctx, kioskPINKey); err != nil {
		return kiosk.Session{}, err
	} else if !ok {
		return kiosk.Session{}, ErrNoKioskPIN
	}

	session := kiosk.Session{
		ID:        uuid.New().String(),
		AccountID: input.AccountID,
		StartedAt: time.Now(),
	}
	if err := session.Validate(); err != nil {
		return kiosk.Session{}, err
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return kiosk.Session{}, err
	}
	if err := deps.Settings.Put(ctx, kioskSessionKey, string(raw)); err != nil {
		return kiosk.Session{}, err
	}

	slog.Info("kiosk_event", "event", "kiosk_launched", "account_id", input.AccountID)
	return session, nil
}

// ActiveKioskSession returns the current kiosk session, if one is running.
func ActiveKioskSession(ctx context.Context, settings cache.SettingsStore) (kiosk.Session, bool, error) {
	raw, ok, err := settings.Get(ctx, kioskSessionKey)
	if err != nil || !ok {
		return kiosk.Session{}, false, err
	}
	var s kiosk.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return kiosk.Session{}, false, err
	}
	if !s.IsActive() {
		return kiosk.Session{}, false, nil
	}
	return s, true, nil
}

// ExitKioskInput carries input for unlocking kiosk mode.
type ExitKioskInput struct {
	PIN string
}

// ExitKioskDeps holds dependencies for ExitKiosk.
type ExitKioskDeps struct {
	Settings cache.SettingsStore
}

// ExecuteExitKiosk verifies the PIN and ends the active kiosk session.
// PRE: PIN must be non-empty
// POST: Returns nil and clears the session if the PIN is correct
func ExecuteExitKiosk(ctx context.Context, input ExitKioskInput, deps ExitKioskDeps) error {
	if input.PIN == "" {
		return errors.New("PIN is required to exit kiosk mode")
	}

	hash, ok, err := deps.Settings.Get(ctx, kioskPINKey)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoKioskPIN
	}
	if err := kiosk.CheckPIN(hash, input.PIN); err != nil {
		slog.Info("kiosk_event", "event", "unlock_failed")
		return err
	}

	if err := deps.Settings.Delete(ctx, kioskSessionKey); err != nil {
		return err
	}
	slog.Info("kiosk_event", "event", "kiosk_exited")
	return nil
}
