package orchestrators

import (
	"context"
	"log/slog"
	"sync"
	"time"

	scannerclient "gymportal/internal/adapters/backend/scanner"
	"gymportal/internal/adapters/cache"
	"gymportal/internal/domain/scanner"
)

// FlagWatcher keeps the scanner-enabled flag fresh and fans out changes to
// subscribers. Every open dashboard holds a subscription, so a flag flipped
// by one admin propagates to every other tab within one poll interval.
type FlagWatcher struct {
	client   scannerclient.Client
	settings cache.SettingsStore
	token    string // service credential used for background polls

	mu    sync.Mutex
	last  *bool
	subs  map[chan bool]struct{}
	ready bool
}

// NewFlagWatcher creates a watcher. token is the credential used for
// background polls; per-request resolution uses the requester's own token.
func NewFlagWatcher(client scannerclient.Client, settings cache.SettingsStore, token string) *FlagWatcher {
	return &FlagWatcher{
		client:   client,
		settings: settings,
		token:    token,
		subs:     make(map[chan bool]struct{}),
	}
}

// Resolve returns the current scanner state for one request: cached value
// read first, backend consulted, backend winning when reachable.
// POST: On a successful fetch the cache holds the fetched value
func (w *FlagWatcher) Resolve(ctx context.Context, token string) scanner.State {
	var cached *bool
	if raw, ok, err := w.settings.Get(ctx, scanner.CacheKey); err == nil && ok {
		v := raw == "true"
		cached = &v
	}

	fetched, fetchErr := w.client.Enabled(ctx, token)
	state := scanner.Resolve(cached, fetched, fetchErr)
	if fetchErr == nil {
		w.writeCache(ctx, state.Enabled)
	} else {
		slog.Warn("scanner_event", "event", "flag_fetch_failed", "source", state.Source, "error", fetchErr.Error())
	}
	return state
}

// SetEnabled flips the flag on the backend and propagates the new value
// immediately, without waiting for the next poll.
// POST: Cache and subscribers observe the new value
func (w *FlagWatcher) SetEnabled(ctx context.Context, token string, enabled bool) error {
	if err := w.client.SetEnabled(ctx, token, enabled); err != nil {
		return err
	}
	w.writeCache(ctx, enabled)
	w.publish(enabled)
	slog.Info("scanner_event", "event", "flag_set", "enabled", enabled)
	return nil
}

// Subscribe registers for flag-change notifications. The returned cancel
// func must be called when the subscriber goes away.
func (w *FlagWatcher) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	w.mu.Lock()
	w.subs[ch] = struct{}{}
	if w.ready && w.last != nil {
		ch <- *w.last
	}
	w.mu.Unlock()
	cancel := func() {
		w.mu.Lock()
		delete(w.subs, ch)
		w.mu.Unlock()
	}
	return ch, cancel
}

// Start launches the background poll loop.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func (w *FlagWatcher) Start(interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				w.poll(ctx)
				cancel()
			case <-stopCh:
				slog.Info("scanner_event", "event", "flag_watcher_stopped")
				return
			}
		}
	}()
}

func (w *FlagWatcher) poll(ctx context.Context) {
	enabled, err := w.client.Enabled(ctx, w.token)
	if err != nil {
		slog.Warn("scanner_event", "event", "flag_poll_failed", "error", err.Error())
		return
	}
	w.writeCache(ctx, enabled)
	w.publish(enabled)
}

// publish notifies subscribers when the value changed since last publish.
func (w *FlagWatcher) publish(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ready && w.last != nil && *w.last == enabled {
		return
	}
	v := enabled
	w.last = &v
	w.ready = true
	for ch := range w.subs {
		select {
		case ch <- enabled:
		default: // slow subscriber keeps its stale value, next change retries
		}
	}
}

func (w *FlagWatcher) writeCache(ctx context.Context, enabled bool) {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := w.settings.Put(ctx, scanner.CacheKey, value); err != nil {
		slog.Error("scanner_event", "event", "flag_cache_write_failed", "error", err.Error())
	}
}
