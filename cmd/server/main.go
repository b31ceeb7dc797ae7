package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymportal/internal/adapters/backend"
	attclient "gymportal/internal/adapters/backend/attendance"
	authclient "gymportal/internal/adapters/backend/auth"
	blogclient "gymportal/internal/adapters/backend/blog"
	bookingclient "gymportal/internal/adapters/backend/booking"
	dashclient "gymportal/internal/adapters/backend/dashboard"
	messageclient "gymportal/internal/adapters/backend/message"
	pricingclient "gymportal/internal/adapters/backend/pricing"
	scannerclient "gymportal/internal/adapters/backend/scanner"
	subclient "gymportal/internal/adapters/backend/subscription"
	usersclient "gymportal/internal/adapters/backend/users"
	"gymportal/internal/adapters/cache"
	emailPkg "gymportal/internal/adapters/email"
	web "gymportal/internal/adapters/http"
	"gymportal/internal/adapters/http/perf"
	"gymportal/internal/application/orchestrators"
	"gymportal/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()

	// Local cache: sessions, scanner-flag fallback, kiosk state. This is the
	// portal's own state, not gym data; gym data lives behind the backend API.
	db, err := cache.Open(cfg.CachePath)
	if err != nil {
		slog.Error("startup_failed", "step", "open_cache", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := cache.Migrate(db); err != nil {
		slog.Error("startup_failed", "step", "migrate_cache", "error", err.Error())
		os.Exit(1)
	}

	sessions := cache.NewSQLiteSessionStore(db)
	settings := cache.NewSQLiteSettingsStore(db)

	// Performance instrumentation: request timings plus upstream call timings.
	collector := perf.NewCollector(perf.DefaultRingSize)

	api := backend.New(cfg.BackendBaseURL, cfg.RequestTimeout)
	api.SetObserver(func(method, path string, status int, elapsed time.Duration) {
		collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       method + " " + path,
			StatusCode: status,
			DurationMs: float64(elapsed.Microseconds()) / 1000.0,
			Timestamp:  time.Now(),
		})
	})

	watcher := orchestrators.NewFlagWatcher(scannerclient.NewRESTClient(api), settings, cfg.ServiceToken)
	stopCh := make(chan struct{})
	defer close(stopCh)
	if cfg.ServiceToken != "" {
		watcher.Start(cfg.FlagPoll, stopCh)
	} else {
		slog.Warn("scanner_event", "event", "background_poll_disabled", "reason", "PORTAL_SERVICE_TOKEN not set")
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_event", "event", "sender_configured", "kind", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_event", "event", "sender_disabled", "reason", "PORTAL_RESEND_KEY not set in production")
		} else {
			slog.Info("email_event", "event", "sender_configured", "kind", "noop")
		}
	}

	deps := &web.Deps{
		Auth:          authclient.NewRESTClient(api),
		Attendance:    attclient.NewRESTClient(api),
		Subscriptions: subclient.NewRESTClient(api),
		Bookings:      bookingclient.NewRESTClient(api),
		Pricing:       pricingclient.NewRESTClient(api),
		Users:         usersclient.NewRESTClient(api),
		Messages:      messageclient.NewRESTClient(api),
		Blogs:         blogclient.NewRESTClient(api),
		Dashboard:     dashclient.NewRESTClient(api),
		Sessions:      sessions,
		Settings:      settings,
		Watcher:       watcher,
		Email:         sender,
	}

	mux := web.NewMux(cfg, deps, collector)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("portal_started", "version", version, "addr", cfg.Addr, "env", cfg.Env, "backend", cfg.BackendBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server_failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown_failed", "error", err.Error())
	}
	slog.Info("portal_stopped")
}
