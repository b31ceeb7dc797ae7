package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	attclient "gymportal/internal/adapters/backend/attendance"
	authclient "gymportal/internal/adapters/backend/auth"
	blogclient "gymportal/internal/adapters/backend/blog"
	bookingclient "gymportal/internal/adapters/backend/booking"
	dashclient "gymportal/internal/adapters/backend/dashboard"
	messageclient "gymportal/internal/adapters/backend/message"
	pricingclient "gymportal/internal/adapters/backend/pricing"
	subclient "gymportal/internal/adapters/backend/subscription"
	usersclient "gymportal/internal/adapters/backend/users"
	"gymportal/internal/adapters/cache"
	"gymportal/internal/adapters/email"
	"gymportal/internal/adapters/http/middleware"
	"gymportal/internal/adapters/http/perf"
	"gymportal/internal/application/orchestrators"
	"gymportal/internal/config"
)

// Deps holds every backend client and local store the handlers use.
type Deps struct {
	Auth          authclient.Client
	Attendance    attclient.Client
	Subscriptions subclient.Client
	Bookings      bookingclient.Client
	Pricing       pricingclient.Client
	Users         usersclient.Client
	Messages      messageclient.Client
	Blogs         blogclient.Client
	Dashboard     dashclient.Client

	Sessions cache.SessionStore
	Settings cache.SettingsStore
	Watcher  *orchestrators.FlagWatcher
	Email    email.Sender
}

// Global deps instance (set by NewMux)
var deps *Deps

// Global config (set by NewMux)
var appConfig config.Config

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// loadCSRFKey decodes the configured CSRF secret (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is
// generated per startup.
func loadCSRFKey(cfg config.Config) []byte {
	if cfg.CSRFKeyHex != "" {
		key, err := hex.DecodeString(cfg.CSRFKeyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("PORTAL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if cfg.IsProduction() {
		log.Fatal("PORTAL_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set PORTAL_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the portal.
func NewMux(cfg config.Config, d *Deps, collector *perf.Collector) http.Handler {
	deps = d
	appConfig = cfg
	perfCollector = collector
	middleware.SecureCookies = cfg.IsProduction()

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey(cfg)

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(cfg.RatePerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(d.Sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
