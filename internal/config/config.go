package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all portal settings, sourced from environment variables.
type Config struct {
	Addr           string        // listen address for the portal
	BackendBaseURL string        // base URL of the gym management REST backend
	Env            string        // "development" or "production"
	CachePath      string        // sqlite file for local client-state cache
	StaticDir      string        // directory served at /static
	CSRFKeyHex     string        // 64 hex chars (32 bytes); required in production
	ResendKey      string        // empty disables real email delivery
	EmailFrom      string
	EmailReplyTo   string
	PortalURL      string        // public base URL used in outgoing email links
	ServiceToken   string        // backend credential for background polls; may be empty
	RequestTimeout time.Duration // per-request timeout for backend calls
	FlagPoll       time.Duration // scanner-flag poll interval
	GrowthPoll     time.Duration // dashboard growth poll interval (served to templates)
	RatePerSecond  int           // per-IP rate limit
}

// Load reads configuration from the environment, applying defaults.
// A .env file in the working directory is loaded first if present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:           getenv("PORTAL_ADDR", ":8080"),
		BackendBaseURL: getenv("PORTAL_BACKEND_URL", "http://localhost:9000/api"),
		Env:            getenv("PORTAL_ENV", "development"),
		CachePath:      getenv("PORTAL_CACHE_PATH", "portal.db"),
		StaticDir:      getenv("PORTAL_STATIC_DIR", "static"),
		CSRFKeyHex:     os.Getenv("PORTAL_CSRF_KEY"),
		ResendKey:      os.Getenv("PORTAL_RESEND_KEY"),
		EmailFrom:      getenv("PORTAL_EMAIL_FROM", "Gym Portal <noreply@gymportal.local>"),
		EmailReplyTo:   getenv("PORTAL_EMAIL_REPLY_TO", "info@gymportal.local"),
		PortalURL:      getenv("PORTAL_PUBLIC_URL", "http://localhost:8080"),
		ServiceToken:   os.Getenv("PORTAL_SERVICE_TOKEN"),
		RequestTimeout: getenvDuration("PORTAL_REQUEST_TIMEOUT", 30*time.Second),
		FlagPoll:       getenvDuration("PORTAL_FLAG_POLL", 3*time.Second),
		GrowthPoll:     getenvDuration("PORTAL_GROWTH_POLL", 30*time.Second),
		RatePerSecond:  getenvInt("PORTAL_RATE_PER_SECOND", 10),
	}
}

// IsProduction reports whether the portal runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
