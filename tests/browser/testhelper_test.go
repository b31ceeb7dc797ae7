package browser_test

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	_ "modernc.org/sqlite"

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
	"gymportal/internal/adapters/http/middleware"
	"gymportal/internal/adapters/http/perf"
	"gymportal/internal/application/orchestrators"
	"gymportal/internal/config"
)

// fakeGym is an in-process stand-in for the gym management backend. It
// speaks the same JSON surface the portal's REST clients expect, wrapped
// in the {"data": ...} envelope, and holds just enough mutable state for
// the flows under test.
type fakeGym struct {
	mu             sync.Mutex
	scannerEnabled bool
	scans          []map[string]any
	tokens         map[string]map[string]any // bearer token -> user payload
}

func newFakeGym() *fakeGym {
	return &fakeGym{
		tokens: map[string]map[string]any{},
	}
}

// SetScannerEnabled flips the backend-side flag directly, as if another
// admin had done it out of band.
func (g *fakeGym) SetScannerEnabled(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scannerEnabled = enabled
}

var fakeAccounts = map[string]struct {
	password string
	user     map[string]any
}{
	"admin@test.com": {"TestPass123!", map[string]any{
		"id": "a1", "name": "Ana Admin", "email": "admin@test.com", "role": "admin",
	}},
	"member@test.com": {"TestPass123!", map[string]any{
		"id": "m1", "name": "Milo Member", "email": "member@test.com", "role": "member",
	}},
	"trainer@test.com": {"TestPass123!", map[string]any{
		"id": "t1", "name": "Terry Trainer", "email": "trainer@test.com", "role": "trainer",
	}},
}

func (g *fakeGym) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func (g *fakeGym) currentUser(r *http.Request) (map[string]any, bool) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.tokens[token]
	return u, ok
}

func (g *fakeGym) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		acct, ok := fakeAccounts[creds.Email]
		if !ok || acct.password != creds.Password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := "tok-" + creds.Email
		g.mu.Lock()
		g.tokens[token] = acct.user
		g.mu.Unlock()
		g.writeJSON(w, map[string]any{"token": token, "user": acct.user})
	})

	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, map[string]any{})
	})

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		u, ok := g.currentUser(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		g.writeJSON(w, u)
	})

	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, map[string]any{
			"members": 42, "trainers": 3, "checked_in_now": 5,
			"active_subscriptions": 30, "unpaid_subscriptions": 4, "bookings_today": 2,
		})
	})
	mux.HandleFunc("GET /dashboard/growth", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, []map[string]any{
			{"period": "2026-08", "members": 40, "revenue": 5600.0},
		})
	})

	mux.HandleFunc("/attendance/scanner", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if r.Method == http.MethodPost {
			var body struct {
				IsActive bool `json:"isActive"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			g.scannerEnabled = body.IsActive
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"isActive": g.scannerEnabled}})
	})

	mux.HandleFunc("GET /attendance/qr", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, map[string]any{
			"user_qr":    "https://gym.test/scan?token=member-code&type=member",
			"trainer_qr": "https://gym.test/scan?token=trainer-code&type=trainer",
		})
	})
	mux.HandleFunc("POST /attendance/qr/refresh", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, map[string]any{})
	})
	mux.HandleFunc("GET /attendance/records", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.writeJSON(w, g.scans)
	})
	mux.HandleFunc("GET /attendance/checked-in", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, []any{})
	})

	scanHandler := func(w http.ResponseWriter, r *http.Request) {
		u, ok := g.currentUser(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		g.mu.Lock()
		action := "check_in"
		for i := len(g.scans) - 1; i >= 0; i-- {
			if g.scans[i]["user_id"] == u["id"] {
				if g.scans[i]["action"] == "check_in" {
					action = "check_out"
				}
				break
			}
		}
		rec := map[string]any{
			"id": fmt.Sprintf("s%d", len(g.scans)+1), "user_id": u["id"],
			"user_name": u["name"], "action": action,
			"timestamp": time.Now().Format(time.RFC3339),
		}
		g.scans = append(g.scans, rec)
		g.mu.Unlock()
		g.writeJSON(w, rec)
	}
	lastScanHandler := func(w http.ResponseWriter, r *http.Request) {
		u, ok := g.currentUser(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		var mine []map[string]any
		for i := len(g.scans) - 1; i >= 0; i-- {
			if g.scans[i]["user_id"] == u["id"] {
				mine = append(mine, g.scans[i])
			}
		}
		g.writeJSON(w, mine)
	}
	mux.HandleFunc("POST /user/check-in/scan", scanHandler)
	mux.HandleFunc("POST /trainer/check-in/scan", scanHandler)
	mux.HandleFunc("GET /user/check-in", lastScanHandler)
	mux.HandleFunc("GET /trainer/check-in", lastScanHandler)

	empty := func(w http.ResponseWriter, r *http.Request) { g.writeJSON(w, []any{}) }
	mux.HandleFunc("GET /users", empty)
	mux.HandleFunc("GET /subscriptions", empty)
	mux.HandleFunc("GET /bookings", empty)
	mux.HandleFunc("GET /pricing", empty)
	mux.HandleFunc("GET /messages", empty)
	mux.HandleFunc("GET /blogs", empty)
	mux.HandleFunc("GET /subscriptions/options", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, map[string]any{"members": []any{}, "package_types": []any{}, "statuses": []string{"active"}})
	})
	mux.HandleFunc("GET /bookings/options", func(w http.ResponseWriter, r *http.Request) {
		g.writeJSON(w, map[string]any{"members": []any{}, "trainers": []any{}, "package_types": []any{}, "statuses": []string{"active"}})
	})

	return mux
}

// testApp holds the running portal, its fake backend, and Playwright handles.
type testApp struct {
	BaseURL string
	Gym     *fakeGym
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp starts a fake gym backend plus a fully wired portal on an
// ephemeral port, then launches a headless browser against it.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gym := newFakeGym()
	backendSrv := httptest.NewServer(gym.handler())
	t.Cleanup(backendSrv.Close)

	tmpDir := t.TempDir()
	db, err := cache.Open(filepath.Join(tmpDir, "portal.db"))
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := cache.Migrate(db); err != nil {
		t.Fatalf("failed to migrate cache: %v", err)
	}

	sessions := cache.NewSQLiteSessionStore(db)
	settings := cache.NewSQLiteSettingsStore(db)

	cfg := config.Config{
		BackendBaseURL: backendSrv.URL,
		Env:            "development",
		StaticDir:      filepath.Join(findProjectRoot(t), "static"),
		ServiceToken:   "tok-admin@test.com",
		RequestTimeout: 10 * time.Second,
		FlagPoll:       200 * time.Millisecond,
		RatePerSecond:  1000,
	}
	// The service token must already be valid against the fake backend.
	gym.tokens[cfg.ServiceToken] = fakeAccounts["admin@test.com"].user

	api := backend.New(cfg.BackendBaseURL, cfg.RequestTimeout)
	watcher := orchestrators.NewFlagWatcher(scannerclient.NewRESTClient(api), settings, cfg.ServiceToken)
	stopCh := make(chan struct{})
	t.Cleanup(func() { close(stopCh) })
	watcher.Start(cfg.FlagPoll, stopCh)

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
		Email:         emailPkg.NewNoopSender(),
	}

	// Find a free port for the portal.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Run from the project root so relative template paths resolve.
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	mux := web.NewMux(cfg, deps, perf.NewCollector(perf.DefaultRingSize))
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()
	t.Cleanup(func() { srv.Close() })

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		t.Skipf("chromium unavailable: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{
		BaseURL: baseURL,
		Gym:     gym,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs the given account in and waits for its role home.
func (a *testApp) login(t *testing.T, page playwright.Page, email, homePath string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=identifier]").Fill(email); err != nil {
		t.Fatalf("failed to fill identifier: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill("TestPass123!"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+homePath, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to %s: %v", homePath, err)
	}
}

// findProjectRoot walks up from the working directory to the directory
// containing go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
