package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"gymportal/internal/adapters/backend"
	attclient "gymportal/internal/adapters/backend/attendance"
	authclient "gymportal/internal/adapters/backend/auth"
	blogclient "gymportal/internal/adapters/backend/blog"
	bookingclient "gymportal/internal/adapters/backend/booking"
	dashclient "gymportal/internal/adapters/backend/dashboard"
	subclient "gymportal/internal/adapters/backend/subscription"
	"gymportal/internal/adapters/cache"
	"gymportal/internal/adapters/email"
	"gymportal/internal/adapters/http/middleware"
	"gymportal/internal/application/orchestrators"
	attendanceDomain "gymportal/internal/domain/attendance"
	blogDomain "gymportal/internal/domain/blog"
	bookingDomain "gymportal/internal/domain/booking"
	messageDomain "gymportal/internal/domain/message"
	pricingDomain "gymportal/internal/domain/pricing"
	sessionDomain "gymportal/internal/domain/session"
	subscriptionDomain "gymportal/internal/domain/subscription"
	userDomain "gymportal/internal/domain/user"
)

// --- In-memory cache stores ---

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionDomain.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]sessionDomain.Session)}
}

func (s *memSessionStore) Get(ctx context.Context, cookieToken string) (sessionDomain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[cookieToken]
	return sess, ok, nil
}

func (s *memSessionStore) Put(ctx context.Context, cookieToken string, sess sessionDomain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[cookieToken] = sess
	return nil
}

func (s *memSessionStore) Delete(ctx context.Context, cookieToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, cookieToken)
	return nil
}

type memSettingsStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemSettingsStore() *memSettingsStore {
	return &memSettingsStore{values: make(map[string]string)}
}

func (s *memSettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memSettingsStore) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memSettingsStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

var _ cache.SessionStore = (*memSessionStore)(nil)
var _ cache.SettingsStore = (*memSettingsStore)(nil)

// --- Backend client stubs ---

type stubAuth struct {
	loginResult authclient.LoginResult
	loginErr    error
	profile     userDomain.User
	logoutCalls int
}

func (s *stubAuth) Login(ctx context.Context, identifier, password string) (authclient.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuth) Logout(ctx context.Context, token string) error {
	s.logoutCalls++
	return nil
}

func (s *stubAuth) Profile(ctx context.Context, token string) (userDomain.User, error) {
	return s.profile, nil
}

type stubAttendance struct {
	qr         attclient.QRCodes
	records    []attendanceDomain.ScanRecord
	checkedIn  []attendanceDomain.ScanRecord
	scanResult attendanceDomain.ScanRecord
	scanErr    error
	scanCalls  int
	lastScan   *attendanceDomain.ScanRecord
}

func (s *stubAttendance) QRCodes(ctx context.Context, token string) (attclient.QRCodes, error) {
	return s.qr, nil
}

func (s *stubAttendance) RefreshQRCodes(ctx context.Context, token string) (attclient.QRCodes, error) {
	return s.qr, nil
}

func (s *stubAttendance) Records(ctx context.Context, token string) ([]attendanceDomain.ScanRecord, error) {
	return s.records, nil
}

func (s *stubAttendance) CheckedIn(ctx context.Context, token string) ([]attendanceDomain.ScanRecord, error) {
	return s.checkedIn, nil
}

func (s *stubAttendance) SubmitScan(ctx context.Context, token, role, scanToken string) (attendanceDomain.ScanRecord, error) {
	s.scanCalls++
	return s.scanResult, s.scanErr
}

func (s *stubAttendance) LastScan(ctx context.Context, token, role string) (*attendanceDomain.ScanRecord, error) {
	return s.lastScan, nil
}

type stubScanner struct {
	mu       sync.Mutex
	enabled  bool
	setCalls int
}

func (s *stubScanner) Enabled(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled, nil
}

func (s *stubScanner) SetEnabled(ctx context.Context, token string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	s.setCalls++
	return nil
}

type stubUsers struct {
	list    []userDomain.User
	listErr error
}

func (s *stubUsers) List(ctx context.Context, token string) ([]userDomain.User, error) {
	return s.list, s.listErr
}

func (s *stubUsers) Create(ctx context.Context, token string, u userDomain.User, password string) (userDomain.User, error) {
	return u, nil
}

func (s *stubUsers) Update(ctx context.Context, token, id string, u userDomain.User) (userDomain.User, error) {
	return u, nil
}

func (s *stubUsers) Delete(ctx context.Context, token, id string) error {
	return nil
}

type stubSubscriptions struct {
	list []subscriptionDomain.Subscription
}

func (s *stubSubscriptions) List(ctx context.Context, token string) ([]subscriptionDomain.Subscription, error) {
	return s.list, nil
}

func (s *stubSubscriptions) Create(ctx context.Context, token string, sub subscriptionDomain.Subscription) (subscriptionDomain.Subscription, error) {
	return sub, nil
}

func (s *stubSubscriptions) Update(ctx context.Context, token, id string, sub subscriptionDomain.Subscription) (subscriptionDomain.Subscription, error) {
	return sub, nil
}

func (s *stubSubscriptions) Delete(ctx context.Context, token, id string) error {
	return nil
}

func (s *stubSubscriptions) Options(ctx context.Context, token string) (subclient.Options, error) {
	return subclient.Options{Statuses: []string{"active", "pending", "expired"}}, nil
}

type stubBookings struct {
	list []bookingDomain.Booking
}

func (s *stubBookings) List(ctx context.Context, token string) ([]bookingDomain.Booking, error) {
	return s.list, nil
}

func (s *stubBookings) Create(ctx context.Context, token string, b bookingDomain.Booking) (bookingDomain.Booking, error) {
	return b, nil
}

func (s *stubBookings) Update(ctx context.Context, token, id string, b bookingDomain.Booking) (bookingDomain.Booking, error) {
	return b, nil
}

func (s *stubBookings) Delete(ctx context.Context, token, id string) error {
	return nil
}

func (s *stubBookings) Options(ctx context.Context, token string) (bookingclient.Options, error) {
	return bookingclient.Options{Statuses: []string{"active", "pending", "expired"}}, nil
}

type stubBlogs struct {
	list []blogDomain.Post
}

func (s *stubBlogs) List(ctx context.Context, token string) ([]blogDomain.Post, error) {
	return s.list, nil
}

func (s *stubBlogs) Create(ctx context.Context, token string, p blogDomain.Post, cover *blogclient.Upload) (blogDomain.Post, error) {
	return p, nil
}

func (s *stubBlogs) Update(ctx context.Context, token, id string, p blogDomain.Post, cover *blogclient.Upload) (blogDomain.Post, error) {
	return p, nil
}

func (s *stubBlogs) Delete(ctx context.Context, token, id string) error {
	return nil
}

type stubPricing struct {
	list []pricingDomain.Plan
}

func (s *stubPricing) List(ctx context.Context, token string) ([]pricingDomain.Plan, error) {
	return s.list, nil
}

func (s *stubPricing) Create(ctx context.Context, token string, p pricingDomain.Plan) (pricingDomain.Plan, error) {
	return p, nil
}

func (s *stubPricing) Update(ctx context.Context, token, id string, p pricingDomain.Plan) (pricingDomain.Plan, error) {
	return p, nil
}

func (s *stubPricing) Delete(ctx context.Context, token, id string) error {
	return nil
}

type stubMessages struct {
	conversations []messageDomain.Conversation
	thread        []messageDomain.Message
	sent          []string
}

func (s *stubMessages) Conversations(ctx context.Context, token string) ([]messageDomain.Conversation, error) {
	return s.conversations, nil
}

func (s *stubMessages) Thread(ctx context.Context, token, userID string) ([]messageDomain.Message, error) {
	return s.thread, nil
}

func (s *stubMessages) Send(ctx context.Context, token, userID, content string) (messageDomain.Message, error) {
	s.sent = append(s.sent, content)
	return messageDomain.Message{UserID: userID, Content: content}, nil
}

type stubDashboard struct {
	stats      dashclient.Stats
	statsErr   error
	growth     []dashclient.GrowthPoint
	exportBlob string
}

func (s *stubDashboard) Stats(ctx context.Context, token string) (dashclient.Stats, error) {
	return s.stats, s.statsErr
}

func (s *stubDashboard) Growth(ctx context.Context, token string) ([]dashclient.GrowthPoint, error) {
	return s.growth, nil
}

func (s *stubDashboard) Export(ctx context.Context, token, format string) (io.ReadCloser, string, string, error) {
	return io.NopCloser(bytes.NewBufferString(s.exportBlob)), "report.xlsx", "application/vnd.ms-excel", nil
}

// --- Harness ---

type testEnv struct {
	auth       *stubAuth
	attendance *stubAttendance
	scanner    *stubScanner
	users      *stubUsers
	dashboard  *stubDashboard
	messages   *stubMessages
	sessions   *memSessionStore
	settings   *memSettingsStore
}

// setupTestDeps wires stub clients into the package globals the handlers
// read. Templates are resolved relative to this package directory.
func setupTestDeps(t *testing.T) *testEnv {
	t.Helper()
	TemplatesDir = "templates"

	env := &testEnv{
		auth:       &stubAuth{},
		attendance: &stubAttendance{},
		scanner:    &stubScanner{},
		users:      &stubUsers{},
		dashboard:  &stubDashboard{},
		messages:   &stubMessages{},
		sessions:   newMemSessionStore(),
		settings:   newMemSettingsStore(),
	}

	watcher := orchestrators.NewFlagWatcher(env.scanner, env.settings, "service-token")
	deps = &Deps{
		Auth:          env.auth,
		Attendance:    env.attendance,
		Subscriptions: &stubSubscriptions{},
		Bookings:      &stubBookings{},
		Pricing:       &stubPricing{},
		Users:         env.users,
		Messages:      env.messages,
		Blogs:         &stubBlogs{},
		Dashboard:     env.dashboard,
		Sessions:      env.sessions,
		Settings:      env.settings,
		Watcher:       watcher,
		Email:         email.NewNoopSender(),
	}
	appConfig.FlagPoll = 3 * time.Second
	appConfig.GrowthPoll = 30 * time.Second
	return env
}

func adminSession() sessionDomain.Session {
	return sessionDomain.Session{
		Token:     "bearer-abc",
		User:      userDomain.User{ID: "u1", Name: "Ana Admin", Email: "ana@example.com", Role: userDomain.RoleAdmin},
		CreatedAt: time.Now(),
	}
}

func memberSession() sessionDomain.Session {
	return sessionDomain.Session{
		Token:     "bearer-member",
		User:      userDomain.User{ID: "m1", Name: "Milo Member", Email: "milo@example.com", Role: userDomain.RoleMember},
		CreatedAt: time.Now(),
	}
}

// authedRequest builds a request carrying a session, the way the Auth
// middleware would after resolving the cookie.
func authedRequest(method, target string, body io.Reader, sess sessionDomain.Session, cookieToken string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req.WithContext(middleware.ContextWithSession(req.Context(), sess, cookieToken))
}

// --- Tests ---

func TestLoginSubmitRedirectsToRoleHome(t *testing.T) {
	env := setupTestDeps(t)
	env.auth.loginResult = authclient.LoginResult{
		Token: "bearer-xyz",
		User:  userDomain.User{ID: "u1", Name: "Ana", Role: userDomain.RoleAdmin},
	}
	env.auth.profile = env.auth.loginResult.User

	form := url.Values{"identifier": {"ana@example.com"}, "password": {"secret"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handleLoginSubmit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d. Body: %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/dashboard" {
		t.Errorf("got redirect %q, want /admin/dashboard", loc)
	}

	var sawCookie bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			sawCookie = true
		}
	}
	if !sawCookie {
		t.Error("expected a session cookie to be set")
	}
}

func TestLoginSubmitBadCredentials(t *testing.T) {
	env := setupTestDeps(t)
	env.auth.loginErr = backend.ErrUnauthorized

	form := url.Values{"identifier": {"ana@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handleLoginSubmit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?err=") {
		t.Errorf("got redirect %q, want /login with an error", loc)
	}
	if len(env.sessions.sessions) != 0 {
		t.Error("no session should be stored on failed login")
	}
}

func TestBackendUnauthorizedClearsSession(t *testing.T) {
	env := setupTestDeps(t)
	env.users.listErr = backend.ErrUnauthorized

	sess := adminSession()
	env.sessions.Put(context.Background(), "cookie-1", sess)

	req := authedRequest("GET", "/admin/users", nil, sess, "cookie-1")
	rec := httptest.NewRecorder()

	handleAdminUsers(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("got redirect %q, want /login", loc)
	}
	if _, ok, _ := env.sessions.Get(context.Background(), "cookie-1"); ok {
		t.Error("expired session should have been deleted from the local store")
	}
}

func TestBackendAPIErrorBouncesBackWithMessage(t *testing.T) {
	env := setupTestDeps(t)
	env.users.listErr = &backend.APIError{Status: 422, Message: "name already taken"}

	sess := adminSession()
	req := authedRequest("GET", "/admin/users", nil, sess, "cookie-1")
	req.Header.Set("Referer", "http://portal.local/admin/users")
	rec := httptest.NewRecorder()

	handleAdminUsers(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "/admin/users?err=") || !strings.Contains(loc, url.QueryEscape("name already taken")) {
		t.Errorf("redirect %q should carry the backend message", loc)
	}
}

func TestAdminUsersRenders(t *testing.T) {
	env := setupTestDeps(t)
	env.users.list = []userDomain.User{
		{ID: "u2", Name: "Terry Trainer", Email: "terry@example.com", Role: userDomain.RoleTrainer},
	}

	req := authedRequest("GET", "/admin/users", nil, adminSession(), "cookie-1")
	rec := httptest.NewRecorder()

	handleAdminUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Terry Trainer") {
		t.Error("rendered page should list the user")
	}
}

// TestAdminDashboardUsesConfiguredGrowthInterval verifies the growth table's
// refresh timer comes from config, not a hardcoded constant.
func TestAdminDashboardUsesConfiguredGrowthInterval(t *testing.T) {
	env := setupTestDeps(t)
	env.dashboard.stats = dashclient.Stats{Members: 42}
	appConfig.GrowthPoll = 45 * time.Second

	req := authedRequest("GET", "/admin/dashboard", nil, adminSession(), "cookie-1")
	rec := httptest.NewRecorder()

	handleAdminDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "setInterval(refresh, 45000)") {
		t.Error("growth refresh should use the configured interval")
	}
}

func TestMemberDashboardRenders(t *testing.T) {
	env := setupTestDeps(t)
	env.scanner.enabled = true
	now := time.Now()
	env.attendance.lastScan = &attendanceDomain.ScanRecord{
		ID: "s1", UserID: "m1", Action: attendanceDomain.ActionCheckIn, Timestamp: now,
	}

	req := authedRequest("GET", "/user/dashboard", nil, memberSession(), "cookie-m")
	rec := httptest.NewRecorder()

	handleMemberDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "check you out") {
		t.Error("a same-day check-in should make the next scan a check-out")
	}
}

func TestScanSubmitCheckIn(t *testing.T) {
	env := setupTestDeps(t)
	env.attendance.scanResult = attendanceDomain.ScanRecord{
		ID: "s2", UserID: "m1", Action: attendanceDomain.ActionCheckIn, Timestamp: time.Now(),
	}

	form := url.Values{"payload": {"https://gym.example.com/scan?token=tok123&type=member"}}
	req := authedRequest("POST", "/user/scan", strings.NewReader(form.Encode()), memberSession(), "cookie-m")
	rec := httptest.NewRecorder()

	handleScanSubmit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if env.attendance.scanCalls != 1 {
		t.Errorf("backend should see exactly one scan, got %d", env.attendance.scanCalls)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/user/dashboard?msg=") {
		t.Errorf("got redirect %q, want the member dashboard with a message", loc)
	}
}

func TestScanSubmitWrongAudienceNeverHitsBackend(t *testing.T) {
	env := setupTestDeps(t)

	form := url.Values{"payload": {"https://gym.example.com/scan?token=tok123&type=trainer"}}
	req := authedRequest("POST", "/user/scan", strings.NewReader(form.Encode()), memberSession(), "cookie-m")
	rec := httptest.NewRecorder()

	handleScanSubmit(rec, req)

	if env.attendance.scanCalls != 0 {
		t.Errorf("audience mismatch must be rejected locally, backend saw %d calls", env.attendance.scanCalls)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "err=") {
		t.Errorf("redirect %q should carry an error", loc)
	}
}

func TestScanSubmitMalformedPayload(t *testing.T) {
	env := setupTestDeps(t)

	form := url.Values{"payload": {"not a url"}}
	req := authedRequest("POST", "/user/scan", strings.NewReader(form.Encode()), memberSession(), "cookie-m")
	rec := httptest.NewRecorder()

	handleScanSubmit(rec, req)

	if env.attendance.scanCalls != 0 {
		t.Errorf("malformed payloads must be rejected locally, backend saw %d calls", env.attendance.scanCalls)
	}
}

func TestScannerToggle(t *testing.T) {
	env := setupTestDeps(t)

	form := url.Values{"enabled": {"true"}}
	req := authedRequest("POST", "/admin/scanner", strings.NewReader(form.Encode()), adminSession(), "cookie-1")
	rec := httptest.NewRecorder()

	handleScannerToggle(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if env.scanner.setCalls != 1 {
		t.Errorf("backend should see one SetEnabled call, got %d", env.scanner.setCalls)
	}
	if !env.scanner.enabled {
		t.Error("scanner should be enabled after the toggle")
	}
}

func TestGrowthJSON(t *testing.T) {
	env := setupTestDeps(t)
	env.dashboard.growth = []dashclient.GrowthPoint{
		{Period: "2026-07", Members: 120, Revenue: 8400},
		{Period: "2026-08", Members: 131, Revenue: 9100},
	}

	req := authedRequest("GET", "/admin/dashboard/growth", nil, adminSession(), "cookie-1")
	rec := httptest.NewRecorder()

	handleGrowthJSON(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	var points []dashclient.GrowthPoint
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(points) != 2 || points[1].Members != 131 {
		t.Errorf("unexpected growth payload: %+v", points)
	}
}

func TestDashboardExport(t *testing.T) {
	env := setupTestDeps(t)
	env.dashboard.exportBlob = "binary-report-bytes"

	req := authedRequest("GET", "/admin/dashboard/export?format=excel", nil, adminSession(), "cookie-1")
	rec := httptest.NewRecorder()

	handleDashboardExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "report.xlsx") {
		t.Errorf("Content-Disposition %q should carry the backend filename", got)
	}
	if rec.Body.String() != "binary-report-bytes" {
		t.Error("export body should be streamed through unchanged")
	}
}

func TestDashboardExportRejectsUnknownFormat(t *testing.T) {
	setupTestDeps(t)

	req := authedRequest("GET", "/admin/dashboard/export?format=pdf", nil, adminSession(), "cookie-1")
	rec := httptest.NewRecorder()

	handleDashboardExport(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "err=") {
		t.Errorf("redirect %q should carry an error", loc)
	}
}

func TestHandleRootRouting(t *testing.T) {
	setupTestDeps(t)

	// Logged out lands on /login.
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handleRoot(rec, req)
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("anonymous root: got %q, want /login", loc)
	}

	// A member lands on their dashboard.
	req = authedRequest("GET", "/", nil, memberSession(), "cookie-m")
	rec = httptest.NewRecorder()
	handleRoot(rec, req)
	if loc := rec.Header().Get("Location"); loc != "/user/dashboard" {
		t.Errorf("member root: got %q, want /user/dashboard", loc)
	}

	// Unknown paths under root 404 rather than redirect.
	req = httptest.NewRequest("GET", "/no-such-page", nil)
	rec = httptest.NewRecorder()
	handleRoot(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestLogoutClearsLocalSessionEvenIfBackendFails(t *testing.T) {
	env := setupTestDeps(t)
	sess := adminSession()
	env.sessions.Put(context.Background(), "cookie-1", sess)

	req := authedRequest("POST", "/logout", nil, sess, "cookie-1")
	rec := httptest.NewRecorder()

	handleLogout(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("got redirect %q, want /login", loc)
	}
	if _, ok, _ := env.sessions.Get(context.Background(), "cookie-1"); ok {
		t.Error("local session should be gone after logout")
	}
	if env.auth.logoutCalls != 1 {
		t.Errorf("backend logout should be attempted once, got %d", env.auth.logoutCalls)
	}
}

func TestMemberMessageSend(t *testing.T) {
	env := setupTestDeps(t)

	form := url.Values{"content": {"Is the gym open tomorrow?"}}
	req := authedRequest("POST", "/user/messages", strings.NewReader(form.Encode()), memberSession(), "cookie-m")
	rec := httptest.NewRecorder()

	handleMemberMessageSend(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if len(env.messages.sent) != 1 || env.messages.sent[0] != "Is the gym open tomorrow?" {
		t.Errorf("unexpected sent messages: %v", env.messages.sent)
	}
}

func TestMemberMessageSendRejectsEmpty(t *testing.T) {
	env := setupTestDeps(t)

	form := url.Values{"content": {"   "}}
	req := authedRequest("POST", "/user/messages", strings.NewReader(form.Encode()), memberSession(), "cookie-m")
	rec := httptest.NewRecorder()

	handleMemberMessageSend(rec, req)

	if len(env.messages.sent) != 0 {
		t.Error("blank messages must not reach the backend")
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "err=") {
		t.Errorf("redirect %q should carry an error", loc)
	}
}
