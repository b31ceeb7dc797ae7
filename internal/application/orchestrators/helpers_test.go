package orchestrators

import (
	"context"
	"errors"
	"sync"
	"time"

	authclient "gymportal/internal/adapters/backend/auth"
	"gymportal/internal/domain/session"
	"gymportal/internal/domain/user"
)

// memSessionStore is an in-memory session store for tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	putErr   error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]session.Session)}
}

func (s *memSessionStore) Get(_ context.Context, cookieToken string) (session.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[cookieToken]
	return sess, ok, nil
}

func (s *memSessionStore) Put(_ context.Context, cookieToken string, sess session.Session) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[cookieToken] = sess
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, cookieToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, cookieToken)
	return nil
}

// memSettingsStore is an in-memory settings store for tests.
type memSettingsStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemSettingsStore() *memSettingsStore {
	return &memSettingsStore{values: make(map[string]string)}
}

func (s *memSettingsStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memSettingsStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memSettingsStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// mockAuthClient is a canned-response auth client for tests.
type mockAuthClient struct {
	loginResult authclient.LoginResult
	loginErr    error
	profile     user.User
	profileErr  error
	logoutCalls int
	logoutErr   error
}

func (m *mockAuthClient) Login(_ context.Context, _, _ string) (authclient.LoginResult, error) {
	return m.loginResult, m.loginErr
}

func (m *mockAuthClient) Logout(_ context.Context, _ string) error {
	m.logoutCalls++
	return m.logoutErr
}

func (m *mockAuthClient) Profile(_ context.Context, _ string) (user.User, error) {
	if m.profileErr != nil {
		return user.User{}, m.profileErr
	}
	return m.profile, nil
}

// mockScannerClient is a canned-response scanner flag client for tests.
type mockScannerClient struct {
	mu         sync.Mutex
	enabled    bool
	enabledErr error
	setErr     error
	fetchCalls int
	setCalls   int
}

func (m *mockScannerClient) Enabled(_ context.Context, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.enabledErr != nil {
		return false, m.enabledErr
	}
	return m.enabled, nil
}

func (m *mockScannerClient) SetEnabled(_ context.Context, _ string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.enabled = enabled
	return nil
}

var errBackendDown = errors.New("backend unreachable")

func testSession(userID, role string) session.Session {
	return session.Session{
		Token:     "bearer-" + userID,
		User:      user.User{ID: userID, Name: "Test User", Email: "test@example.com", Role: role},
		CreatedAt: time.Now(),
	}
}
