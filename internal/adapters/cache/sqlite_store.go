package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gymportal/internal/domain/session"
	"gymportal/internal/domain/user"
)

// Open opens (or creates) the cache database with WAL mode and a busy
// timeout, matching the portal's single-writer usage.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("cache database unreachable: %w", err)
	}
	return db, nil
}

// Migrate creates the cache schema.
// PRE: db is a valid database connection
// POST: All tables exist
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS portal_session (
		cookie_token TEXT PRIMARY KEY,
		bearer_token TEXT NOT NULL,
		user_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS setting (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}

// SQLiteSessionStore implements SessionStore on the cache database.
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore creates a new session store.
func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Get retrieves a session by cookie token.
// POST: Returns (session, true) when present and not locally expired
func (s *SQLiteSessionStore) Get(ctx context.Context, cookieToken string) (session.Session, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT bearer_token, user_json, created_at FROM portal_session WHERE cookie_token = ?", cookieToken)

	var bearer, userJSON, createdAt string
	if err := row.Scan(&bearer, &userJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, err
	}

	var u user.User
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return session.Session{}, false, fmt.Errorf("corrupt cached session: %w", err)
	}
	sess := session.Session{Token: bearer, User: u, CreatedAt: parseStoredTime(createdAt)}
	if sess.Expired(time.Now()) {
		// Locally expired tokens are cleaned up on read.
		_ = s.Delete(ctx, cookieToken)
		return session.Session{}, false, nil
	}
	return sess, true, nil
}

// Put persists a session.
// PRE: s has been validated
// POST: Session is stored (insert or replace)
func (s *SQLiteSessionStore) Put(ctx context.Context, cookieToken string, sess session.Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO portal_session (cookie_token, bearer_token, user_json, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(cookie_token) DO UPDATE SET bearer_token=excluded.bearer_token, user_json=excluded.user_json, created_at=excluded.created_at`,
		cookieToken, sess.Token, string(userJSON), created.Format(time.RFC3339Nano))
	return err
}

// Delete removes a session by cookie token.
func (s *SQLiteSessionStore) Delete(ctx context.Context, cookieToken string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM portal_session WHERE cookie_token = ?", cookieToken)
	return err
}

// SQLiteSettingsStore implements SettingsStore on the cache database.
type SQLiteSettingsStore struct {
	db *sql.DB
}

// NewSQLiteSettingsStore creates a new settings store.
func NewSQLiteSettingsStore(db *sql.DB) *SQLiteSettingsStore {
	return &SQLiteSettingsStore{db: db}
}

func (s *SQLiteSettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM setting WHERE key = ?", key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteSettingsStore) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO setting (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteSettingsStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM setting WHERE key = ?", key)
	return err
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
