// Package session stores the signed-in user's token between runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/naveenspark/blogdash/pkg/domain"
)

// MaxAge is how long a saved session stays valid.
const MaxAge = 7 * 24 * time.Hour

// TokenEnv overrides the stored token when set.
const TokenEnv = "BLOGDASH_TOKEN"

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("no session")

// Session is the persisted sign-in state.
type Session struct {
	Token     string    `yaml:"token"`
	Role      string    `yaml:"role"`
	Email     string    `yaml:"email,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// Expired reports whether the session is past its expiry. A zero ExpiresAt
// never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session belongs to an admin account.
func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}

// Store reads and writes one session file.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the current session. The token from TokenEnv wins over the
// file. Missing, empty and expired files yield ErrNoSession; an expired
// file is removed.
func (s *Store) Load() (*Session, error) {
	sess, err := s.read()
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		if err != nil {
			sess = &Session{}
		}
		sess.Token = tok
		return sess, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) read() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session.Load: %w", err)
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session.Load: parse %s: %w", s.path, err)
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	if sess.Expired(s.now()) {
		_ = os.Remove(s.path)
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save persists a fresh session from a login or register response.
func (s *Store) Save(resp domain.AuthResponse, email string) (*Session, error) {
	if resp.Token == "" {
		return nil, fmt.Errorf("session.Save: empty token")
	}

	now := s.now()
	sess := &Session{
		Token:     resp.Token,
		Role:      resp.Role,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(MaxAge),
	}

	data, err := yaml.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("session.Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("session.Save: create dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return nil, fmt.Errorf("session.Save: %w", err)
	}
	return sess, nil
}

// Clear signs out by removing the session file. Clearing an absent session
// is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}
