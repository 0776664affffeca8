package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/partyscore/internal/dependencies/clock"
	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Session is an authenticated admin session. Holding a valid session is
// what "being admin" means; sessions live in memory only.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time // zero means the session never expires
}

// Expired reports whether the session has run out at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Service guards the admin password and tracks admin sessions
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	hasher  Hasher
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	// SessionDuration is how long an admin login lasts; zero means until logout or restart
	SessionDuration time.Duration
	// HashScheme selects how new passwords are stored ("sha256" or "bcrypt")
	HashScheme string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 12 * time.Hour,
		HashScheme:      SchemeSHA256,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) (*Service, error) {
	hasher, err := NewHasher(cfg.HashScheme)
	if err != nil {
		return nil, err
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		hasher:          hasher,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}, nil
}

// PasswordSet reports whether the admin password has been configured
func (s *Service) PasswordSet(ctx context.Context) (bool, error) {
	doc, err := s.storage.Load(ctx)
	if err != nil {
		return false, err
	}
	return doc.PasswordSet(), nil
}

// SetPassword performs first-time setup of the admin password
func (s *Service) SetPassword(ctx context.Context, plaintext string) error {
	err := s.storage.Update(ctx, func(doc *model.Document) error {
		return SetPassword(doc, plaintext, s.hasher)
	})
	if err != nil {
		return err
	}

	s.logger.Info("admin password set")
	return nil
}

// Verify checks plaintext against the stored admin password
func (s *Service) Verify(ctx context.Context, plaintext string) (bool, error) {
	doc, err := s.storage.Load(ctx)
	if err != nil {
		return false, err
	}
	return Verify(doc, plaintext), nil
}

// Login verifies the admin password and opens a session
func (s *Service) Login(ctx context.Context, plaintext string) (*Session, error) {
	doc, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !doc.PasswordSet() {
		return nil, model.ErrPasswordNotSet
	}
	if !Verify(doc, plaintext) {
		s.logger.Warn("admin login failed")
		return nil, ErrInvalidCredentials
	}

	session := s.createSession()
	s.logger.Info("admin logged in")
	return session, nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if session.Expired(s.clock.Now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// createSession creates a new admin session
func (s *Service) createSession() *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     s.generateToken(),
		CreatedAt: now,
	}
	if s.sessionDuration > 0 {
		session.ExpiresAt = now.Add(s.sessionDuration)
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// generateToken generates a random session token
func (s *Service) generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "adm_" + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions and returns how many were dropped
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// SessionCount returns the number of live sessions
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
