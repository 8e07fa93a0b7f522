package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/feltworks/poker-ledger/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidPIN     = errors.New("invalid PIN")
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Session represents an authenticated host session
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service gates host actions behind the shared PIN. The PIN is the only
// credential in the system; a successful login yields a bearer token for
// the host-only endpoints.
type Service struct {
	pinHash []byte
	clock   clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	// PIN is the shared host PIN
	PIN string
	// SessionDuration is how long a host session stays valid
	SessionDuration time.Duration
}

// DefaultSessionDuration is used when Config.SessionDuration is zero
const DefaultSessionDuration = 12 * time.Hour

// New creates a new auth service. The PIN is bcrypt-hashed immediately
// and never kept in plaintext.
func New(cfg Config, clk clock.Clock) (*Service, error) {
	if cfg.PIN == "" {
		return nil, errors.New("host PIN must be configured")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	duration := cfg.SessionDuration
	if duration == 0 {
		duration = DefaultSessionDuration
	}

	return &Service{
		pinHash:         hash,
		clock:           clk,
		sessions:        make(map[string]*Session),
		sessionDuration: duration,
	}, nil
}

// Login exchanges the host PIN for a session
func (s *Service) Login(pin string) (*Session, error) {
	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return nil, ErrInvalidPIN
	}

	token := generateToken()
	now := s.clock.Now()
	session := &Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

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

	if s.clock.Now().After(session.ExpiresAt) {
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

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// generateToken generates a random session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
