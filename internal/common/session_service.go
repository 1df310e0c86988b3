package common

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/logging"
)

var ErrSessionNotFound = errors.New("session not found")

// AdminSession is the server-side admin login state
type AdminSession struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService keeps admin sessions in the shared cache (memory or Redis)
type SessionService struct {
	cache CacheInterface
	ttl   time.Duration
	now   Clock
}

func NewSessionService(cache CacheInterface, ttl time.Duration, now Clock) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{cache: cache, ttl: ttl, now: now}
}

// CreateSession stores a new session for username and returns it
func (s *SessionService) CreateSession(username string) *AdminSession {
	now := s.now()
	session := &AdminSession{
		SessionID: uuid.New().String(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.cache.Set(constants.CachePrefixSession.Key(session.SessionID), session, s.ttl)
	logging.Info("Admin session created", "username", username, "expires_at", session.ExpiresAt)
	return session
}

// GetSession returns the session or ErrSessionNotFound when missing or expired
func (s *SessionService) GetSession(sessionID string) (*AdminSession, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	var session AdminSession
	if !s.cache.Get(constants.CachePrefixSession.Key(sessionID), &session) {
		return nil, ErrSessionNotFound
	}

	if s.now().After(session.ExpiresAt) {
		s.DeleteSession(sessionID)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionService) DeleteSession(sessionID string) {
	s.cache.Delete(constants.CachePrefixSession.Key(sessionID))
}
