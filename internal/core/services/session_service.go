package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"mealms-portal/internal/config"
	"mealms-portal/internal/core/domain"
	"mealms-portal/internal/pkg/token"

	"github.com/google/uuid"
)

// SessionService authenticates managers against the upstream service and owns
// the in-process session registry. Only the MANAGER role is admitted to the
// web portal; valid credentials with any other role are rejected and nothing
// is retained.
type SessionService struct {
	gateway Gateway
	cfg     *config.Config

	mu       sync.RWMutex
	sessions map[string]*domain.Session

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSessionService creates a new session service
func NewSessionService(gateway Gateway, cfg *config.Config) *SessionService {
	return &SessionService{
		gateway:  gateway,
		cfg:      cfg,
		sessions: make(map[string]*domain.Session),
		stopChan: make(chan struct{}),
	}
}

// LoginResult is a fresh portal session and the token that names it
type LoginResult struct {
	Token   string
	Session *domain.Session
}

// Login verifies a credential pair upstream and opens a manager session
func (s *SessionService) Login(ctx context.Context, username, mobileNumber string) (*LoginResult, error) {
	// 1. Both fields are required before any network attempt
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if mobileNumber == "" {
		return nil, fmt.Errorf("%w: mobile number is required", domain.ErrInvalidInput)
	}

	// 2. Verify credentials upstream
	auth, err := s.gateway.Login(ctx, username, mobileNumber)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 3. Role gate: the web portal admits managers only
	if auth.User.Role != domain.RoleManager {
		log.Printf("⛔ Login denied for %s: role %s is not MANAGER", auth.User.Username, auth.User.Role)
		return nil, domain.ErrAccessDenied
	}

	// 4. Open the session and issue the portal token
	session := &domain.Session{
		ID:            uuid.New().String(),
		UpstreamToken: auth.Token,
		Username:      auth.User.Username,
		FirstName:     auth.User.FirstName,
		Role:          auth.User.Role,
		CreatedAt:     time.Now(),
		ExpiresAt:     token.Expiry(s.cfg.Session.TTLMinutes),
	}

	portalToken, err := token.Generate(
		session.ID,
		session.Username,
		session.FirstName,
		string(session.Role),
		s.cfg.Session.Secret,
		s.cfg.Session.TTLMinutes,
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Printf("✅ Manager logged in: %s", session.Username)

	return &LoginResult{Token: portalToken, Session: session}, nil
}

// Resolve looks up a live session by ID. Expired sessions are dropped on
// access so a stale token fails even before the sweeper runs.
func (s *SessionService) Resolve(sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if session.Expired(time.Now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, domain.ErrSessionExpired
	}

	return session, nil
}

// Logout removes a session from the registry
func (s *SessionService) Logout(sessionID string) {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		log.Printf("✅ Manager logged out (session %s)", sessionID)
	}
}

// Active returns any live session, preferring the most recently opened.
// Used by background jobs that need an upstream credential.
func (s *SessionService) Active() (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Session
	now := time.Now()
	for _, session := range s.sessions {
		if session.Expired(now) {
			continue
		}
		if latest == nil || session.CreatedAt.After(latest.CreatedAt) {
			latest = session
		}
	}
	return latest, latest != nil
}

// StartSweeper launches the background expiry sweep
func (s *SessionService) StartSweeper() {
	go s.runSweepLoop()
}

// Stop stops the background sweep
func (s *SessionService) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *SessionService) runSweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *SessionService) sweep() {
	now := time.Now()

	s.mu.Lock()
	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		log.Printf("🗑️ Swept %d expired sessions", removed)
	}
}
