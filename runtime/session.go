package runtime

import (
	"chat-client/domain"
	"chat-client/errors"
	"time"
)

// Resetter is anything cleared when a session begins or ends.
type Resetter interface {
	Reset()
}

// SessionContext holds the identity of the current session.
// It is owned by the engine loop and never shared.
type SessionContext struct {
	session *domain.Session
	owned   []Resetter
	now     func() time.Time
}

func NewSessionContext(owned ...Resetter) *SessionContext {
	return &SessionContext{owned: owned, now: time.Now}
}

// Begin starts a session as identity and clears every owned projection.
func (s *SessionContext) Begin(identity domain.Identity) error {
	if s.session != nil {
		return errors.ErrSessionActive
	}
	s.resetOwned()
	s.session = domain.NewSession(identity, s.now())
	return nil
}

// End clears the identity and every owned projection.
func (s *SessionContext) End() {
	s.session = nil
	s.resetOwned()
}

func (s *SessionContext) Active() bool {
	return s.session != nil
}

func (s *SessionContext) Identity() (domain.Identity, bool) {
	if s.session == nil {
		return domain.Identity{}, false
	}
	return s.session.Identity, true
}

// IsSelf reports whether username is the identity of the active session.
func (s *SessionContext) IsSelf(username string) bool {
	return s.session != nil && s.session.Username == username
}

func (s *SessionContext) SetState(state domain.ConnectionState) {
	if s.session != nil {
		s.session.State = state
	}
}

func (s *SessionContext) State() domain.ConnectionState {
	if s.session == nil {
		return domain.IDLE
	}
	return s.session.State
}

func (s *SessionContext) resetOwned() {
	for _, r := range s.owned {
		r.Reset()
	}
}
