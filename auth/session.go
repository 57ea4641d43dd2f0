package auth

import (
	"chat-client/domain"
	"chat-client/errors"
	"fmt"
	"strings"
	"time"
)

// Session is an authenticated user and the token proving it.
// It is created at login, register or restore and handed explicitly to whoever needs it.
type Session struct {
	Token     string
	User      domain.User
	ExpiresAt time.Time
}

// NewSession builds a session from a token issued for user.
// A token naming another user is refused.
func NewSession(token string, user domain.User) (*Session, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if user.Username == "" {
		user.Username = claims.Username
	}
	if claims.Username != "" && claims.Username != user.Username {
		return nil, fmt.Errorf("%w: token issued to %q", errors.ErrNotAuthenticated, claims.Username)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &Session{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// Expired reports whether the token is past its expiry at now.
// A token without expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Identity is who the user is in channel.
func (s *Session) Identity(channel string) domain.Identity {
	return domain.Identity{Username: s.User.Username, Channel: strings.TrimSpace(channel)}
}
