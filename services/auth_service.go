package services

import (
	"chat-client/auth"
	"chat-client/client"
	"chat-client/errors"
	"chat-client/repositories"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"
)

type IAuthService interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Register(ctx context.Context, username, email, password string) (*auth.Session, error)
	Restore(ctx context.Context) (*auth.Session, error)
	Logout() error
}

type AuthService struct {
	log    *slog.Logger
	api    client.IChatAPI
	tokens repositories.ITokenRepository
	now    func() time.Time
}

func NewAuthService(log *slog.Logger, api client.IChatAPI, tokens repositories.ITokenRepository) *AuthService {
	return &AuthService{log: log, api: api, tokens: tokens, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	// 1. Validate before bothering the server
	if err := auth.ValidateLogin(auth.LoginRequest{Username: username, Password: password}); err != nil {
		return nil, err
	}

	// 2. Exchange the credentials for a token
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.open(resp)
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*auth.Session, error) {
	if err := auth.ValidateRegister(auth.RegisterRequest{Username: username, Email: email, Password: password}); err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	return s.open(resp)
}

// Restore brings back the session of a previous run.
// A token the server no longer accepts is forgotten. A server that cannot be
// reached leaves it in place for the next attempt.
func (s *AuthService) Restore(ctx context.Context) (*auth.Session, error) {
	stored, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}

	session, err := auth.NewSession(stored.Token, stored.User)
	if err != nil || session.Expired(s.now()) {
		s.forget()
		return nil, fmt.Errorf("%w: stored token expired or unreadable", errors.ErrNotAuthenticated)
	}

	user, err := s.api.Verify(ctx, stored.Token)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) || stderrors.Is(err, errors.ErrRequestRejected) {
			s.forget()
			return nil, fmt.Errorf("%w: %v", errors.ErrNotAuthenticated, err)
		}
		return nil, err
	}
	session.User = user
	return session, nil
}

func (s *AuthService) Logout() error {
	return s.tokens.Delete()
}

// open turns a server answer into a session and keeps its token for the next run.
func (s *AuthService) open(resp client.AuthResponse) (*auth.Session, error) {
	session, err := auth.NewSession(resp.Token, resp.User)
	if err != nil {
		return nil, err
	}
	stored := repositories.StoredToken{Token: session.Token, User: session.User, SavedAt: s.now()}
	if err := s.tokens.Save(stored); err != nil {
		return nil, fmt.Errorf("unable to keep the token: %w", err)
	}
	s.log.Debug("Authenticated", "username", session.User.Username, "expires_at", session.ExpiresAt)
	return session, nil
}

func (s *AuthService) forget() {
	if err := s.tokens.Delete(); err != nil {
		s.log.Warn("Unable to delete stored token", "error", err)
	}
}
