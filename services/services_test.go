package services

import (
	"chat-client/auth"
	"chat-client/client"
	"chat-client/domain"
	"chat-client/errors"
	"chat-client/mocks"
	"chat-client/repositories"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func issue(t *testing.T, username string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return signed
}

func newAuthService(ctrl *gomock.Controller) (*AuthService, *mocks.MockIChatAPI, *mocks.MockITokenRepository) {
	api := mocks.NewMockIChatAPI(ctrl)
	tokens := mocks.NewMockITokenRepository(ctrl)
	s := NewAuthService(slog.New(slog.NewTextHandler(io.Discard, nil)), api, tokens)
	s.now = func() time.Time { return now }
	return s, api, tokens
}

func TestAuthService_Login(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	s, api, tokens := newAuthService(ctrl)

	user := domain.User{ID: uuid.New(), Username: "alice"}
	token := issue(t, "alice", now.Add(time.Hour))

	api.EXPECT().Login(gomock.Any(), "alice", "secret1").Return(client.AuthResponse{Token: token, User: user}, nil)
	tokens.EXPECT().Save(gomock.Any()).DoAndReturn(func(stored repositories.StoredToken) error {
		req.Equal(token, stored.Token)
		req.Equal(user, stored.User)
		req.Equal(now, stored.SavedAt)
		return nil
	})

	session, err := s.Login(context.Background(), "alice", "secret1")
	req.NoError(err)
	req.Equal("alice", session.User.Username)
	req.Equal(now.Add(time.Hour).Unix(), session.ExpiresAt.Unix())
}

func TestAuthService_Login_Invalid(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	s, _, _ := newAuthService(ctrl)

	_, err := s.Login(context.Background(), "", "")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}

func TestAuthService_Login_Refused(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	s, api, _ := newAuthService(ctrl)

	api.EXPECT().Login(gomock.Any(), "alice", "wrong-one").Return(client.AuthResponse{}, errors.ErrInvalidCredentials)

	_, err := s.Login(context.Background(), "alice", "wrong-one")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}

func TestAuthService_Register(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	s, api, tokens := newAuthService(ctrl)

	user := domain.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	token := issue(t, "bob", now.Add(time.Hour))

	api.EXPECT().Register(gomock.Any(), "bob", "bob@example.com", "secret1").Return(client.AuthResponse{Token: token, User: user}, nil)
	tokens.EXPECT().Save(gomock.Any()).Return(nil)

	session, err := s.Register(context.Background(), "bob", "bob@example.com", "secret1")
	req.NoError(err)
	req.Equal(user, session.User)
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	s, _, _ := newAuthService(ctrl)

	_, err := s.Register(context.Background(), "bob", "not-an-email", "secret1")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}

func TestAuthService_Restore(t *testing.T) {
	ctx := context.Background()
	user := domain.User{ID: uuid.New(), Username: "alice"}

	t.Run("valid token", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		s, api, tokens := newAuthService(ctrl)
		token := issue(t, "alice", now.Add(time.Hour))

		tokens.EXPECT().Load().Return(repositories.StoredToken{Token: token, User: user}, nil)
		api.EXPECT().Verify(gomock.Any(), token).Return(user, nil)

		session, err := s.Restore(ctx)
		req.NoError(err)
		req.Equal(user, session.User)
	})

	t.Run("nothing stored", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		s, _, tokens := newAuthService(ctrl)

		tokens.EXPECT().Load().Return(repositories.StoredToken{}, errors.ErrNoStoredToken)

		_, err := s.Restore(ctx)
		req.ErrorIs(err, errors.ErrNoStoredToken)
	})

	t.Run("expired token is forgotten", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		s, _, tokens := newAuthService(ctrl)
		token := issue(t, "alice", now.Add(-time.Minute))

		tokens.EXPECT().Load().Return(repositories.StoredToken{Token: token, User: user}, nil)
		tokens.EXPECT().Delete().Return(nil)

		_, err := s.Restore(ctx)
		req.ErrorIs(err, errors.ErrNotAuthenticated)
	})

	t.Run("rejected token is forgotten", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		s, api, tokens := newAuthService(ctrl)
		token := issue(t, "alice", now.Add(time.Hour))

		tokens.EXPECT().Load().Return(repositories.StoredToken{Token: token, User: user}, nil)
		api.EXPECT().Verify(gomock.Any(), token).Return(domain.User{}, errors.ErrInvalidCredentials)
		tokens.EXPECT().Delete().Return(nil)

		_, err := s.Restore(ctx)
		req.ErrorIs(err, errors.ErrNotAuthenticated)
	})

	t.Run("unreachable server keeps the token", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		s, api, tokens := newAuthService(ctrl)
		token := issue(t, "alice", now.Add(time.Hour))
		unreachable := stderrors.New("dial tcp: connection refused")

		tokens.EXPECT().Load().Return(repositories.StoredToken{Token: token, User: user}, nil)
		api.EXPECT().Verify(gomock.Any(), token).Return(domain.User{}, unreachable)

		_, err := s.Restore(ctx)
		req.ErrorIs(err, unreachable)
	})
}

func TestAuthService_Logout(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	s, _, tokens := newAuthService(ctrl)

	tokens.EXPECT().Delete().Return(nil)
	req.NoError(s.Logout())
}

func TestChatService_Channels(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	api := mocks.NewMockIChatAPI(ctrl)
	s := NewChatService(api, mocks.NewMockIOrchestrator(ctrl))

	api.EXPECT().Channels(gomock.Any()).Return([]string{"random", "general", "", "random"}, nil)

	channels, err := s.Channels(context.Background())
	req.NoError(err)
	req.Equal([]string{"general", "random"}, channels)
}

func TestChatService_Join(t *testing.T) {
	ctx := context.Background()
	session := &auth.Session{User: domain.User{Username: "alice"}, ExpiresAt: now.Add(time.Hour)}

	t.Run("starts the orchestrator", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		orchestrator := mocks.NewMockIOrchestrator(ctrl)
		s := NewChatService(mocks.NewMockIChatAPI(ctrl), orchestrator)
		s.now = func() time.Time { return now }

		orchestrator.EXPECT().
			Start(gomock.Any(), domain.Identity{Username: "alice", Channel: "general"}).
			Return(nil)

		req.NoError(s.Join(ctx, session, "  general "))
	})

	t.Run("refuses", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := NewChatService(mocks.NewMockIChatAPI(ctrl), mocks.NewMockIOrchestrator(ctrl))
		s.now = func() time.Time { return now }
		expired := &auth.Session{User: domain.User{Username: "alice"}, ExpiresAt: now.Add(-time.Second)}

		tests := []struct {
			name    string
			session *auth.Session
			channel string
			want    error
		}{
			{"no session", nil, "general", errors.ErrNotAuthenticated},
			{"expired session", expired, "general", errors.ErrNotAuthenticated},
			{"blank channel", session, "   ", errors.ErrEmptyChannel},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				require.ErrorIs(t, s.Join(ctx, tt.session, tt.channel), tt.want)
			})
		}
	})
}
