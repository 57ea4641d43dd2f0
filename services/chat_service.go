package services

import (
	"chat-client/auth"
	"chat-client/client"
	"chat-client/contract"
	"chat-client/errors"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

type IChatService interface {
	Channels(ctx context.Context) ([]string, error)
	Join(ctx context.Context, session *auth.Session, channel string) error
}

type ChatService struct {
	api          client.IChatAPI
	orchestrator contract.IOrchestrator
	now          func() time.Time
}

func NewChatService(api client.IChatAPI, orchestrator contract.IOrchestrator) *ChatService {
	return &ChatService{api: api, orchestrator: orchestrator, now: time.Now}
}

// Channels lists the channels known to the server, sorted and without duplicates.
func (s *ChatService) Channels(ctx context.Context) ([]string, error) {
	channels, err := s.api.Channels(ctx)
	if err != nil {
		return nil, err
	}
	channels = lo.Uniq(lo.Compact(channels))
	slices.Sort(channels)
	return channels, nil
}

// Join runs a chat session in channel until it is left or ctx ends.
// Only an authenticated session may join.
func (s *ChatService) Join(ctx context.Context, session *auth.Session, channel string) error {
	if session == nil || session.User.Username == "" {
		return errors.ErrNotAuthenticated
	}
	if session.Expired(s.now()) {
		return fmt.Errorf("%w: token expired at %s", errors.ErrNotAuthenticated, session.ExpiresAt.Format(time.RFC3339))
	}
	if strings.TrimSpace(channel) == "" {
		return errors.ErrEmptyChannel
	}
	return s.orchestrator.Start(ctx, session.Identity(channel))
}
