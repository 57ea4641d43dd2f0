package e2e

import (
	"chat-client/auth"
	"chat-client/client"
	"chat-client/observability"
	"chat-client/repositories"
	"chat-client/runtime"
	"chat-client/services"
	"chat-client/sink"
	"chat-client/transport"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type BaseChatSuite struct {
	suite.Suite
	Config Config
	log    *slog.Logger
}

// SetupSuite loads the environment configuration and skips without a server to talk to
func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerURL == "" {
		s.T().Skip("E2E_SERVER_URL not set")
	}
	s.log = logs.GetLoggerFromLevel(slog.LevelDebug)
}

// Step prints a colorized header before running fn
func (s *BaseChatSuite) Step(name string, fn func()) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
	fn()
}

// NewAuthService returns an auth service storing its token in a throwaway database
func (s *BaseChatSuite) NewAuthService() *services.AuthService {
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	api := client.NewAPI(s.log, s.Config.ServerURL, 10*time.Second)
	return services.NewAuthService(s.log, api, repositories.NewTokenRepository(db, s.log))
}

// Register creates a fresh account
func (s *BaseChatSuite) Register(ctx context.Context, authService *services.AuthService) *auth.Session {
	username := "e2e-" + uuid.NewString()[:8]
	session, err := authService.Register(ctx, username, username+"@example.com", s.Config.Password)
	s.Require().NoError(err)
	return session
}

// Client is one engine connected to the server, its view mirrored for assertions
type Client struct {
	Engine *runtime.Engine
	Mirror *sink.Timeline
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *BaseChatSuite) StartClient() *Client {
	monitoring := observability.NewMonitoringManager(s.log)
	dialer := transport.NewDialer(s.log, 10*time.Second, 5*time.Second)
	engine := runtime.NewEngine(s.log, dialer, monitoring, runtime.EngineConfig{
		Endpoint:     s.Config.WebSocketURL,
		InboxSize:    64,
		OutboundSize: 64,
	})
	mirror := sink.NewTimeline()
	engine.RegisterSink(mirror)
	engine.RegisterSink(sink.NewTerminal(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{Engine: engine, Mirror: mirror, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		_ = engine.Run(ctx)
	}()
	s.T().Cleanup(c.Stop)
	return c
}

func (c *Client) Stop() {
	c.cancel()
	<-c.done
}
