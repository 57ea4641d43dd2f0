package main

import (
	"chat-client/client"
	"chat-client/contract"
	"chat-client/observability"
	"chat-client/repositories"
	"chat-client/runtime"
	"chat-client/runtime/workers"
	"chat-client/services"
	"chat-client/sink"
	"chat-client/transport"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/grpc/backoff"
)

type app struct {
	config Config
	log    *slog.Logger
	api    *client.API
	auth   *services.AuthService
}

func newApp(config Config, log *slog.Logger, db *badger.DB) *app {
	api := client.NewAPI(log, config.ServerURL, config.HTTPTimeout)
	tokens := repositories.NewTokenRepository(db, log)
	return &app{
		config: config,
		log:    log,
		api:    api,
		auth:   services.NewAuthService(log, api, tokens),
	}
}

// chatSession is everything one joined channel runs on
type chatSession struct {
	service      *services.ChatService
	orchestrator *runtime.Orchestrator
	mirror       *sink.Timeline
}

func (a *app) newChatSession(in io.Reader, out io.Writer) *chatSession {
	monitoring := observability.NewMonitoringManager(a.log)
	dialer := transport.NewDialer(a.log, a.config.HandshakeTimeout, a.config.WriteWait)
	engine := runtime.NewEngine(a.log, dialer, monitoring, runtime.EngineConfig{
		Endpoint:     a.config.WebSocketURL,
		InboxSize:    a.config.InboxSize,
		OutboundSize: a.config.OutboundSize,
		FlushTimeout: a.config.WriteWait,
		Reconnect:    a.reconnectPolicy(),
	})

	mirror := sink.NewTimeline()
	engine.RegisterSink(sink.NewTerminal(out))
	engine.RegisterSink(mirror)

	supervisor := workers.NewSupervisor(a.log, a.config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(a.log, supervisor, engine, monitoring, a.config.MetricInterval)
	orchestrator.Add(workers.NewPromptWorker(a.log, engine, in, out, orchestrator.Stop))

	return &chatSession{
		service:      services.NewChatService(a.api, orchestrator),
		orchestrator: orchestrator,
		mirror:       mirror,
	}
}

func (a *app) reconnectPolicy() contract.ReconnectPolicy {
	if !a.config.ReconnectEnabled {
		return runtime.NoReconnect{}
	}
	config := backoff.DefaultConfig
	config.MaxDelay = a.config.ReconnectDelay
	return runtime.NewExponentialBackoff(config, a.config.ReconnectMax)
}
