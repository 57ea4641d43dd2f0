package runtime

import (
	"chat-client/codec"
	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/errors"
	"chat-client/observability"
	"chat-client/projection"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultFlushTimeout = 2 * time.Second

type EngineConfig struct {
	Endpoint  string
	InboxSize int
	// OutboundSize is the outbound backlog above which a slow socket is reported.
	// The queue itself is unbounded.
	OutboundSize int
	// FlushTimeout bounds how long stopping waits for queued frames, leave included
	FlushTimeout time.Duration
	// Reconnect defaults to NoReconnect
	Reconnect contract.ReconnectPolicy
}

// Engine wires the session, the connection and both projections around one Loop.
// Public methods post into the loop and wait, so they are safe from any goroutine.
type Engine struct {
	log        *slog.Logger
	config     EngineConfig
	loop       *Loop
	monitoring *observability.MonitoringManager

	session  *SessionContext
	timeline *projection.Timeline
	presence *projection.Presence
	conn     *ConnectionManager

	reconnect contract.ReconnectPolicy
	attempt   int
	epoch     uint64
	retry     *time.Timer

	registry *Registry
	now      func() time.Time
}

func NewEngine(
	log *slog.Logger,
	dialer contract.Dialer,
	monitoring *observability.MonitoringManager,
	config EngineConfig,
) *Engine {
	if config.Reconnect == nil {
		config.Reconnect = NoReconnect{}
	}
	if config.FlushTimeout <= 0 {
		config.FlushTimeout = defaultFlushTimeout
	}
	e := &Engine{
		log:        log,
		config:     config,
		loop:       NewLoop(config.InboxSize),
		monitoring: monitoring,
		timeline:   projection.NewTimeline(),
		presence:   projection.NewPresence(),
		reconnect:  config.Reconnect,
		registry:   NewRegistry(),
		now:        time.Now,
	}
	e.session = NewSessionContext(e.timeline, e.presence)
	e.conn = NewConnectionManager(log, e.loop, dialer, e.session, ConnectionHooks{
		OnState:   e.onState,
		OnFrame:   e.onFrame,
		OnFailure: e.onFailure,
	}, config.OutboundSize)
	return e
}

// Run processes every mutation until ctx is canceled, then leaves the channel and
// returns once the queued frames are written or FlushTimeout elapsed.
func (e *Engine) Run(ctx context.Context) error {
	err := e.loop.Run(ctx)
	e.teardown()
	return err
}

func (e *Engine) RegisterSink(sink contract.EventSink) {
	e.registry.Subscribe(uuid.NewString(), sink)
}

// Subscribe registers sink under id so it can be removed later.
func (e *Engine) Subscribe(id string, sink contract.EventSink) {
	e.registry.Subscribe(id, sink)
}

func (e *Engine) Unsubscribe(id string) {
	e.registry.Unsubscribe(id)
}

// Join begins a session as identity and starts connecting.
func (e *Engine) Join(ctx context.Context, identity domain.Identity) error {
	identity.Channel = strings.TrimSpace(identity.Channel)
	if identity.Channel == "" {
		return errors.ErrEmptyChannel
	}
	if identity.Username == "" {
		return errors.ErrNotAuthenticated
	}

	var err error
	callErr := e.loop.Call(ctx, func() {
		if err = e.session.Begin(identity); err != nil {
			return
		}
		e.epoch++
		e.attempt = 0
		e.monitoring.Reset()
		e.publishTimeline()
		e.publishPresence()
		e.log.Info("Joining channel", "channel", identity.Channel, "username", identity.Username)
		if err = e.conn.Connect(e.config.Endpoint); err != nil {
			e.session.End()
		}
	})
	if callErr != nil {
		return callErr
	}
	return err
}

// Send appends an optimistic entry and queues the message.
// The entry is kept even when the connection is not open.
func (e *Engine) Send(ctx context.Context, content string) (uuid.UUID, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return uuid.Nil, errors.ErrEmptyMessage
	}

	var (
		id  uuid.UUID
		err error
	)
	callErr := e.loop.Call(ctx, func() {
		identity, ok := e.session.Identity()
		if !ok {
			err = errors.ErrNoActiveSession
			return
		}
		id = e.timeline.AppendOptimistic(identity.Username, content)
		if e.conn.Send(event.Outbound{Username: identity.Username, Channel: identity.Channel, Content: content}) {
			e.monitoring.IncrMessagesSent()
		} else {
			e.monitoring.IncrSendsDropped()
		}
		e.publishTimeline()
	})
	if callErr != nil {
		return uuid.Nil, callErr
	}
	return id, err
}

// Leave closes the connection, leave envelope first, then ends the session.
// Leaving without a session does nothing.
func (e *Engine) Leave(ctx context.Context) error {
	return e.loop.Call(ctx, func() {
		if !e.session.Active() {
			return
		}
		e.leave()
		e.publishTimeline()
		e.publishPresence()
	})
}

func (e *Engine) View(ctx context.Context) (domain.View, error) {
	var view domain.View
	err := e.loop.Call(ctx, func() {
		identity, active := e.session.Identity()
		view = domain.View{
			Identity:    identity,
			Active:      active,
			State:       e.conn.State(),
			Entries:     e.timeline.Entries(),
			Online:      e.presence.Names(),
			ShowWelcome: e.timeline.ShowWelcome(),
		}
	})
	return view, err
}

// Search returns the entries whose content contains query.
func (e *Engine) Search(ctx context.Context, query string) ([]domain.ChatEntry, error) {
	var entries []domain.ChatEntry
	err := e.loop.Call(ctx, func() {
		entries = e.timeline.Search(query)
	})
	return entries, err
}

func (e *Engine) Stats() observability.SessionStats {
	return e.monitoring.GetLatest()
}

func (e *Engine) leave() {
	e.epoch++
	e.stopRetry()
	e.conn.Close()
	e.session.End()
}

func (e *Engine) teardown() {
	if e.session.Active() {
		e.log.Info("Engine stopped, leaving channel")
		e.leave()
	} else {
		e.stopRetry()
		e.conn.Close()
	}
	if !e.conn.Flush(e.config.FlushTimeout) {
		e.log.Warn("Outbound frames not flushed before stop", "timeout", e.config.FlushTimeout)
	}
}

func (e *Engine) onState(state domain.ConnectionState) {
	e.session.SetState(state)
	if state == domain.OPEN {
		e.attempt = 0
	}
	e.publish(event.ConnectionChanged{State: state, At: e.now()})
}

func (e *Engine) onFrame(payload []byte) {
	e.monitoring.IncrFramesReceived()
	if !e.session.Active() {
		e.monitoring.IncrFramesDropped()
		return
	}
	envelope, err := codec.Decode(payload)
	if err != nil {
		e.monitoring.IncrFramesDropped()
		e.log.Warn("Dropping inbound frame", "error", err)
		return
	}
	e.route(envelope)
}

func (e *Engine) route(envelope event.Envelope) {
	switch env := envelope.(type) {
	case event.PresenceSnapshot:
		e.presence.ApplySnapshot(env.Names)
		e.publishPresence()
	case event.SystemNotice:
		e.timeline.AppendSystem(env.Text)
		if change, ok := event.ParseNotice(env.Text); ok && e.applyPresenceChange(change) {
			e.publishPresence()
		}
		e.publishTimeline()
	case event.ChatReceived:
		if _, reconciled := e.timeline.ReconcileOrAppend(env.Username, env.Content, e.session.IsSelf(env.Username)); reconciled {
			e.monitoring.IncrReconciled()
		}
		e.publishTimeline()
	default:
		e.monitoring.IncrFramesDropped()
		e.log.Warn("Unhandled envelope", "type", envelope.Type())
	}
}

func (e *Engine) applyPresenceChange(change event.PresenceChange) bool {
	switch change.Action {
	case event.JOINED:
		return e.presence.ApplyJoin(change.Username)
	case event.LEFT:
		return e.presence.ApplyLeave(change.Username)
	default:
		return false
	}
}

func (e *Engine) onFailure(err error) {
	e.monitoring.IncrTransportFailures()
	e.log.Warn("Transport failure", "error", err, "state", e.conn.State())
	e.publish(event.TransportFailed{Err: err, At: e.now()})
	e.scheduleReconnect()
}

func (e *Engine) scheduleReconnect() {
	if !e.session.Active() {
		return
	}
	e.attempt++
	delay, ok := e.reconnect.NextDelay(e.attempt)
	if !ok {
		return
	}
	epoch := e.epoch
	e.log.Info("Reconnecting", "attempt", e.attempt, "delay", delay)
	e.stopRetry()
	e.retry = time.AfterFunc(delay, func() {
		e.loop.Post(func() { e.reconnectNow(epoch) })
	})
}

func (e *Engine) reconnectNow(epoch uint64) {
	if epoch != e.epoch || !e.session.Active() || !e.conn.State().CanConnect() {
		return
	}
	e.monitoring.IncrReconnects()
	if err := e.conn.Connect(e.config.Endpoint); err != nil {
		e.log.Warn("Reconnect refused", "error", err)
	}
}

func (e *Engine) stopRetry() {
	if e.retry != nil {
		e.retry.Stop()
		e.retry = nil
	}
}

func (e *Engine) publishTimeline() {
	e.publish(event.TimelineUpdated{
		Entries:     e.timeline.Entries(),
		ShowWelcome: e.timeline.ShowWelcome(),
		At:          e.now(),
	})
}

func (e *Engine) publishPresence() {
	e.publish(event.PresenceUpdated{Names: e.presence.Names(), At: e.now()})
}

func (e *Engine) publish(evt event.ViewEvent) {
	for _, sink := range e.registry.Sinks() {
		if err := sink.Consume(context.Background(), evt); err != nil {
			e.log.Warn("Sink rejected event", "event", evt.Name(), "error", err)
		}
	}
}
