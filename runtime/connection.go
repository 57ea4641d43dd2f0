package runtime

import (
	"chat-client/codec"
	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/errors"
	"context"
	stderrors "errors"
	"log/slog"
	"time"
)

// ConnectionHooks are invoked on the loop whenever the connection changes.
type ConnectionHooks struct {
	OnState   func(state domain.ConnectionState)
	OnFrame   func(payload []byte)
	OnFailure func(err error)
}

// ConnectionManager owns the lifecycle of one socket at a time.
// Every method but Flush must be called from the loop. Transport goroutines only post into it.
type ConnectionManager struct {
	log     *slog.Logger
	loop    *Loop
	dialer  contract.Dialer
	session *SessionContext
	hooks   ConnectionHooks
	// backlogWarn is the outbound backlog whose crossing is logged
	backlogWarn int

	state      domain.ConnectionState
	generation uint64
	cancelDial context.CancelFunc
	outbox     *outbox
	lastWriter <-chan struct{}
}

func NewConnectionManager(
	log *slog.Logger,
	loop *Loop,
	dialer contract.Dialer,
	session *SessionContext,
	hooks ConnectionHooks,
	backlogWarn int,
) *ConnectionManager {
	return &ConnectionManager{
		log:         log,
		loop:        loop,
		dialer:      dialer,
		session:     session,
		hooks:       hooks,
		backlogWarn: backlogWarn,
		state:       domain.IDLE,
	}
}

func (c *ConnectionManager) State() domain.ConnectionState {
	return c.state
}

// Connect starts dialing endpoint. The result is posted back to the loop.
func (c *ConnectionManager) Connect(endpoint string) error {
	if !c.state.CanConnect() {
		return errors.ErrAlreadyConnected
	}
	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelDial = cancel
	c.setState(domain.CONNECTING)

	go func() {
		conn, err := c.dialer.Dial(ctx, endpoint)
		posted := c.loop.Post(func() { c.opened(gen, conn, err) })
		if !posted && conn != nil {
			_ = conn.Close()
		}
	}()
	return nil
}

// Send queues an envelope for the writer, in call order and without blocking.
// Nothing is sent unless the connection is open.
func (c *ConnectionManager) Send(out event.Outbound) bool {
	if c.state != domain.OPEN {
		c.log.Debug("Send dropped, connection not open", "state", c.state)
		return false
	}
	payload, err := codec.Encode(out)
	if err != nil {
		c.log.Warn("Unable to encode outbound envelope", "error", err)
		return false
	}
	backlog := c.outbox.push(payload)
	if c.backlogWarn > 0 && backlog == c.backlogWarn+1 {
		c.log.Warn("Outbound backlog growing, socket is slow", "backlog", backlog)
	}
	return backlog > 0
}

// Close sends the leave envelope if open, then closes the socket once the writer
// flushed everything queued before it. A failed connection ends in CLOSED too.
// Callbacks of the closed instance are ignored afterwards.
func (c *ConnectionManager) Close() {
	switch c.state {
	case domain.OPEN:
		if identity, ok := c.session.Identity(); ok {
			c.Send(event.Outbound{Username: identity.Username, Channel: identity.Channel})
		}
	case domain.CONNECTING, domain.ERROR:
	default:
		return
	}
	c.teardown()
	c.generation++
	c.setState(domain.CLOSED)
}

func (c *ConnectionManager) opened(gen uint64, conn contract.Conn, err error) {
	if gen != c.generation || c.state != domain.CONNECTING {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.teardown()
		c.setState(domain.ERROR)
		c.hooks.OnFailure(err)
		return
	}

	box := newOutbox()
	c.outbox = box
	c.lastWriter = box.done
	go c.write(gen, conn, box)
	go c.read(gen, conn)

	c.setState(domain.OPEN)
	if identity, ok := c.session.Identity(); ok {
		c.Send(event.Outbound{Username: identity.Username, Channel: identity.Channel})
	}
}

func (c *ConnectionManager) received(gen uint64, payload []byte) {
	if gen != c.generation || c.state != domain.OPEN {
		return
	}
	c.hooks.OnFrame(payload)
}

func (c *ConnectionManager) failed(gen uint64, err error) {
	if gen != c.generation || c.state != domain.OPEN {
		return
	}
	c.teardown()
	if stderrors.Is(err, errors.ErrConnectionClosed) {
		c.setState(domain.CLOSED)
	} else {
		c.setState(domain.ERROR)
	}
	c.hooks.OnFailure(err)
}

// Flush waits, at most timeout, for the last writer to write what was queued and close
// its socket. It reports whether the writer finished. Safe once the loop has stopped.
func (c *ConnectionManager) Flush(timeout time.Duration) bool {
	if c.lastWriter == nil {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.lastWriter:
		return true
	case <-timer.C:
		return false
	}
}

// teardown stops the writer, which flushes what is queued and closes the socket.
func (c *ConnectionManager) teardown() {
	if c.cancelDial != nil {
		c.cancelDial()
		c.cancelDial = nil
	}
	if c.outbox != nil {
		c.outbox.close()
		c.outbox = nil
	}
}

func (c *ConnectionManager) setState(state domain.ConnectionState) {
	if c.state == state {
		return
	}
	c.log.Debug("Connection state changed", "from", c.state, "to", state)
	c.state = state
	c.hooks.OnState(state)
}

// write owns the socket: it is closed only once the outbox is drained.
func (c *ConnectionManager) write(gen uint64, conn contract.Conn, box *outbox) {
	defer close(box.done)
	defer func() { _ = conn.Close() }()
	for {
		payload, ok := box.next()
		if !ok {
			return
		}
		if err := conn.WriteMessage(payload); err != nil {
			c.loop.Post(func() { c.failed(gen, err) })
			return
		}
	}
}

func (c *ConnectionManager) read(gen uint64, conn contract.Conn) {
	for {
		payload, err := conn.ReadMessage()
		if err != nil {
			c.loop.Post(func() { c.failed(gen, err) })
			return
		}
		// Once the loop stopped the writer still flushes, so the socket stays open
		if !c.loop.Post(func() { c.received(gen, payload) }) {
			return
		}
	}
}
