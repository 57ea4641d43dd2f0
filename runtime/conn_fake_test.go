package runtime

import (
	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/errors"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

// fakeConn is an in-memory socket. The test plays the server side.
type fakeConn struct {
	inbound  chan []byte
	failures chan error
	written  chan []byte
	closed   chan struct{}
	once     sync.Once
	// writeDelay makes every write as slow as a congested socket
	writeDelay time.Duration
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound:  make(chan []byte, 16),
		failures: make(chan error, 1),
		written:  make(chan []byte, 64),
		closed:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case payload := <-c.inbound:
		return payload, nil
	case err := <-c.failures:
		return nil, err
	case <-c.closed:
		return nil, fmt.Errorf("%w: fake connection closed", errors.ErrConnectionClosed)
	}
}

func (c *fakeConn) WriteMessage(payload []byte) error {
	if c.writeDelay > 0 {
		time.Sleep(c.writeDelay)
	}
	select {
	case <-c.closed:
		return fmt.Errorf("%w: write on closed connection", errors.ErrConnectionClosed)
	default:
	}
	c.written <- payload
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) push(frame string) {
	c.inbound <- []byte(frame)
}

func (c *fakeConn) fail(err error) {
	c.failures <- err
}

// nextWritten returns the next frame the client wrote, decoded.
func (c *fakeConn) nextWritten(t *testing.T) map[string]string {
	t.Helper()
	select {
	case payload := <-c.written:
		frame := map[string]string{}
		require.NoError(t, json.Unmarshal(payload, &frame))
		return frame
	case <-time.After(waitFor):
		t.Fatal("no frame written")
		return nil
	}
}

// fakeDialer hands out the queued connections in order.
// A nil connection makes Dial block until its context is canceled.
type fakeDialer struct {
	mu    sync.Mutex
	conns []contract.Conn
	errs  []error
	dials int
}

func (d *fakeDialer) queue(conn contract.Conn, err error) *fakeDialer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns = append(d.conns, conn)
	d.errs = append(d.errs, err)
	return d
}

func (d *fakeDialer) Dial(ctx context.Context, _ string) (contract.Conn, error) {
	d.mu.Lock()
	if len(d.conns) == 0 {
		d.mu.Unlock()
		return nil, fmt.Errorf("no connection queued")
	}
	conn, err := d.conns[0], d.errs[0]
	d.conns, d.errs = d.conns[1:], d.errs[1:]
	d.dials++
	d.mu.Unlock()

	if conn == nil && err == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return conn, err
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// recordingSink keeps every view event it receives.
type recordingSink struct {
	mu     sync.Mutex
	events []event.ViewEvent
}

func (s *recordingSink) Consume(_ context.Context, e event.ViewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) failures() []event.TransportFailed {
	s.mu.Lock()
	defer s.mu.Unlock()
	var failures []event.TransportFailed
	for _, e := range s.events {
		if f, ok := e.(event.TransportFailed); ok {
			failures = append(failures, f)
		}
	}
	return failures
}

func (s *recordingSink) states() []domain.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var states []domain.ConnectionState
	for _, e := range s.events {
		if c, ok := e.(event.ConnectionChanged); ok {
			states = append(states, c.State)
		}
	}
	return states
}

// lateDialer returns its connection only once released, whatever the context says.
type lateDialer struct {
	release chan struct{}
	conn    contract.Conn
}

func (d *lateDialer) Dial(context.Context, string) (contract.Conn, error) {
	<-d.release
	return d.conn, nil
}

func outbound(content string) event.Outbound {
	return event.Outbound{Username: "bob", Channel: "general", Content: content}
}
