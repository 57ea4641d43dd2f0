// Package transport carries chat frames over a gorilla websocket.
package transport

import (
	"chat-client/contract"
	"chat-client/errors"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteWait        = 10 * time.Second
)

// Dialer opens websocket connections to the chat server.
type Dialer struct {
	log       *slog.Logger
	dialer    *websocket.Dialer
	writeWait time.Duration
}

func NewDialer(log *slog.Logger, handshakeTimeout, writeWait time.Duration) *Dialer {
	if handshakeTimeout <= 0 {
		handshakeTimeout = defaultHandshakeTimeout
	}
	if writeWait <= 0 {
		writeWait = defaultWriteWait
	}
	return &Dialer{
		log: log,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
		writeWait: writeWait,
	}
}

func (d *Dialer) Dial(ctx context.Context, endpoint string) (contract.Conn, error) {
	ws, resp, err := d.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	d.log.Debug("Websocket connected", "endpoint", endpoint)
	return &Conn{ws: ws, writeWait: d.writeWait}, nil
}

// Conn adapts a websocket connection to one reader and one writer goroutine.
type Conn struct {
	ws        *websocket.Conn
	writeWait time.Duration
	closeOnce sync.Once
	closeErr  error
}

// ReadMessage returns the next text frame.
// A close frame from the peer, or a read on a locally closed socket,
// yields an error wrapping errors.ErrConnectionClosed.
func (c *Conn) ReadMessage() ([]byte, error) {
	for {
		messageType, payload, err := c.ws.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if stderrors.As(err, &closeErr) || stderrors.Is(err, net.ErrClosed) {
				return nil, fmt.Errorf("%w: %v", errors.ErrConnectionClosed, err)
			}
			return nil, err
		}
		if messageType == websocket.TextMessage || messageType == websocket.BinaryMessage {
			return payload, nil
		}
	}
}

func (c *Conn) WriteMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

// Close says goodbye with a normal closure frame, then drops the socket.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeWait))
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
