// Package domain contains core concepts of the chat client.
// This file defines the session identity and the connection lifecycle states.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Identity is who we are and where we are talking.
type Identity struct {
	Username string
	Channel  string
}

func (i Identity) IsZero() bool {
	return i.Username == "" && i.Channel == ""
}

type ConnectionState string

const (
	IDLE       ConnectionState = "IDLE"
	CONNECTING ConnectionState = "CONNECTING"
	OPEN       ConnectionState = "OPEN"
	CLOSED     ConnectionState = "CLOSED"
	ERROR      ConnectionState = "ERROR"
)

// CanConnect reports whether a new connection instance may be started from this state.
func (s ConnectionState) CanConnect() bool {
	switch s {
	case IDLE, CLOSED, ERROR:
		return true
	default:
		return false
	}
}

// Session is the single active chat session of an engine.
type Session struct {
	Identity
	State     ConnectionState
	StartedAt time.Time
}

func NewSession(identity Identity, at time.Time) *Session {
	return &Session{Identity: identity, State: IDLE, StartedAt: at}
}
