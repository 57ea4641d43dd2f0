package event

import (
	"chat-client/domain"
	"time"
)

// ViewEvent is published to sinks after the engine mutated its state.
type ViewEvent interface {
	Name() string
	OccurredAt() time.Time
}

type TimelineUpdated struct {
	Entries     []domain.ChatEntry
	ShowWelcome bool
	At          time.Time
}

func (TimelineUpdated) Name() string            { return "TimelineUpdated" }
func (e TimelineUpdated) OccurredAt() time.Time { return e.At }

type PresenceUpdated struct {
	Names []string
	At    time.Time
}

func (PresenceUpdated) Name() string            { return "PresenceUpdated" }
func (e PresenceUpdated) OccurredAt() time.Time { return e.At }

type ConnectionChanged struct {
	State domain.ConnectionState
	At    time.Time
}

func (ConnectionChanged) Name() string            { return "ConnectionChanged" }
func (e ConnectionChanged) OccurredAt() time.Time { return e.At }

// TransportFailed is surfaced once per transport failure, never retried by the sink.
type TransportFailed struct {
	Err error
	At  time.Time
}

func (TransportFailed) Name() string            { return "TransportFailed" }
func (e TransportFailed) OccurredAt() time.Time { return e.At }
