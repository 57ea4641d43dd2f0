// Package domain contains core concepts of the chat client.
// This file defines timeline entries.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntryKind string

const (
	SYSTEM  EntryKind = "system"
	MESSAGE EntryKind = "message"
)

// ChatEntry is one line of the conversation timeline.
// Username and Own are only meaningful for MESSAGE entries.
type ChatEntry struct {
	ID        uuid.UUID // unique within a session
	Kind      EntryKind
	Username  string
	Content   string
	Timestamp time.Time
	Own       bool
	Temporary bool // optimistic, not yet echoed by the server
}

func (e ChatEntry) IsPending() bool {
	return e.Kind == MESSAGE && e.Temporary
}
