// Package projection builds the local views of a chat session.
// Handles ordering, reconciliation and presence.
// Does not emit events or interact with UI directly.
package projection

import (
	"chat-client/domain"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Timeline is the ordered conversation of the current session.
// Entries are only ever appended, or replaced in place by reconciliation.
type Timeline struct {
	entries []domain.ChatEntry
	welcome bool
	now     func() time.Time
}

func NewTimeline() *Timeline {
	return &Timeline{
		entries: nil,
		welcome: true,
		now:     time.Now,
	}
}

// AppendOptimistic shows our own message before the server echoes it back.
func (t *Timeline) AppendOptimistic(username, content string) uuid.UUID {
	return t.append(domain.ChatEntry{
		Kind:      domain.MESSAGE,
		Username:  username,
		Content:   content,
		Own:       true,
		Temporary: true,
	})
}

// ReconcileOrAppend records a chat line relayed by the server.
// A self echo confirms the earliest pending entry with the same content, keeping its id and
// position. Two pending entries with identical content are therefore confirmed first in, first out.
// It returns the id of the touched entry and whether an existing one was confirmed.
func (t *Timeline) ReconcileOrAppend(username, content string, isSelf bool) (uuid.UUID, bool) {
	if isSelf {
		_, index, found := lo.FindIndexOf(t.entries, func(e domain.ChatEntry) bool {
			return e.Temporary && e.Content == content
		})
		if found {
			pending := t.entries[index]
			t.entries[index] = domain.ChatEntry{
				ID:        pending.ID,
				Kind:      domain.MESSAGE,
				Username:  username,
				Content:   content,
				Timestamp: t.now(),
				Own:       true,
			}
			return pending.ID, true
		}
	}
	return t.append(domain.ChatEntry{
		Kind:     domain.MESSAGE,
		Username: username,
		Content:  content,
		Own:      isSelf,
	}), false
}

func (t *Timeline) AppendSystem(text string) uuid.UUID {
	return t.append(domain.ChatEntry{
		Kind:    domain.SYSTEM,
		Content: text,
	})
}

// Reset empties the timeline and brings the welcome banner back.
func (t *Timeline) Reset() {
	t.entries = nil
	t.welcome = true
}

// Entries returns a copy, callers may keep it.
func (t *Timeline) Entries() []domain.ChatEntry {
	return append([]domain.ChatEntry(nil), t.entries...)
}

func (t *Timeline) Len() int {
	return len(t.entries)
}

// Pending counts optimistic entries still waiting for their echo.
func (t *Timeline) Pending() int {
	return lo.CountBy(t.entries, func(e domain.ChatEntry) bool {
		return e.IsPending()
	})
}

// ShowWelcome is true until the first entry of the session lands.
func (t *Timeline) ShowWelcome() bool {
	return t.welcome
}

// Search returns the entries whose content contains query, case-insensitively.
func (t *Timeline) Search(query string) []domain.ChatEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	return lo.Filter(t.entries, func(e domain.ChatEntry, _ int) bool {
		return strings.Contains(strings.ToLower(e.Content), query)
	})
}

func (t *Timeline) append(entry domain.ChatEntry) uuid.UUID {
	entry.ID = uuid.New()
	entry.Timestamp = t.now()
	t.entries = append(t.entries, entry)
	t.welcome = false
	return entry.ID
}
