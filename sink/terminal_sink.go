package sink

import (
	"chat-client/domain"
	"chat-client/domain/event"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/gookit/color"
)

const timeLayout = "15:04:05"

// Terminal prints the conversation as it grows.
// A line is printed once. Own messages appear gray until the server echoes them.
type Terminal struct {
	out     io.Writer
	printed map[uuid.UUID]bool // value is true while the entry is pending
	welcome bool
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, printed: make(map[uuid.UUID]bool)}
}

func (t *Terminal) Consume(_ context.Context, e event.ViewEvent) error {
	switch evt := e.(type) {
	case event.TimelineUpdated:
		return t.timeline(evt)
	case event.PresenceUpdated:
		return t.line(color.FgCyan.Render(fmt.Sprintf("%d online: %s", len(evt.Names), strings.Join(evt.Names, ", "))))
	case event.ConnectionChanged:
		return t.connection(evt.State)
	case event.TransportFailed:
		return t.line(color.FgRed.Render(fmt.Sprintf("connection lost: %v", evt.Err)))
	}
	return nil
}

func (t *Terminal) timeline(evt event.TimelineUpdated) error {
	// A new session starts from an empty timeline
	if len(evt.Entries) == 0 {
		clear(t.printed)
		t.welcome = false
	}
	if evt.ShowWelcome && !t.welcome {
		t.welcome = true
		if err := t.line(color.FgGray.Render("No messages yet. Say hello!")); err != nil {
			return err
		}
	}
	for _, entry := range evt.Entries {
		pending, seen := t.printed[entry.ID]
		switch {
		case !seen:
			t.printed[entry.ID] = entry.IsPending()
			if err := t.line(render(entry)); err != nil {
				return err
			}
		case pending && !entry.IsPending():
			t.printed[entry.ID] = false
		}
	}
	return nil
}

func (t *Terminal) connection(state domain.ConnectionState) error {
	switch state {
	case domain.OPEN:
		return t.line(color.New(color.BgBlack, color.FgGreen).Render("connected"))
	case domain.CONNECTING:
		return t.line(color.FgYellow.Render("connecting..."))
	case domain.ERROR:
		return t.line(color.FgRed.Render("connection error"))
	case domain.CLOSED:
		return t.line(color.FgGray.Render("disconnected"))
	}
	return nil
}

func (t *Terminal) line(text string) error {
	_, err := fmt.Fprintln(t.out, text)
	return err
}

// Pending reports the entries printed as pending that the server has not echoed yet
func (t *Terminal) Pending() int {
	count := 0
	for _, pending := range t.printed {
		if pending {
			count++
		}
	}
	return count
}

func render(entry domain.ChatEntry) string {
	at := entry.Timestamp.Format(timeLayout)
	switch {
	case entry.Kind == domain.SYSTEM:
		return color.FgGray.Render(fmt.Sprintf("%s * %s", at, entry.Content))
	case entry.IsPending():
		return color.FgGray.Render(fmt.Sprintf("%s %s: %s", at, entry.Username, entry.Content))
	case entry.Own:
		return color.FgGreen.Render(fmt.Sprintf("%s %s: %s", at, entry.Username, entry.Content))
	default:
		return fmt.Sprintf("%s %s: %s", at, color.FgLightBlue.Render(entry.Username), entry.Content)
	}
}
