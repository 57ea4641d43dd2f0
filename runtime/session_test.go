package runtime

import (
	"chat-client/domain"
	"chat-client/errors"
	"chat-client/projection"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionContext_Begin_ClearsProjections(t *testing.T) {
	req := require.New(t)
	timeline := projection.NewTimeline()
	presence := projection.NewPresence()
	session := NewSessionContext(timeline, presence)

	// Given leftovers from a previous session
	timeline.AppendSystem("stale")
	presence.ApplyJoin("ghost")

	// When a new session begins
	err := session.Begin(domain.Identity{Username: "bob", Channel: "general"})

	// Then nothing from before is visible
	req.NoError(err)
	req.Zero(timeline.Len())
	req.Zero(presence.Len())
	identity, ok := session.Identity()
	req.True(ok)
	req.Equal("bob", identity.Username)
	req.Equal(domain.IDLE, session.State())
}

func TestSessionContext_Begin_Twice(t *testing.T) {
	req := require.New(t)
	session := NewSessionContext()

	req.NoError(session.Begin(domain.Identity{Username: "bob", Channel: "general"}))

	req.ErrorIs(session.Begin(domain.Identity{Username: "bob", Channel: "random"}), errors.ErrSessionActive)
}

func TestSessionContext_End_ResetsEverything(t *testing.T) {
	req := require.New(t)
	timeline := projection.NewTimeline()
	presence := projection.NewPresence()
	session := NewSessionContext(timeline, presence)
	req.NoError(session.Begin(domain.Identity{Username: "bob", Channel: "general"}))
	timeline.AppendOptimistic("bob", "hi")
	presence.ApplySnapshot([]string{"bob", "carol"})

	session.End()

	req.Zero(timeline.Len())
	req.Zero(presence.Len())
	req.False(session.Active())
	_, ok := session.Identity()
	req.False(ok)
	req.False(session.IsSelf("bob"))
}

func TestSessionContext_IsSelf(t *testing.T) {
	req := require.New(t)
	session := NewSessionContext()
	req.NoError(session.Begin(domain.Identity{Username: "bob", Channel: "general"}))

	req.True(session.IsSelf("bob"))
	req.False(session.IsSelf("Bob"))
	req.False(session.IsSelf("carol"))
}
