package runtime

import (
	"chat-client/domain/event"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type namedSink struct {
	name string
}

func (s namedSink) Consume(context.Context, event.ViewEvent) error {
	return nil
}

func TestRegistry_Subscribe_KeepsOrder(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given no sink is registered
	req.Empty(registry.Sinks())

	// When three sinks subscribe
	registry.Subscribe("terminal", namedSink{name: "terminal"})
	registry.Subscribe("mirror", namedSink{name: "mirror"})
	registry.Subscribe(uuid.NewString(), namedSink{name: "anonymous"})

	// Then they are returned in subscription order
	sinks := registry.Sinks()
	req.Len(sinks, 3)
	req.Equal(namedSink{name: "terminal"}, sinks[0])
	req.Equal(namedSink{name: "mirror"}, sinks[1])
	req.Equal(namedSink{name: "anonymous"}, sinks[2])
}

func TestRegistry_Subscribe_SameIdReplaces(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Subscribe("terminal", namedSink{name: "old"})
	registry.Subscribe("mirror", namedSink{name: "mirror"})

	registry.Subscribe("terminal", namedSink{name: "new"})

	req.Equal(2, registry.Len())
	req.Equal(namedSink{name: "new"}, registry.Sinks()[0])
}

func TestRegistry_Unsubscribe(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Subscribe("terminal", namedSink{name: "terminal"})
	registry.Subscribe("mirror", namedSink{name: "mirror"})

	registry.Unsubscribe("terminal")
	registry.Unsubscribe("unknown")

	req.Equal([]any{namedSink{name: "mirror"}}, toAny(registry.Sinks()))

	registry.Unsubscribe("mirror")
	req.Zero(registry.Len())
	req.Empty(registry.Sinks())
}

func toAny[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
