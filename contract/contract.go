//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/observability"
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives view events from the engine loop.
// Consume runs on the loop, a slow sink slows the whole engine.
type EventSink interface {
	Consume(ctx context.Context, e event.ViewEvent) error
}

// Conn is one established socket connection.
// ReadMessage returns an error wrapping errors.ErrConnectionClosed when the peer closed it.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(payload []byte) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// ReconnectPolicy decides whether, and after how long, a failed connection is retried.
// attempt starts at 1 for the first retry.
type ReconnectPolicy interface {
	NextDelay(attempt int) (time.Duration, bool)
}

type IEngine interface {
	Join(ctx context.Context, identity domain.Identity) error
	Send(ctx context.Context, content string) (uuid.UUID, error)
	Leave(ctx context.Context) error
	View(ctx context.Context) (domain.View, error)
	RegisterSink(sink EventSink)
}

// IOrchestrator runs a chat session until it is stopped.
type IOrchestrator interface {
	Add(worker ...Worker)
	Start(ctx context.Context, identity domain.Identity) error
	Stop()
}

// IChatSession is what an interactive front end drives.
type IChatSession interface {
	IEngine
	Search(ctx context.Context, query string) ([]domain.ChatEntry, error)
	Stats() observability.SessionStats
}
