package workers

import (
	"bytes"
	"chat-client/domain"
	"chat-client/errors"
	"chat-client/mocks"
	"chat-client/observability"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPromptWorker_SendsLinesAndLeavesOnQuit(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	session := mocks.NewMockIChatSession(ctrl)
	out := &bytes.Buffer{}
	quit := 0

	gomock.InOrder(
		session.EXPECT().Send(gomock.Any(), "hello there").Return(uuid.New(), nil),
		session.EXPECT().Send(gomock.Any(), "second").Return(uuid.New(), nil),
		session.EXPECT().Leave(gomock.Any()).Return(nil),
	)

	in := strings.NewReader("hello there\n\n   \nsecond\n/quit\nnever sent\n")
	worker := NewPromptWorker(log, session, in, out, func() { quit++ })

	req.NoError(worker.Run(context.Background()))
	req.Equal(1, quit)
}

func TestPromptWorker_LeavesOnEndOfInput(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	session := mocks.NewMockIChatSession(ctrl)

	// The engine may already be gone when the input closes
	session.EXPECT().Leave(gomock.Any()).Return(errors.ErrEngineStopped)

	worker := NewPromptWorker(log, session, strings.NewReader(""), &bytes.Buffer{}, nil)

	req.NoError(worker.Run(context.Background()))
}

func TestPromptWorker_Commands(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	session := mocks.NewMockIChatSession(ctrl)
	out := &bytes.Buffer{}
	at := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	session.EXPECT().View(gomock.Any()).Return(domain.View{Online: []string{"bob", "carol"}}, nil)
	session.EXPECT().Search(gomock.Any(), "lunch").Return([]domain.ChatEntry{
		{Username: "carol", Content: "lunch?", Timestamp: at},
	}, nil)
	session.EXPECT().Stats().Return(observability.SessionStats{FramesReceived: 4, Reconciled: 2})
	session.EXPECT().Send(gomock.Any(), "hi").Return(uuid.Nil, errors.ErrNoActiveSession)
	session.EXPECT().Leave(gomock.Any()).Return(nil)

	in := strings.NewReader("/who\n/search lunch\n/stats\n/dance\nhi\n/leave\n")
	worker := NewPromptWorker(log, session, in, out, nil)

	req.NoError(worker.Run(context.Background()))
	text := out.String()
	req.Contains(text, "2 online: bob, carol")
	req.Contains(text, "09:30:00 carol: lunch?")
	req.Contains(text, "received 4")
	req.Contains(text, "confirmed 2")
	req.Contains(text, "unknown command /dance")
	req.Contains(text, errors.ErrNoActiveSession.Error())
}

func TestPromptWorker_StopsWithContext(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	session := mocks.NewMockIChatSession(ctrl)

	// A reader that never yields a line
	blocked, writer := io.Pipe()
	defer func() { _ = writer.Close() }()
	worker := NewPromptWorker(log, session, blocked, &bytes.Buffer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.NoError(worker.Run(ctx))
}
