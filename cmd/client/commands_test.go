package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, serverURL string) *app {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	config := Config{ServerURL: serverURL, WebSocketURL: "ws://127.0.0.1:1/ws", InboxSize: 16, OutboundSize: 16}
	return newApp(config, slog.New(slog.NewTextHandler(io.Discard, nil)), db)
}

func TestChannelsCmd(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/channels", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["random","general"]`))
	}))
	defer server.Close()

	var out bytes.Buffer
	cmd := newRootCmd(newTestApp(t, server.URL))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"channels"})

	req.NoError(cmd.Execute())
	req.Less(bytes.Index(out.Bytes(), []byte("general")), bytes.Index(out.Bytes(), []byte("random")))
}

func TestJoinCmd_WithoutLogin(t *testing.T) {
	req := require.New(t)

	cmd := newRootCmd(newTestApp(t, "http://127.0.0.1:1"))
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"join", "general"})

	err := cmd.Execute()
	req.Error(err)
	req.Contains(err.Error(), "login first")
}

func TestReconnectPolicy(t *testing.T) {
	req := require.New(t)

	a := &app{config: Config{}}
	_, retry := a.reconnectPolicy().NextDelay(1)
	req.False(retry)

	a.config.ReconnectEnabled = true
	a.config.ReconnectMax = 2
	_, retry = a.reconnectPolicy().NextDelay(2)
	req.True(retry)
	_, retry = a.reconnectPolicy().NextDelay(3)
	req.False(retry)
}
