package main

import "time"

type Config struct {
	ServerURL        string        `env:"CHAT_SERVER_URL,default=http://127.0.0.1:3000"`
	WebSocketURL     string        `env:"CHAT_WS_URL,default=ws://127.0.0.1:3000/ws"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	TokenDBPath      string        `env:"TOKEN_DB_PATH,default=.chat-client"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT,default=10s"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT,default=10s"`
	WriteWait        time.Duration `env:"WRITE_WAIT,default=5s"`
	ReconnectEnabled bool          `env:"RECONNECT_ENABLED,default=false"`
	ReconnectMax     int           `env:"RECONNECT_MAX_ATTEMPTS,default=0"`
	ReconnectDelay   time.Duration `env:"RECONNECT_MAX_DELAY,default=30s"`
	InboxSize        int           `env:"INBOX_SIZE,default=256"`
	OutboundSize     int           `env:"OUTBOUND_SIZE,default=64"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=0s"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}
