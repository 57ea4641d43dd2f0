package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_URL enables the suite, it is skipped when empty
	ServerURL    string `envconfig:"E2E_SERVER_URL"`
	WebSocketURL string `envconfig:"E2E_WS_URL" default:"ws://127.0.0.1:3000/ws"`
	Channel      string `envconfig:"E2E_CHANNEL" default:"general"`
	// E2E_PASSWORD is used for the throwaway accounts registered by the suite
	Password string `envconfig:"E2E_PASSWORD" default:"e2e-secret"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
