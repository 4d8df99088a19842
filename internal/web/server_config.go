package web

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "HABDOMETER_LISTEN"
	EnvDevMode    = "HABDOMETER_DEV"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - kiosk:     :8080 (usually supplied by the config file)
// - simulator: :8090
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}

// Wrap applies the dev-mode middleware when enabled.
func (c ServerConfig) Wrap(h http.Handler) http.Handler {
	if c.DevMode {
		return WithDevCORS(h)
	}
	return h
}
