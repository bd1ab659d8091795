package backend

import (
	"os"
	"strings"
	"time"
)

// Config holds backend client configuration.
type Config struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8080".
	BaseURL string

	// Timeout bounds each HTTP request. Zero means no client-side timeout.
	Timeout time.Duration
}

// DefaultConfig returns a Config pointing at a local demo backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: 15 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset or malformed values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("MUTABAYINAT_API_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("MUTABAYINAT_API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}
