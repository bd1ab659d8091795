package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Config selects and configures the tutor's model provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenAIConfig
	Gemini     GeminiConfig
	Retry      RetryConfig

	// Timeout bounds one request including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig controls exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults used when nothing is configured. The
// tutor is short-lived UI feedback, so retries are few and quick.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		OpenRouter: OpenAIConfig{Model: "google/gemini-2.0-flash-001"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2,
		},
		Timeout: 20 * time.Second,
	}
}

// ConfigFromEnv reads MUTABAYINAT_TUTOR_* and the per-provider key and
// model variables on top of DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Provider = envOr("MUTABAYINAT_TUTOR_PROVIDER", cfg.Provider)
	if d, err := time.ParseDuration(os.Getenv("MUTABAYINAT_TUTOR_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}

	cfg.Anthropic.APIKey = os.Getenv("MUTABAYINAT_ANTHROPIC_API_KEY")
	cfg.Anthropic.Model = envOr("MUTABAYINAT_ANTHROPIC_MODEL", cfg.Anthropic.Model)

	cfg.OpenAI.APIKey = os.Getenv("MUTABAYINAT_OPENAI_API_KEY")
	cfg.OpenAI.Model = envOr("MUTABAYINAT_OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = os.Getenv("MUTABAYINAT_OPENAI_BASE_URL")

	cfg.OpenRouter.APIKey = os.Getenv("MUTABAYINAT_OPENROUTER_API_KEY")
	cfg.OpenRouter.Model = envOr("MUTABAYINAT_OPENROUTER_MODEL", cfg.OpenRouter.Model)

	cfg.Gemini.APIKey = os.Getenv("MUTABAYINAT_GEMINI_API_KEY")
	cfg.Gemini.Model = envOr("MUTABAYINAT_GEMINI_MODEL", cfg.Gemini.Model)
	return cfg
}

// DiscoverConfig falls back to the vendors' standard key variables when no
// MUTABAYINAT_ key is set. ok is false when no key was found at all.
func DiscoverConfig() (cfg Config, ok bool) {
	cfg = ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg, true
	}

	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "MUTABAYINAT_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "MUTABAYINAT_OPENAI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "MUTABAYINAT_OPENROUTER_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "MUTABAYINAT_GEMINI_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown tutor provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
