package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/mutabayinat/internal/store"
)

// NewProvider builds the provider selected by cfg. Calls go through retry
// first, then the journal, then the vendor SDK, so every attempt is
// journaled. A nil journal skips journaling.
func NewProvider(ctx context.Context, cfg Config, journal store.Journal) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if journal != nil {
		base = WithJournal(base, journal)
	}
	return WithRetry(base, cfg.Retry), nil
}
