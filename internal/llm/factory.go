package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tutiful/papergen/internal/store"
)

// AvailabilityProber is implemented by providers that can cheaply check
// whether their endpoint is reachable.
type AvailabilityProber interface {
	Available(ctx context.Context) bool
}

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "lmstudio":
		base, err = NewLMStudioProvider(cfg.LMStudio)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, eventRepo)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewProviderFromEnv builds a provider from the environment. An
// explicit PAPERGEN_LLM_PROVIDER wins; otherwise known endpoints and
// API keys are probed, falling back to a local LM Studio server.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	if os.Getenv("PAPERGEN_LLM_PROVIDER") != "" {
		cfg := ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return NewProvider(ctx, cfg, eventRepo)
	}

	if cfg, ok := DiscoverConfig(); ok {
		return NewProvider(ctx, cfg, eventRepo)
	}
	return NewProvider(ctx, ConfigFromEnv(), eventRepo)
}
