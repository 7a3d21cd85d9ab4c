package llm

import (
	"context"
	"fmt"
	"time"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioProvider wraps OpenAIProvider with LM Studio defaults.
// LM Studio exposes an OpenAI-compatible API on localhost, requires no
// API key, and some served models reject structured-output hints, so the
// wrapped provider runs with the lenient schema fallback enabled.
type LMStudioProvider struct {
	*OpenAIProvider
}

// NewLMStudioProvider creates a provider targeting a local LM Studio server.
func NewLMStudioProvider(cfg LMStudioConfig) (*LMStudioProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "local-model"
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		Model:   model,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing lmstudio provider: %w", err)
	}
	inner.lenientSchema = true

	return &LMStudioProvider{OpenAIProvider: inner}, nil
}

// Available probes the server's model listing with a short deadline.
func (p *LMStudioProvider) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return p.OpenAIProvider.Available(ctx)
}
