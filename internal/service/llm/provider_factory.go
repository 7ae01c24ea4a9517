package llm

import (
	"fmt"
	"net/http"

	"github.com/haowjy/meridian-llm-go/providers/anthropic"

	"vidhik/internal/config"
	"vidhik/internal/domain/services"
	"vidhik/internal/service/llm/adapters"
	"vidhik/internal/service/llm/providers/gemini"
	"vidhik/internal/service/llm/providers/lorem"
)

// ProviderFactory creates LLM provider instances from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{config: cfg}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "gemini" - Gemini models via the generateContent API
//   - "anthropic" - Claude models via meridian-llm-go
//   - "lorem" - Offline fixtures for local runs (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (services.LLMProvider, error) {
	switch providerName {
	case ProviderGemini:
		return f.createGeminiProvider()
	case ProviderAnthropic:
		return f.createAnthropicProvider()
	case ProviderLorem:
		return lorem.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func (f *ProviderFactory) createGeminiProvider() (services.LLMProvider, error) {
	if f.config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	// per-call deadlines come from the gateway context
	return gemini.NewProvider(f.config.GeminiAPIKey, gemini.WithHTTPClient(&http.Client{}))
}

func (f *ProviderFactory) createAnthropicProvider() (services.LLMProvider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return adapters.NewMeridianAdapter(provider), nil
}
