package llm

import (
	"fmt"
	"log/slog"

	"vidhik/internal/config"
)

// SetupProviders builds the provider registry and checks that every configured
// model names a provider with credentials.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	registry := NewProviderRegistry(NewProviderFactory(cfg))

	if cfg.GeminiAPIKey != "" {
		logger.Info("provider available", "name", ProviderGemini, "models", "gemini-*")
	} else {
		logger.Warn("GEMINI_API_KEY not set - Gemini provider not available")
	}
	if cfg.AnthropicAPIKey != "" {
		logger.Info("provider available", "name", ProviderAnthropic, "models", "claude-*")
	}

	for operation, model := range map[string]string{
		"analyze": cfg.AnalyzeModel,
		"answer":  cfg.AnswerModel,
		"compare": cfg.CompareModel,
	} {
		info, err := ParseModel(model)
		if err != nil {
			return nil, fmt.Errorf("%s model: %w", operation, err)
		}
		if _, err := registry.GetProvider(info.Provider); err != nil {
			return nil, fmt.Errorf("%s model %s: %w", operation, info, err)
		}
		logger.Info("model configured", "operation", operation, "provider", info.Provider, "model", info.Model)
	}

	return registry, nil
}
