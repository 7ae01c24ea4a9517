package llm

import (
	"fmt"
	"strings"
)

// Provider names
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderLorem     = "lorem"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // "anthropic", "gemini" or "lorem"
	Model    string // Model identifier for that provider
}

func (m ModelInfo) String() string {
	return m.Provider + "/" + m.Model
}

// modelPrefixes maps model name prefixes to the provider serving them
var modelPrefixes = []struct {
	prefix   string
	provider string
}{
	{"claude-", ProviderAnthropic},
	{"gemini-", ProviderGemini},
	{"lorem-", ProviderLorem},
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "gemini-2.5-flash" → {Provider: "gemini", Model: "gemini-2.5-flash"}
//   - "claude-haiku-4-5" → {Provider: "anthropic", Model: "claude-haiku-4-5"}
//   - "lorem-fast" → {Provider: "lorem", Model: "lorem-fast"}
//   - "gemini/gemini-2.5-pro" → {Provider: "gemini", Model: "gemini-2.5-pro"}
//
// A "/" names the provider explicitly; otherwise it is inferred from the prefix.
func ParseModel(modelStr string) (*ModelInfo, error) {
	modelStr = strings.TrimSpace(modelStr)
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if provider, model, explicit := strings.Cut(modelStr, "/"); explicit {
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: strings.ToLower(provider), Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}
	return &ModelInfo{Provider: provider, Model: modelStr}, nil
}

func inferProvider(model string) string {
	lower := strings.ToLower(model)
	for _, p := range modelPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.provider
		}
	}
	return ""
}
