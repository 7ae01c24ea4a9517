package services

import "context"

// LLMProvider is a single text-generation backend (anthropic, gemini, lorem).
type LLMProvider interface {
	// GenerateResponse runs one non-streaming completion
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "anthropic", "gemini")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// System is the instruction preamble; empty means none
	System string

	// Messages contains the conversation, oldest first
	Messages []ChatMessage

	// Model is the provider-local model identifier (e.g., "gemini-2.5-flash")
	Model string

	// JSON asks the provider for a JSON-only response where it supports that
	JSON bool
}

// ChatMessage is one plain-text turn sent to a provider
type ChatMessage struct {
	Role string // "user" or "assistant"
	Text string
}

// GenerateResponse contains the provider's response.
type GenerateResponse struct {
	// Text is the concatenated text output
	Text string

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int
	StopReason   string
}
