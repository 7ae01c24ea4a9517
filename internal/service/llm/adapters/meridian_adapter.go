package adapters

import (
	"context"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	"vidhik/internal/domain/services"
)

const textBlock = "text"

// MeridianAdapter wraps a meridian-llm-go provider (anthropic) and
// implements services.LLMProvider with plain-text messages.
type MeridianAdapter struct {
	provider llmprovider.Provider
}

// NewMeridianAdapter creates an adapter from an existing library provider.
func NewMeridianAdapter(provider llmprovider.Provider) *MeridianAdapter {
	return &MeridianAdapter{provider: provider}
}

// Name returns the provider name.
func (a *MeridianAdapter) Name() string {
	return a.provider.Name().String()
}

// SupportsModel returns true if this provider supports the given model.
func (a *MeridianAdapter) SupportsModel(model string) bool {
	return a.provider.SupportsModel(model)
}

// GenerateResponse runs a non-streaming completion and joins the text blocks.
func (a *MeridianAdapter) GenerateResponse(ctx context.Context, req *services.GenerateRequest) (*services.GenerateResponse, error) {
	libResp, err := a.provider.GenerateResponse(ctx, ToLibraryRequest(req))
	if err != nil {
		return nil, err
	}
	return FromLibraryResponse(libResp), nil
}

// ToLibraryRequest converts a plain-text request into library blocks.
// The system text is folded into the first user message.
func ToLibraryRequest(req *services.GenerateRequest) *llmprovider.GenerateRequest {
	messages := make([]llmprovider.Message, 0, len(req.Messages))
	system := req.System

	for _, msg := range req.Messages {
		text := msg.Text
		if system != "" && msg.Role == "user" {
			text = system + "\n\n" + text
			system = ""
		}
		messages = append(messages, llmprovider.Message{
			Role: msg.Role,
			Blocks: []*llmprovider.Block{{
				BlockType:   textBlock,
				Sequence:    0,
				TextContent: &text,
			}},
		})
	}

	return &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
	}
}

// FromLibraryResponse concatenates the text blocks of a library response
func FromLibraryResponse(resp *llmprovider.GenerateResponse) *services.GenerateResponse {
	var text strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.BlockType != textBlock || block.TextContent == nil {
			continue
		}
		text.WriteString(*block.TextContent)
	}

	return &services.GenerateResponse{
		Text:         text.String(),
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		StopReason:   resp.StopReason,
	}
}
