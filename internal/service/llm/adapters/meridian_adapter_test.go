package adapters

import (
	"testing"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhik/internal/domain/services"
)

func TestToLibraryRequest_FoldsSystemIntoFirstUserMessage(t *testing.T) {
	req := ToLibraryRequest(&services.GenerateRequest{
		System: "instructions",
		Model:  "claude-haiku-4-5",
		Messages: []services.ChatMessage{
			{Role: "user", Text: "first"},
			{Role: "assistant", Text: "reply"},
			{Role: "user", Text: "second"},
		},
	})

	require.Len(t, req.Messages, 3)
	assert.Equal(t, "claude-haiku-4-5", req.Model)
	assert.Equal(t, "instructions\n\nfirst", *req.Messages[0].Blocks[0].TextContent)
	assert.Equal(t, "reply", *req.Messages[1].Blocks[0].TextContent)
	assert.Equal(t, "second", *req.Messages[2].Blocks[0].TextContent)
	assert.Equal(t, "text", req.Messages[0].Blocks[0].BlockType)
}

func TestFromLibraryResponse_JoinsTextBlocks(t *testing.T) {
	a, b := `{"answer":`, `"ok"}`
	resp := FromLibraryResponse(&llmprovider.GenerateResponse{
		Model: "lorem-fast",
		Blocks: []*llmprovider.Block{
			{BlockType: "thinking"},
			{BlockType: "text", TextContent: &a},
			{BlockType: "text", TextContent: &b},
			{BlockType: "text"},
		},
	})

	assert.Equal(t, `{"answer":"ok"}`, resp.Text)
	assert.Equal(t, "lorem-fast", resp.Model)
}
