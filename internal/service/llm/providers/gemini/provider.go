// Package gemini is a minimal client for the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vidhik/internal/domain/services"
)

// DefaultBaseURL is the public Generative Language API endpoint
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const (
	roleUser  = "user"
	roleModel = "model"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string  `json:"role,omitempty"`
	Parts []*part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []*content        `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

type generateResponse struct {
	Candidates    []*candidate   `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
	ModelVersion  string         `json:"modelVersion"`
}

// Provider implements services.LLMProvider for Gemini models.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Provider
type Option func(*Provider)

// WithBaseURL points the provider at another endpoint (tests, proxies)
func WithBaseURL(url string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// NewProvider creates a Gemini provider with the given API key.
func NewProvider(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	p := &Provider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

// SupportsModel returns true for "gemini-" models
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "gemini-")
}

// GenerateResponse runs one generateContent call
func (p *Provider) GenerateResponse(ctx context.Context, req *services.GenerateRequest) (*services.GenerateResponse, error) {
	payload := generateRequest{Contents: make([]*content, 0, len(req.Messages))}
	if req.System != "" {
		payload.SystemInstruction = &content{Parts: []*part{{Text: req.System}}}
	}
	for _, m := range req.Messages {
		role := roleUser
		if m.Role == "assistant" {
			role = roleModel
		}
		payload.Contents = append(payload.Contents, &content{Role: role, Parts: []*part{{Text: m.Text}}})
	}
	if req.JSON {
		payload.GenerationConfig = &generationConfig{ResponseMIMEType: "application/json"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-goog-api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", res.StatusCode, strings.TrimSpace(string(resBody)))
	}

	var out generateResponse
	if err := json.Unmarshal(resBody, &out); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var text strings.Builder
	for _, pt := range out.Candidates[0].Content.Parts {
		text.WriteString(pt.Text)
	}

	resp := &services.GenerateResponse{
		Text:       text.String(),
		Model:      req.Model,
		StopReason: out.Candidates[0].FinishReason,
	}
	if out.ModelVersion != "" {
		resp.Model = out.ModelVersion
	}
	if out.UsageMetadata != nil {
		resp.InputTokens = out.UsageMetadata.PromptTokenCount
		resp.OutputTokens = out.UsageMetadata.CandidatesTokenCount
	}
	return resp, nil
}
