package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/services"
	"vidhik/internal/prompts"
)

// User-facing prefixes for each operation's failures
const (
	AnalyzeFailed = "Failed to analyze the document."
	AnswerFailed  = "Failed to get an answer."
	CompareFailed = "Failed to compare the documents."
)

// ProviderResolver maps a model string to a provider and its local model id
type ProviderResolver interface {
	Resolve(model string) (services.LLMProvider, string, error)
}

// Models overrides the model named by each prompt. Empty keeps the prompt default.
type Models struct {
	Analyze string
	Answer  string
	Compare string
}

// llmGateway implements services.Gateway on top of LLM providers
type llmGateway struct {
	providers ProviderResolver
	prompts   *prompts.Registry
	models    Models
	timeout   time.Duration
	logger    *slog.Logger
}

// NewLLMGateway creates a Gateway that renders the embedded prompts and
// decodes the model's JSON output. timeout bounds each call; zero means none.
func NewLLMGateway(
	providers ProviderResolver,
	promptRegistry *prompts.Registry,
	modelOverrides Models,
	timeout time.Duration,
	logger *slog.Logger,
) services.Gateway {
	return &llmGateway{
		providers: providers,
		prompts:   promptRegistry,
		models:    modelOverrides,
		timeout:   timeout,
		logger:    logger,
	}
}

func (g *llmGateway) Analyze(ctx context.Context, text string) (*models.Analysis, error) {
	raw, err := g.generate(ctx, prompts.Analyze, g.models.Analyze, prompts.AnalyzeInput{DocumentText: text})
	if err != nil {
		return nil, domain.NewGatewayError(prompts.Analyze, AnalyzeFailed, err)
	}

	var analysis models.Analysis
	if err := decodeJSON(raw, &analysis); err != nil {
		return nil, domain.NewGatewayError(prompts.Analyze, AnalyzeFailed, err)
	}
	normalizeRiskLevels(&analysis)
	if err := validateAnalysis(&analysis); err != nil {
		return nil, domain.NewGatewayError(prompts.Analyze, AnalyzeFailed, fmt.Errorf("invalid analysis: %w", err))
	}
	return &analysis, nil
}

func (g *llmGateway) Answer(ctx context.Context, text, question string, prior *models.Analysis) (string, error) {
	input := prompts.AnswerInput{DocumentText: text, Question: question}
	if prior != nil {
		input.PriorSummary = prior.Summary
	}

	raw, err := g.generate(ctx, prompts.Answer, g.models.Answer, input)
	if err != nil {
		return "", domain.NewGatewayError(prompts.Answer, AnswerFailed, err)
	}

	var out answerOutput
	if err := decodeJSON(raw, &out); err != nil {
		return "", domain.NewGatewayError(prompts.Answer, AnswerFailed, err)
	}
	if err := out.validate(); err != nil {
		return "", domain.NewGatewayError(prompts.Answer, AnswerFailed, fmt.Errorf("invalid answer: %w", err))
	}
	return out.Answer, nil
}

func (g *llmGateway) Compare(ctx context.Context, textA, textB string) (*models.Comparison, error) {
	raw, err := g.generate(ctx, prompts.Compare, g.models.Compare, prompts.CompareInput{DocumentAText: textA, DocumentBText: textB})
	if err != nil {
		return nil, domain.NewGatewayError(prompts.Compare, CompareFailed, err)
	}

	var comparison models.Comparison
	if err := decodeJSON(raw, &comparison); err != nil {
		return nil, domain.NewGatewayError(prompts.Compare, CompareFailed, err)
	}
	if err := validateComparison(&comparison); err != nil {
		return nil, domain.NewGatewayError(prompts.Compare, CompareFailed, fmt.Errorf("invalid comparison: %w", err))
	}
	return &comparison, nil
}

// generate renders the named prompt and runs it against the resolved model
func (g *llmGateway) generate(ctx context.Context, name, modelOverride string, input any) (string, error) {
	prompt, err := g.prompts.Get(name)
	if err != nil {
		return "", err
	}
	user, err := prompt.Render(input)
	if err != nil {
		return "", err
	}

	modelStr := prompt.Model
	if modelOverride != "" {
		modelStr = modelOverride
	}
	provider, model, err := g.providers.Resolve(modelStr)
	if err != nil {
		return "", err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := provider.GenerateResponse(ctx, &services.GenerateRequest{
		System:   prompt.Instructions(),
		Messages: []services.ChatMessage{{Role: string(models.RoleUser), Text: user}},
		Model:    model,
		JSON:     true,
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("the model did not respond in time: %w", err)
		}
		g.logger.Warn("gateway call failed",
			"operation", name,
			"provider", provider.Name(),
			"model", model,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return "", err
	}

	g.logger.Info("gateway call completed",
		"operation", name,
		"provider", provider.Name(),
		"model", resp.Model,
		"duration_ms", duration.Milliseconds(),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return resp.Text, nil
}

// decodeJSON parses model output, tolerating a markdown code fence around it
func decodeJSON(raw string, v any) error {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return fmt.Errorf("the model returned an empty response")
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("the model returned malformed JSON: %w", err)
	}
	return nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// normalizeRiskLevels accepts "high"/"HIGH" for "High"
func normalizeRiskLevels(a *models.Analysis) {
	for i := range a.Risks {
		level := strings.ToLower(strings.TrimSpace(string(a.Risks[i].Level)))
		if level == "" {
			continue
		}
		a.Risks[i].Level = models.RiskLevel(strings.ToUpper(level[:1]) + level[1:])
	}
}
