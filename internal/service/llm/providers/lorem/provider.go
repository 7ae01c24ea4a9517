// Package lorem is an offline provider that answers every gateway prompt
// with canned, schema-valid JSON. It needs no API key.
package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"vidhik/internal/domain/models"
	"vidhik/internal/domain/services"
)

const (
	// markers rendered by the compare and answer prompts
	compareMarker = "DOCUMENT B (Revised):"
	answerMarker  = "USER QUESTION:"

	excerptRunes = 60
)

// Provider implements services.LLMProvider without any network calls
type Provider struct{}

// NewProvider creates a lorem provider
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string { return "lorem" }

func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// GenerateResponse picks the fixture matching the rendered prompt
func (p *Provider) GenerateResponse(ctx context.Context, req *services.GenerateRequest) (*services.GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prompt strings.Builder
	for _, m := range req.Messages {
		prompt.WriteString(m.Text)
		prompt.WriteString("\n")
	}
	text := prompt.String()

	var out any
	switch {
	case strings.Contains(text, compareMarker):
		out = comparison()
	case strings.Contains(text, answerMarker):
		out = map[string]string{"answer": answer(text)}
	default:
		out = analysis(text)
	}

	body, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode lorem fixture: %w", err)
	}
	return &services.GenerateResponse{
		Text:         string(body),
		Model:        req.Model,
		InputTokens:  len(strings.Fields(text)),
		OutputTokens: len(strings.Fields(string(body))),
		StopReason:   "end_turn",
	}, nil
}

func analysis(prompt string) *models.Analysis {
	return &models.Analysis{
		Summary: "## Overview\n* " + excerpt(prompt) + "\n* Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		Jargon: []models.JargonTerm{
			{Term: "Indemnity", Definition: "A promise to cover the other party's losses."},
			{Term: "Force majeure", Definition: "Events outside anyone's control that excuse performance."},
		},
		SuggestedQuestions: []string{
			"What happens if I end the agreement early?",
			"Which fees can change during the term?",
			"Who is responsible for repairs?",
		},
		Obligations: []models.Obligation{
			{Description: "Make the first payment", Date: "On signing"},
			{Description: "Give written notice before leaving", Date: "30 days before the end date"},
		},
		Risks: []models.Risk{
			{Clause: "Late payment penalty", Level: models.RiskHigh, Explanation: "Penalties compound daily."},
			{Clause: "Automatic renewal", Level: models.RiskMedium, Explanation: "The term renews unless cancelled in writing."},
			{Clause: "Governing law", Level: models.RiskLow, Explanation: "Disputes are heard locally."},
		},
	}
}

func answer(prompt string) string {
	_, question, _ := strings.Cut(prompt, answerMarker)
	return "## Answer\n**Question:** " + strings.TrimSpace(question) + "\n\n* Lorem ipsum dolor sit amet, consectetur adipiscing elit."
}

func comparison() *models.Comparison {
	return &models.Comparison{
		Summary: "## Key changes\n* Lorem ipsum dolor sit amet.",
		NewClauses: []models.ClauseNote{
			{Clause: "Early termination fee", Description: "Leaving early now costs one month of rent."},
		},
		ChangedTerms: []models.ClauseChange{{
			Clause:            "Rent",
			DetailsA:          "Rent is fixed for the term.",
			DetailsB:          "Rent may rise by 5% each year.",
			ChangeDescription: "The rent is no longer fixed.",
		}},
		DeletedClauses: []models.ClauseNote{
			{Clause: "Grace period", Description: "The five-day grace period for payments was removed."},
		},
	}
}

// excerpt returns the start of the document text following the prompt header
func excerpt(prompt string) string {
	_, doc, found := strings.Cut(prompt, "DOCUMENT CONTEXT:")
	if !found {
		doc = prompt
	}
	doc = strings.Join(strings.Fields(doc), " ")
	if utf8.RuneCountInString(doc) > excerptRunes {
		doc = string([]rune(doc)[:excerptRunes]) + "..."
	}
	if doc == "" {
		return "Empty document"
	}
	return doc
}
