package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhik/internal/config"
	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/services"
)

type cliGateway struct {
	prior *models.Analysis
}

func (g *cliGateway) Analyze(_ context.Context, text string) (*models.Analysis, error) {
	return &models.Analysis{
		Summary:            "Summary of: " + text,
		Jargon:             []models.JargonTerm{{Term: "Lessee", Definition: "The tenant"}},
		SuggestedQuestions: []string{"Can I leave early?"},
		Obligations:        []models.Obligation{{Description: "Pay rent", Date: "Monthly"}},
		Risks:              []models.Risk{{Clause: "Auto-renewal", Level: models.RiskHigh, Explanation: "Renews silently"}},
	}, nil
}

func (g *cliGateway) Answer(_ context.Context, _, question string, prior *models.Analysis) (string, error) {
	g.prior = prior
	return "Yes, with notice.", nil
}

func (g *cliGateway) Compare(_ context.Context, a, b string) (*models.Comparison, error) {
	if a == b {
		return nil, domain.NewGatewayError("compare", "Failed to compare the documents.", errors.New("identical"))
	}
	return &models.Comparison{
		Summary:      "Rent increased.",
		NewClauses:   []models.ClauseNote{{Clause: "Pets", Description: "Pets allowed"}},
		ChangedTerms: []models.ClauseChange{{Clause: "Rent", DetailsA: "$1000", DetailsB: "$1200", ChangeDescription: "Higher rent"}},
	}, nil
}

// run executes the CLI with a fake gateway and returns stdout
func run(t *testing.T, gw services.Gateway, args ...string) (string, error) {
	t.Helper()

	original := buildGateway
	buildGateway = func(*config.Config, *slog.Logger) (services.Gateway, error) { return gw, nil }
	t.Cleanup(func() {
		buildGateway = original
		jsonOutput = false
		withAnalysis = false
		rootCmd.SetArgs(nil)
	})

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeCmd(t *testing.T) {
	path := writeFile(t, "lease.txt", "The lessee pays rent monthly.")

	out, err := run(t, &cliGateway{}, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Analysis: lease.txt")
	assert.Contains(t, out, "Summary of: The lessee pays rent monthly.")
	assert.Contains(t, out, "Auto-renewal")
	assert.Contains(t, out, "Lessee")
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	path := writeFile(t, "lease.txt", "Rent.")

	out, err := run(t, &cliGateway{}, "analyze", "--json", path)
	require.NoError(t, err)

	var analysis models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, "Summary of: Rent.", analysis.Summary)
	assert.Equal(t, models.RiskHigh, analysis.Risks[0].Level)
}

func TestAskCmd_WithAnalysis(t *testing.T) {
	path := writeFile(t, "lease.txt", "Rent.")
	gw := &cliGateway{}

	out, err := run(t, gw, "ask", "--with-analysis", path, "Can", "I", "leave", "early?")
	require.NoError(t, err)
	assert.Contains(t, out, "Q: Can I leave early?")
	assert.Contains(t, out, "A: Yes, with notice.")
	require.NotNil(t, gw.prior)
	assert.Equal(t, "Summary of: Rent.", gw.prior.Summary)
}

func TestAskCmd_WithoutAnalysis(t *testing.T) {
	path := writeFile(t, "lease.txt", "Rent.")
	gw := &cliGateway{}

	_, err := run(t, gw, "ask", path, "Who pays?")
	require.NoError(t, err)
	assert.Nil(t, gw.prior)
}

func TestCompareCmd(t *testing.T) {
	a := writeFile(t, "v1.txt", "Rent is $1000.")
	b := writeFile(t, "v2.txt", "Rent is $1200. Pets allowed.")

	out, err := run(t, &cliGateway{}, "compare", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "Compare: v1.txt vs v2.txt")
	assert.Contains(t, out, "Pets allowed")
	assert.Contains(t, out, "$1200")
}

func TestCompareCmd_GatewayFailure(t *testing.T) {
	a := writeFile(t, "v1.txt", "Same.")
	b := writeFile(t, "v2.txt", "Same.")

	_, err := run(t, &cliGateway{}, "compare", a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGateway))
}

func TestAnalyzeCmd_RejectsEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", "")

	_, err := run(t, &cliGateway{}, "analyze", path)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestInfoCmd(t *testing.T) {
	out, err := run(t, &cliGateway{}, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Features")
	assert.Contains(t, out, "FAQ")
}
