package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vidhik/internal/config"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/services"
	"vidhik/internal/prompts"
	"vidhik/internal/repository/memory"
	"vidhik/internal/service/controller"
	"vidhik/internal/service/gateway"
	"vidhik/internal/service/ingest"
	serviceLLM "vidhik/internal/service/llm"
)

var (
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vidhik",
	Short: "Demystify legal documents from the command line",
	Long: `vidhik analyzes legal documents, answers questions about them and compares
two versions, using the same models as the server. Results are not persisted.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON results")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log gateway calls to stderr")
}

// buildGateway wires the LLM gateway from the environment. Tests replace it.
var buildGateway = func(cfg *config.Config, logger *slog.Logger) (services.Gateway, error) {
	promptRegistry, err := prompts.NewRegistry()
	if err != nil {
		return nil, err
	}
	providers, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		return nil, err
	}
	return gateway.NewLLMGateway(
		providers,
		promptRegistry,
		gateway.Models{Analyze: cfg.AnalyzeModel, Answer: cfg.AnswerModel, Compare: cfg.CompareModel},
		cfg.GatewayTimeout,
		logger,
	), nil
}

// newController returns a controller over a throwaway in-memory history
func newController(cmd *cobra.Command) (services.Controller, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	gw, err := buildGateway(cfg, logger)
	if err != nil {
		return nil, err
	}
	return controller.NewController(memory.NewHistoryStore(), gw, logger), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openDocument ingests a file from disk
func openDocument(path string) (models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Document{}, err
	}
	defer f.Close()
	return ingest.FromUpload(filepath.Base(path), "", f)
}
