package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"vidhik/internal/auth"
	"vidhik/internal/config"
	"vidhik/internal/domain/repositories"
	"vidhik/internal/handler"
	"vidhik/internal/middleware"
	"vidhik/internal/prompts"
	"vidhik/internal/repository/memory"
	"vidhik/internal/repository/postgres"
	"vidhik/internal/service/gateway"
	serviceLLM "vidhik/internal/service/llm"
	"vidhik/internal/service/workspace"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	out, closeLog, err := config.LogWriter(cfg.LogDir, cfg.LogMaxFiles)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"history_backend", cfg.HistoryBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prompts and FAQ content
	promptRegistry, err := prompts.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}
	info, err := prompts.LoadInfo()
	if err != nil {
		log.Fatalf("Failed to load info content: %v", err)
	}

	// Setup LLM providers and the gateway shared by every workspace
	providerRegistry, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}
	gw := gateway.NewLLMGateway(
		providerRegistry,
		promptRegistry,
		gateway.Models{Analyze: cfg.AnalyzeModel, Answer: cfg.AnswerModel, Compare: cfg.CompareModel},
		cfg.GatewayTimeout,
		logger,
	)

	newStore, purge, closeStore, err := setupHistory(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup history store: %v", err)
	}
	defer closeStore()

	tokens, err := auth.NewHMACTokens(workspaceSecret(cfg, logger), cfg.WorkspaceTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	registry := workspace.NewRegistry(tokens, gw, newStore, workspace.Config{
		TTL:           cfg.WorkspaceTTL,
		RatePerMinute: cfg.GatewayRatePerMinute,
		Burst:         cfg.GatewayBurst,
		Durable:       cfg.HistoryBackend == "postgres",
	}, logger)

	// Handlers
	workspaceHandler := handler.NewWorkspaceHandler(registry, logger)
	sessionHandler := handler.NewSessionHandler(logger)
	documentHandler := handler.NewDocumentHandler(logger)
	comparisonHandler := handler.NewComparisonHandler(logger)
	infoHandler := handler.NewInfoHandler(info, handler.ModelsInfo{
		Analyze: cfg.AnalyzeModel,
		Answer:  cfg.AnswerModel,
		Compare: cfg.CompareModel,
	})

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	requireWorkspace := middleware.RequireWorkspace(registry, logger)
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireWorkspace(h))
	}

	// Public routes
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.CreateWorkspace)
	mux.HandleFunc("GET /api/info", infoHandler.GetInfo)

	// Controller state
	protected("GET /api/state", sessionHandler.GetState)
	protected("PUT /api/mode", sessionHandler.SwitchMode)

	// Session routes
	protected("POST /api/sessions/new", sessionHandler.NewSession)
	protected("GET /api/sessions", sessionHandler.ListSessions)
	protected("DELETE /api/sessions", sessionHandler.ClearHistory)
	protected("GET /api/sessions/active", sessionHandler.GetActiveSession) // Must come before {id} route
	protected("GET /api/sessions/{id}", sessionHandler.GetSession)
	protected("POST /api/sessions/{id}/select", sessionHandler.SelectSession)
	protected("POST /api/sessions/{id}/analysis", sessionHandler.RequestAnalysis)
	protected("POST /api/sessions/{id}/messages", sessionHandler.AskQuestion)

	// Document routes
	protected("POST /api/documents", documentHandler.SelectDocument)
	protected("GET /api/documents", documentHandler.ListDocuments)
	protected("POST /api/documents/open", documentHandler.OpenDocument)

	// Comparison routes
	protected("POST /api/comparisons", comparisonHandler.Compare)

	// Build middleware chain
	// Order: CORS → Recovery → Logging → Routes
	var root http.Handler = mux
	root = middleware.RequestLogger(logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - outermost so OPTIONS pre-flight requests never reach the token check
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     root,
		ReadTimeout: 30 * time.Second,
		// Comparisons on the larger model can take well over a minute
		WriteTimeout: cfg.GatewayTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if purge != nil {
		g.Go(func() error { return purge(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// setupHistory returns the per-workspace store factory for the configured
// backend and, for postgres, a background job purging expired workspaces.
func setupHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (workspace.StoreFactory, func(context.Context) error, func(), error) {
	switch cfg.HistoryBackend {
	case "memory":
		return func(string) repositories.HistoryStore {
			return memory.NewHistoryStore()
		}, nil, func() {}, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, nil, errors.New("DATABASE_URL is required for the postgres history backend")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("database connected", "max_conns", 25, "min_conns", 5, "table_prefix", cfg.TablePrefix)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		if err := postgres.EnsureSchema(ctx, repoConfig); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		purge := func(ctx context.Context) error {
			return postgres.RunPurger(ctx, repoConfig, cfg.WorkspaceTTL, time.Hour)
		}
		return func(workspaceID string) repositories.HistoryStore {
			return postgres.NewHistoryStore(repoConfig, workspaceID)
		}, purge, pool.Close, nil

	default:
		return nil, nil, nil, errors.New("HISTORY_BACKEND must be \"memory\" or \"postgres\"")
	}
}

// workspaceSecret returns the configured signing secret. Outside production a
// random one is generated, which invalidates tokens on restart.
func workspaceSecret(cfg *config.Config, logger *slog.Logger) string {
	if cfg.WorkspaceSecret != "" || cfg.Environment == "prod" {
		return cfg.WorkspaceSecret
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate workspace secret: %v", err)
	}
	logger.Warn("WORKSPACE_SECRET not set - using a random secret, tokens will not survive a restart")
	return hex.EncodeToString(buf)
}
