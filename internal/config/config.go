package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Gateway
	GeminiAPIKey         string
	AnthropicAPIKey      string
	AnalyzeModel         string
	AnswerModel          string
	CompareModel         string
	GatewayTimeout       time.Duration
	GatewayRatePerMinute int
	GatewayBurst         int
	// History storage
	HistoryBackend string // "memory" or "postgres"
	DatabaseURL    string
	TablePrefix    string
	// Workspaces
	WorkspaceSecret string
	WorkspaceTTL    time.Duration
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Gateway
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
		AnalyzeModel:         getEnv("ANALYZE_MODEL", "gemini-2.5-flash"),
		AnswerModel:          getEnv("ANSWER_MODEL", "gemini-2.5-flash"),
		CompareModel:         getEnv("COMPARE_MODEL", "gemini-2.5-pro"),
		GatewayTimeout:       getDuration("GATEWAY_TIMEOUT", 2*time.Minute),
		GatewayRatePerMinute: getInt("GATEWAY_RATE_PER_MINUTE", 20),
		GatewayBurst:         getInt("GATEWAY_BURST", 5),
		// History storage
		HistoryBackend: getEnv("HISTORY_BACKEND", "memory"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		TablePrefix:    getTablePrefix(env),
		// Workspaces
		WorkspaceSecret: getEnv("WORKSPACE_SECRET", ""),
		WorkspaceTTL:    getDuration("WORKSPACE_TTL", 24*time.Hour),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 5),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
