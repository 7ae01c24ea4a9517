package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "ANALYZE_MODEL", "COMPARE_MODEL", "GATEWAY_TIMEOUT", "TABLE_PREFIX", "DEBUG", "HISTORY_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.AnalyzeModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.CompareModel)
	assert.Equal(t, 2*time.Minute, cfg.GatewayTimeout)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, "memory", cfg.HistoryBackend)
	assert.True(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DEBUG", "")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("ANSWER_MODEL", "claude-haiku-4-5")
	t.Setenv("GATEWAY_RATE_PER_MINUTE", "60")
	t.Setenv("WORKSPACE_TTL", "90m")

	cfg := Load()
	assert.Equal(t, "prod_", cfg.TablePrefix)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "claude-haiku-4-5", cfg.AnswerModel)
	assert.Equal(t, 60, cfg.GatewayRatePerMinute)
	assert.Equal(t, 90*time.Minute, cfg.WorkspaceTTL)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("GATEWAY_BURST", "lots")
	t.Setenv("GATEWAY_TIMEOUT", "-5s")

	cfg := Load()
	assert.Equal(t, 5, cfg.GatewayBurst)
	assert.Equal(t, 2*time.Minute, cfg.GatewayTimeout)
}

func TestLoad_TablePrefixOverride(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TABLE_PREFIX", "ci_")

	assert.Equal(t, "ci_", Load().TablePrefix)
}

func TestLogWriter(t *testing.T) {
	w, closeFn, err := LogWriter("", 3)
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)
	assert.NoError(t, closeFn())

	dir := filepath.Join(t.TempDir(), "logs")
	w, closeFn, err = LogWriter(dir, 3)
	require.NoError(t, err)
	_, err = w.Write([]byte("{\"msg\":\"hello\"}\n"))
	require.NoError(t, err)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, "server.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
