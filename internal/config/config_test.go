package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "OPENROUTER_API_KEY", "OPENAI_API_KEY", "TELEGRAM_BOT_TOKEN",
		"TELEGRAM_CHAT_ID", "QUOTE_BASE_URL", "QUOTE_API_KEY", "HTTPS_PROXY", "SQLITE_PATH",
		"LOG_LEVEL", "CRON_WARMUP"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Minute, cfg.Cache.FallbackTTL)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}, cfg.Fetcher.Delays)
	assert.Equal(t, 45*time.Second, cfg.Assistant.ChainTimeout)
	require.NotNil(t, cfg.Assistant.Temperature)
	assert.Equal(t, 0.7, *cfg.Assistant.Temperature)
	assert.Equal(t, "0 */10 * * * *", cfg.Schedule.WarmupCron)
	assert.Equal(t, DefaultWarmupSymbols, cfg.Schedule.WarmupSymbols)
	assert.Empty(t, cfg.Database.SQLitePath)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
cache:
  ttl: 5m
  fallback_ttl: 30s
fetcher:
  delays: [1s, 2s]
assistant:
  api_key: from-file
  models: [a, b]
  temperature: 0.2
log:
  level: debug
  format: console
`), 0o644))

	t.Setenv("PORT", "9000")
	t.Setenv("OPENROUTER_API_KEY", "from-env")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.FallbackTTL)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, cfg.Fetcher.Delays)
	assert.Equal(t, "from-env", cfg.Assistant.APIKey)
	assert.Equal(t, []string{"a", "b"}, cfg.Assistant.Models)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
	assert.Equal(t, "console", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoad_OpenAIKeyDoesNotOverrideFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assistant:\n  api_key: file-key\n"), 0o644))
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Assistant.APIKey)
}

func TestLoad_ZeroTemperatureKept(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assistant:\n  temperature: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Assistant.Temperature)
	assert.Zero(t, *cfg.Assistant.Temperature)
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache: [unclosed"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl"},
		{"negative delay", func(c *Config) { c.Fetcher.Delays = []time.Duration{time.Second, -1} }, "fetcher.delays[1]"},
		{"temperature", func(c *Config) { v := 3.0; c.Assistant.Temperature = &v }, "temperature"},
		{"chat without token", func(c *Config) { c.Telegram.ChatID = "42" }, "bot_token"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
