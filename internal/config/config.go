package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Cache struct {
		TTL         time.Duration `yaml:"ttl"`
		FallbackTTL time.Duration `yaml:"fallback_ttl"`
	} `yaml:"cache"`
	Fetcher struct {
		Delays []time.Duration `yaml:"delays"`
	} `yaml:"fetcher"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Proxy   string `yaml:"proxy"`
	} `yaml:"data_source"`
	Assistant struct {
		BaseURL      string        `yaml:"base_url"`
		APIKey       string        `yaml:"api_key"`
		Models       []string      `yaml:"models"`
		CallTimeout  time.Duration `yaml:"call_timeout"`
		ChainTimeout time.Duration `yaml:"chain_timeout"`
		MaxTokens    int           `yaml:"max_tokens"`
		Temperature  *float64      `yaml:"temperature"`
		Referer      string        `yaml:"referer"`
		Title        string        `yaml:"title"`
	} `yaml:"assistant"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		WarmupCron    string   `yaml:"warmup_cron"`
		WarmupSymbols []string `yaml:"warmup_symbols"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// DefaultWarmupSymbols mirrors the trending list.
var DefaultWarmupSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA"}

// Load reads an optional .env file, then the YAML config at path, then applies
// environment variable overrides and defaults. A missing config file is not an
// error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.Assistant.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Assistant.APIKey == "" {
		c.Assistant.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("QUOTE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.DataSource.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CRON_WARMUP"); v != "" {
		c.Schedule.WarmupCron = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.Cache.FallbackTTL == 0 {
		c.Cache.FallbackTTL = 2 * time.Minute
	}
	if len(c.Fetcher.Delays) == 0 {
		c.Fetcher.Delays = []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}
	}
	if c.Assistant.CallTimeout == 0 {
		c.Assistant.CallTimeout = 15 * time.Second
	}
	if c.Assistant.ChainTimeout == 0 {
		c.Assistant.ChainTimeout = 45 * time.Second
	}
	if c.Assistant.Temperature == nil {
		t := 0.7
		c.Assistant.Temperature = &t
	}
	if c.Assistant.Title == "" {
		c.Assistant.Title = "StockPulse"
	}
	if c.Schedule.WarmupCron == "" {
		c.Schedule.WarmupCron = "0 */10 * * * *"
	}
	if len(c.Schedule.WarmupSymbols) == 0 {
		c.Schedule.WarmupSymbols = DefaultWarmupSymbols
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks value ranges. Nothing is strictly required: without keys
// the service runs on local replies and reference data.
func (c *Config) Validate() error {
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Cache.FallbackTTL < 0 {
		return fmt.Errorf("cache.fallback_ttl must not be negative")
	}
	for i, d := range c.Fetcher.Delays {
		if d < 0 {
			return fmt.Errorf("fetcher.delays[%d] must not be negative", i)
		}
	}
	if t := c.Assistant.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("assistant.temperature must be within [0, 2]")
	}
	if c.Assistant.MaxTokens < 0 {
		return fmt.Errorf("assistant.max_tokens must not be negative")
	}
	if c.Telegram.ChatID != "" && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required when telegram.chat_id is set")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
