package main

import (
	"fmt"
	"net/http"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/assistant"
	"StockPulse/internal/cache"
	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/logger"
	"StockPulse/internal/recorder"

	"go.uber.org/zap"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	recorder recorder.Recorder
	analyzer *analyzer.Analyzer
}

func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}

	var provider collector.Provider
	if cfg.DataSource.BaseURL != "" {
		provider = collector.NewRESTProvider(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.DataSource.Proxy)
	} else {
		provider = collector.NewYahooProvider(cfg.DataSource.Proxy, log)
	}
	log.Info("data source selected", zap.String("provider", provider.Name()))

	c := cache.New(cache.WithTTL(cfg.Cache.TTL), cache.WithLogger(log))
	log.Info("cache configured", zap.Duration("ttl", c.TTL()), zap.Duration("fallback_ttl", cfg.Cache.FallbackTTL))
	fetcher := collector.NewFetcher(provider, c,
		collector.WithDelays(cfg.Fetcher.Delays),
		collector.WithFallbackTTL(cfg.Cache.FallbackTTL),
		collector.WithObserver(analyzer.FetchJournal(rec, log)),
		collector.WithFetcherLogger(log),
	)

	providers := assistant.NewOpenAIProviders(assistant.OpenAIConfig{
		BaseURL:     cfg.Assistant.BaseURL,
		APIKey:      cfg.Assistant.APIKey,
		Models:      cfg.Assistant.Models,
		MaxTokens:   cfg.Assistant.MaxTokens,
		Temperature: cfg.Assistant.Temperature,
		Referer:     cfg.Assistant.Referer,
		Title:       cfg.Assistant.Title,
		HTTPClient:  &http.Client{},
	})
	router := assistant.NewRouter(providers,
		assistant.WithTimeouts(cfg.Assistant.CallTimeout, cfg.Assistant.ChainTimeout),
		assistant.WithTurnObserver(analyzer.TurnJournal(rec, log)),
		assistant.WithLogger(log),
	)
	if chain := router.Providers(); len(chain) > 0 {
		log.Info("assistant model chain", zap.Strings("models", chain))
	} else {
		log.Warn("assistant API key not configured, chat uses local replies only")
	}

	return &app{
		cfg:      cfg,
		logger:   log,
		recorder: rec,
		analyzer: analyzer.New(fetcher, router, c, analyzer.WithRecorder(rec), analyzer.WithLogger(log)),
	}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Warn("close recorder", zap.Error(err))
	}
	_ = a.logger.Sync()
}
