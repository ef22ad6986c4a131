package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"StockPulse/internal/assistant"
	"StockPulse/internal/cache"
	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
	"StockPulse/internal/strategy"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TrendingSymbols are fetched by Trending, in display order.
var TrendingSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA"}

const (
	newsCachePrefix = "news_data_"
	fanOutLimit     = 4
)

// Analyzer is the entry point shared by the HTTP API, the Telegram bot, the
// CLI and the warm-up job.
type Analyzer struct {
	fetcher  *collector.Fetcher
	router   *assistant.Router
	cache    *cache.Cache
	recorder recorder.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRecorder journals analyses.
func WithRecorder(r recorder.Recorder) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the clock used for news timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Analyzer. c must be the cache the fetcher writes to.
func New(fetcher *collector.Fetcher, router *assistant.Router, c *cache.Cache, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:  fetcher,
		router:   router,
		cache:    c,
		recorder: recorder.NewNoopRecorder(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchSnapshot returns market data for symbol. Errors are *collector.FetchError.
func (a *Analyzer) FetchSnapshot(ctx context.Context, symbol string) (*model.Snapshot, error) {
	return a.fetcher.Fetch(ctx, symbol)
}

// ScoreSnapshot scores a snapshot.
func (a *Analyzer) ScoreSnapshot(snap *model.Snapshot) *model.AnalysisResult {
	return strategy.Score(snap)
}

// Respond answers a chat message. It always returns a reply.
func (a *Analyzer) Respond(ctx context.Context, message, stockContext string) string {
	return a.router.Respond(ctx, message, stockContext).Reply
}

// ListReferenceSymbols lists the symbols with offline sample data, sorted.
func (a *Analyzer) ListReferenceSymbols() []string {
	return a.fetcher.Reference().Symbols()
}

// Analyze fetches and scores symbol.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*model.AnalysisResult, error) {
	snap, err := a.fetcher.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}
	res := strategy.Score(snap)
	if err := a.recorder.RecordAnalysis(res); err != nil {
		a.logger.Warn("record analysis failed", zap.String("symbol", res.Symbol), zap.Error(err))
	}
	return res, nil
}

// News returns headline links for symbol. Items are cached like snapshots.
func (a *Analyzer) News(_ context.Context, symbol string) []model.NewsItem {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	key := newsCachePrefix + sym
	if v, ok := a.cache.Get(key); ok {
		if items, ok := v.([]model.NewsItem); ok {
			return append([]model.NewsItem(nil), items...)
		}
	}

	now := a.now()
	items := []model.NewsItem{
		{
			Title:       fmt.Sprintf("%s Market Analysis Update", sym),
			Description: fmt.Sprintf("Stay updated with the latest %s market trends, financial performance, and investment insights.", sym),
			URL:         fmt.Sprintf("https://finance.yahoo.com/quote/%s/news", sym),
			PublishedAt: now,
		},
		{
			Title:       fmt.Sprintf("%s Stock Performance Review", sym),
			Description: "Monitor key financial metrics, technical indicators, and market sentiment for informed investment decisions.",
			URL:         fmt.Sprintf("https://finance.yahoo.com/quote/%s", sym),
			PublishedAt: now,
		},
		{
			Title:       fmt.Sprintf("%s Investment Research", sym),
			Description: "Access professional analysis, earnings reports, and market commentary from financial experts.",
			URL:         fmt.Sprintf("https://finance.yahoo.com/quote/%s/analysis", sym),
			PublishedAt: now,
		},
	}
	a.cache.Set(key, items)
	return append([]model.NewsItem(nil), items...)
}

// Portfolio analyzes symbols concurrently and averages the scores of those
// that succeed. Input order is kept; failures are skipped.
func (a *Analyzer) Portfolio(ctx context.Context, symbols []string) *model.PortfolioReport {
	results := make([]*model.AnalysisResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, sym := range symbols {
		g.Go(func() error {
			res, err := a.Analyze(gctx, strings.ToUpper(strings.TrimSpace(sym)))
			if err != nil {
				a.logger.Info("portfolio symbol skipped", zap.String("symbol", sym), zap.Error(err))
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	report := &model.PortfolioReport{Analyses: []*model.AnalysisResult{}}
	total := 0
	for _, r := range results {
		if r != nil {
			report.Analyses = append(report.Analyses, r)
			total += r.Score
		}
	}
	report.Count = len(report.Analyses)

	avg := 50.0
	if report.Count > 0 {
		avg = math.Round(float64(total)/float64(report.Count)*100) / 100
	}
	report.Score = avg
	report.Sentiment = portfolioSentiment(avg)
	return report
}

func portfolioSentiment(avg float64) string {
	switch {
	case avg >= 70:
		return "🚀 Strong Portfolio"
	case avg >= 50:
		return "📈 Good Portfolio"
	default:
		return "⚖️ Balanced Portfolio"
	}
}

// Trending fetches TrendingSymbols concurrently, skipping failures.
func (a *Analyzer) Trending(ctx context.Context) []*model.Snapshot {
	return a.fetchAll(ctx, TrendingSymbols)
}

// Warm fetches symbols so later requests are served from the cache. It
// returns how many succeeded.
func (a *Analyzer) Warm(ctx context.Context, symbols []string) int {
	return len(a.fetchAll(ctx, symbols))
}

func (a *Analyzer) fetchAll(ctx context.Context, symbols []string) []*model.Snapshot {
	snaps := make([]*model.Snapshot, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, sym := range symbols {
		g.Go(func() error {
			snap, err := a.fetcher.Fetch(gctx, sym)
			if err != nil {
				a.logger.Info("symbol skipped", zap.String("symbol", sym), zap.Error(err))
				return nil
			}
			snaps[i] = snap
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*model.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
