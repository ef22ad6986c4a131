package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"StockPulse/internal/cache"
	"StockPulse/internal/model"

	"go.uber.org/zap"
)

const (
	// MaxSymbolLength is the longest symbol the fetcher accepts.
	MaxSymbolLength = 10
	// DefaultFallbackTTL bounds how long a reference snapshot masks the live provider.
	DefaultFallbackTTL = 2 * time.Minute

	historyBars = 30
	cachePrefix = "stock_data_"
)

// DefaultDelays is the wait before each attempt. It is a fixed throttle to stay
// under upstream rate limits, not a reaction to observed failures.
var DefaultDelays = []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}

// Source tells where a fetched snapshot came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	SourceError    Source = "error"
)

// FetchEvent describes one completed Fetch call.
type FetchEvent struct {
	Symbol   string
	Source   Source
	Attempts int
	Err      error
	Duration time.Duration
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetcher wraps a Provider with caching, throttled retries and a static
// fallback table.
type Fetcher struct {
	provider    Provider
	cache       *cache.Cache
	reference   *ReferenceTable
	delays      []time.Duration
	fallbackTTL time.Duration
	sleep       Sleeper
	observer    func(FetchEvent)
	now         func() time.Time
	logger      *zap.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithDelays sets the per-attempt wait schedule; its length is the attempt count.
func WithDelays(delays []time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if len(delays) > 0 {
			f.delays = append([]time.Duration(nil), delays...)
		}
	}
}

// WithSleeper replaces the wait implementation.
func WithSleeper(s Sleeper) FetcherOption {
	return func(f *Fetcher) {
		if s != nil {
			f.sleep = s
		}
	}
}

// WithReferenceTable sets the fallback table. A nil table disables fallback.
func WithReferenceTable(t *ReferenceTable) FetcherOption {
	return func(f *Fetcher) { f.reference = t }
}

// WithFallbackTTL sets the cache lifetime of fallback snapshots.
func WithFallbackTTL(ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if ttl > 0 {
			f.fallbackTTL = ttl
		}
	}
}

// WithObserver registers a callback invoked after every Fetch.
func WithObserver(fn func(FetchEvent)) FetcherOption {
	return func(f *Fetcher) { f.observer = fn }
}

// WithFetcherLogger attaches a logger.
func WithFetcherLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher. The cache is shared with other components and
// must be non-nil.
func NewFetcher(provider Provider, c *cache.Cache, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		provider:    provider,
		cache:       c,
		reference:   DefaultReferenceTable(),
		delays:      DefaultDelays,
		fallbackTTL: DefaultFallbackTTL,
		sleep:       SleepContext,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Reference returns the fallback table.
func (f *Fetcher) Reference() *ReferenceTable { return f.reference }

// CacheKey is the cache key for a symbol's snapshot.
func CacheKey(symbol string) string {
	return cachePrefix + strings.ToUpper(symbol)
}

// Fetch returns a snapshot for symbol from the cache, the live provider, or
// the reference table, in that order. Errors are *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) (*model.Snapshot, error) {
	start := time.Now()
	ev := FetchEvent{Symbol: strings.ToUpper(symbol)}
	defer func() {
		ev.Duration = time.Since(start)
		if f.observer != nil {
			f.observer(ev)
		}
	}()

	if symbol == "" || utf8.RuneCountInString(symbol) > MaxSymbolLength {
		ev.Source, ev.Err = SourceError, &FetchError{Kind: ErrInvalidSymbol, Symbol: symbol}
		return nil, ev.Err
	}
	sym := strings.ToUpper(symbol)
	key := CacheKey(sym)

	if v, ok := f.cache.Get(key); ok {
		if snap, ok := v.(*model.Snapshot); ok {
			ev.Source = SourceCache
			return snap.Clone(), nil
		}
	}

	f.logger.Info("fetching fresh data", zap.String("symbol", sym), zap.String("provider", f.provider.Name()))

	var lastErr error
	for i, delay := range f.delays {
		ev.Attempts = i + 1
		if err := f.sleep(ctx, delay); err != nil {
			lastErr = fmt.Errorf("wait before attempt %d: %w", i+1, err)
			break
		}
		q, err := f.provider.Quote(ctx, sym)
		if err == nil && !q.HasMetadata() {
			err = errNoData
		}
		if err == nil {
			snap := buildSnapshot(sym, q, f.now())
			f.cache.Set(key, snap)
			ev.Source = SourceLive
			return snap.Clone(), nil
		}
		lastErr = err
		if i < len(f.delays)-1 {
			f.logger.Warn("fetch attempt failed, retrying",
				zap.String("symbol", sym), zap.Int("attempt", i+1), zap.Error(err))
		}
	}

	kind := classify(lastErr)
	f.logger.Error("fetch failed", zap.String("symbol", sym), zap.Int("attempts", ev.Attempts),
		zap.NamedError("kind", kind), zap.Error(lastErr))

	if ref, ok := f.reference.Lookup(sym); ok {
		ref.IsFallback = true
		ref.FallbackNote = FallbackNote
		ref.FetchedAt = f.now()
		f.cache.SetWithTTL(key, ref, f.fallbackTTL)
		f.logger.Warn("serving reference data", zap.String("symbol", sym))
		ev.Source = SourceFallback
		return ref.Clone(), nil
	}

	fe := &FetchError{Kind: kind, Symbol: sym, Err: lastErr, Suggestions: f.reference.Symbols()}
	ev.Source, ev.Err = SourceError, fe
	return nil, fe
}

// IsInvalidSymbol reports whether err is a caller error.
func IsInvalidSymbol(err error) bool { return errors.Is(err, ErrInvalidSymbol) }

func buildSnapshot(symbol string, q *Quote, now time.Time) *model.Snapshot {
	snap := &model.Snapshot{
		Symbol:    symbol,
		Name:      "N/A",
		MarketCap: q.MarketCap,
		FetchedAt: now,
	}

	switch {
	case q.LongName != "":
		snap.Name = q.LongName
	case q.ShortName != "":
		snap.Name = q.ShortName
	}

	switch {
	case q.Price != nil:
		snap.Price = *q.Price
	case len(q.History) > 0:
		snap.Price = q.History[len(q.History)-1].Close
	}

	if q.ChangePercent != nil {
		snap.ChangePercent = *q.ChangePercent
	}

	switch {
	case q.Volume != nil:
		snap.Volume = *q.Volume
	case q.RegularMarketVolume != nil:
		snap.Volume = *q.RegularMarketVolume
	}

	switch {
	case q.TrailingPE != nil:
		snap.PERatio = q.TrailingPE
	case q.ForwardPE != nil:
		snap.PERatio = q.ForwardPE
	}

	if q.DividendYield != nil {
		snap.DividendYield = *q.DividendYield
	}

	hist := q.History
	if len(hist) > historyBars {
		hist = hist[len(hist)-historyBars:]
	}
	snap.History = make([]model.Bar, len(hist))
	copy(snap.History, hist)

	return snap.Clone()
}
