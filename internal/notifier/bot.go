package notifier

import (
	"context"
	"strings"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"

	"go.uber.org/zap"
)

const maxPortfolioSymbols = 20

// Service is what the bot needs from the analyzer.
type Service interface {
	FetchSnapshot(ctx context.Context, symbol string) (*model.Snapshot, error)
	Analyze(ctx context.Context, symbol string) (*model.AnalysisResult, error)
	News(ctx context.Context, symbol string) []model.NewsItem
	Respond(ctx context.Context, message, stockContext string) string
	Portfolio(ctx context.Context, symbols []string) *model.PortfolioReport
	Trending(ctx context.Context) []*model.Snapshot
	ListReferenceSymbols() []string
}

// Bot maps chat messages onto analyzer calls.
type Bot struct {
	svc    Service
	logger *zap.Logger
}

func NewBot(svc Service, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{svc: svc, logger: logger}
}

// HandleCommand processes one message and returns the reply.
func (b *Bot) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	if !strings.HasPrefix(fields[0], "/") {
		return FormatReply(b.svc.Respond(ctx, text, ""))
	}

	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/start", "/help":
		return helpText
	case "/quote":
		return b.withSymbol(args, cmd, func(sym string) string {
			snap, err := b.svc.FetchSnapshot(ctx, sym)
			if err != nil {
				return fetchErrorText(err)
			}
			return FormatSnapshot(snap)
		})
	case "/analyze":
		return b.withSymbol(args, cmd, func(sym string) string {
			res, err := b.svc.Analyze(ctx, sym)
			if err != nil {
				return fetchErrorText(err)
			}
			return FormatAnalysis(res)
		})
	case "/news":
		return b.withSymbol(args, cmd, func(sym string) string {
			return FormatNews(b.svc.News(ctx, sym))
		})
	case "/trending":
		return FormatTrending(b.svc.Trending(ctx))
	case "/portfolio":
		return b.portfolio(ctx, args)
	case "/symbols":
		return FormatSymbols(b.svc.ListReferenceSymbols())
	default:
		return "Unknown command " + cmd + "\n\n" + helpText
	}
}

func (b *Bot) withSymbol(args []string, cmd string, fn func(sym string) string) string {
	if len(args) == 0 {
		return "Usage: " + cmd + " SYMBOL"
	}
	sym, err := collector.NormalizeSymbol(args[0])
	if err != nil {
		return collector.UserMessage(err)
	}
	return fn(sym)
}

func (b *Bot) portfolio(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /portfolio SYMBOL [SYMBOL...]"
	}
	if len(args) > maxPortfolioSymbols {
		return "Too many symbols, at most 20 per portfolio"
	}
	symbols := make([]string, 0, len(args))
	for _, a := range args {
		sym, err := collector.NormalizeSymbol(strings.Trim(a, ","))
		if err != nil {
			return collector.UserMessage(err) + ": " + a
		}
		symbols = append(symbols, sym)
	}
	return FormatPortfolio(b.svc.Portfolio(ctx, symbols))
}

func fetchErrorText(err error) string {
	return "❌ " + collector.UserMessage(err)
}
