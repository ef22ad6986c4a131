package notifier

import (
	"context"
	"strings"
	"testing"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	lastSymbol    string
	lastMessage   string
	portfolioArgs []string
	fetchErr      error
}

func (s *stubService) FetchSnapshot(_ context.Context, symbol string) (*model.Snapshot, error) {
	s.lastSymbol = symbol
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return &model.Snapshot{
		Symbol: symbol, Name: "Apple Inc", Price: 221.27, ChangePercent: 0.8,
		Volume: 34567890, MarketCap: model.Float(3.4e12), PERatio: model.Float(33.7), DividendYield: 0.44,
	}, nil
}

func (s *stubService) Analyze(_ context.Context, symbol string) (*model.AnalysisResult, error) {
	s.lastSymbol = symbol
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return &model.AnalysisResult{
		Symbol: symbol, Sentiment: "Buy", Rationale: "Positive momentum", Score: 75, Confidence: 71,
		RiskTier: model.RiskLow, Factors: []string{"Positive price momentum"},
		Recommendation: "Based on comprehensive analysis: buy recommendation.",
	}, nil
}

func (s *stubService) News(_ context.Context, symbol string) []model.NewsItem {
	return []model.NewsItem{{Title: symbol + " Market Analysis Update", URL: "https://finance.yahoo.com/quote/" + symbol + "/news"}}
}

func (s *stubService) Respond(_ context.Context, message, _ string) string {
	s.lastMessage = message
	return "**P/E** compares price <to> earnings"
}

func (s *stubService) Portfolio(_ context.Context, symbols []string) *model.PortfolioReport {
	s.portfolioArgs = symbols
	return &model.PortfolioReport{Sentiment: "📈 Good Portfolio", Score: 62.5, Count: 0}
}

func (s *stubService) Trending(context.Context) []*model.Snapshot {
	return []*model.Snapshot{{Symbol: "AAPL", Price: 221.27, ChangePercent: 0.8, IsFallback: true}}
}

func (s *stubService) ListReferenceSymbols() []string { return []string{"AAPL", "MSFT"} }

func TestHandleCommand(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		text     string
		contains []string
	}{
		{"help", "/help", []string{"/quote SYMBOL", "/portfolio"}},
		{"start", "/start", []string{"StockPulse"}},
		{"quote", "/quote aapl", []string{"Apple Inc (AAPL)", "$221.27", "34,567,890", "$3.40T", "P/E: 33.70"}},
		{"quote with bot suffix", "/quote@StockPulseBot msft", []string{"(MSFT)"}},
		{"quote missing symbol", "/quote", []string{"Usage: /quote SYMBOL"}},
		{"quote bad symbol", "/quote $$$", []string{"Invalid stock symbol format"}},
		{"analyze", "/analyze tsla", []string{"<b>TSLA</b>: Buy", "Score: 75/100", "Risk: Low", "• Positive price momentum"}},
		{"news", "/news goog", []string{"GOOG Market Analysis Update", "href="}},
		{"trending", "/trending", []string{"AAPL $221.27 (+0.80%) [demo]"}},
		{"symbols", "/symbols", []string{"AAPL, MSFT"}},
		{"unknown", "/bogus", []string{"Unknown command /bogus"}},
		{"free text", "what is a p/e ratio", []string{"<b>P/E</b>", "&lt;to&gt;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := NewBot(&stubService{}, nil).HandleCommand(ctx, tt.text)
			for _, want := range tt.contains {
				assert.Contains(t, reply, want)
			}
		})
	}
}

func TestHandleCommand_Empty(t *testing.T) {
	assert.Empty(t, NewBot(&stubService{}, nil).HandleCommand(context.Background(), "   "))
}

func TestHandleCommand_FetchError(t *testing.T) {
	svc := &stubService{fetchErr: &collector.FetchError{
		Kind: collector.ErrRateLimited, Symbol: "NFLX", Suggestions: []string{"AAPL", "MSFT"},
	}}
	reply := NewBot(svc, nil).HandleCommand(context.Background(), "/analyze nflx")
	assert.True(t, strings.HasPrefix(reply, "❌ Rate limit reached for NFLX"), reply)
}

func TestHandleCommand_Portfolio(t *testing.T) {
	svc := &stubService{}
	bot := NewBot(svc, nil)

	reply := bot.HandleCommand(context.Background(), "/portfolio aapl, msft tsla")
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, svc.portfolioArgs)
	assert.Contains(t, reply, "Average score: 62.50")

	assert.Contains(t, bot.HandleCommand(context.Background(), "/portfolio"), "Usage")
}

func TestFormatReply(t *testing.T) {
	assert.Equal(t, "<b>bold</b> and plain", FormatReply("**bold** and plain"))
	assert.Equal(t, "unpaired ** stays", FormatReply("unpaired ** stays"))
	assert.Equal(t, "a &amp; b", FormatReply("a & b"))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "N/A", formatMoney(nil))
	assert.Equal(t, "$1.52T", formatMoney(model.Float(1.523e12)))
	assert.Equal(t, "$2.50B", formatMoney(model.Float(2.5e9)))
	assert.Equal(t, "$7.00M", formatMoney(model.Float(7e6)))
	assert.Equal(t, "$12,345", formatMoney(model.Float(12345)))
}

func TestFormatSnapshot_Fallback(t *testing.T) {
	out := FormatSnapshot(&model.Snapshot{Symbol: "AMZN", Name: "Amazon.com Inc", IsFallback: true, FallbackNote: collector.FallbackNote})
	assert.Contains(t, out, "Demo Mode")
	assert.Contains(t, out, "P/E: N/A")
}
