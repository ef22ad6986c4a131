package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"StockPulse/internal/model"
	"StockPulse/internal/strategy"

	"github.com/dustin/go-humanize"
)

// FormatSnapshot renders market data for one symbol.
func FormatSnapshot(s *model.Snapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s (%s)</b>\n\n", html.EscapeString(s.Name), html.EscapeString(s.Symbol)))
	b.WriteString(fmt.Sprintf("Price: $%.2f (%+.2f%%)\n", s.Price, s.ChangePercent))
	b.WriteString(fmt.Sprintf("Volume: %s\n", humanize.Comma(s.Volume)))
	b.WriteString(fmt.Sprintf("Market cap: %s\n", formatMoney(s.MarketCap)))
	if s.PERatio != nil {
		b.WriteString(fmt.Sprintf("P/E: %.2f\n", *s.PERatio))
	} else {
		b.WriteString("P/E: N/A\n")
	}
	b.WriteString(fmt.Sprintf("Dividend yield: %.2f%%\n", s.DividendYield))
	if s.IsFallback {
		b.WriteString("\n" + html.EscapeString(s.FallbackNote) + "\n")
	}
	return b.String()
}

// FormatAnalysis renders a scoring result.
func FormatAnalysis(r *model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b>: %s\n\n", strategy.SentimentEmoji(r.Sentiment), html.EscapeString(r.Symbol), r.Sentiment))
	b.WriteString(fmt.Sprintf("Score: %d/100 | Confidence: %d%% | Risk: %s\n", r.Score, r.Confidence, r.RiskTier))
	b.WriteString(fmt.Sprintf("<i>%s</i>\n", html.EscapeString(r.Rationale)))
	if len(r.Factors) > 0 {
		b.WriteString("\n<b>Factors:</b>\n")
		for _, f := range r.Factors {
			b.WriteString("• " + html.EscapeString(f) + "\n")
		}
	}
	if t := r.Technicals; t != nil {
		b.WriteString(fmt.Sprintf("\nMA20: %.2f | RSI14: %.0f\n", t.MA20, t.RSI14))
		b.WriteString(fmt.Sprintf("30d range: %.2f - %.2f (position %.0f%%)\n", t.Low30d, t.High30d, t.RangePosition*100))
	}
	b.WriteString("\n" + html.EscapeString(r.Recommendation))
	if r.IsFallback {
		b.WriteString("\n📊 Demo data")
	}
	return b.String()
}

// FormatPortfolio renders a portfolio report.
func FormatPortfolio(p *model.PortfolioReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b>\n", p.Sentiment))
	b.WriteString(fmt.Sprintf("Average score: %.2f over %d stocks\n\n", p.Score, p.Count))
	for _, a := range p.Analyses {
		b.WriteString(fmt.Sprintf("%s %s: %s (%d, risk %s)\n",
			strategy.SentimentEmoji(a.Sentiment), html.EscapeString(a.Symbol), a.Sentiment, a.Score, a.RiskTier))
	}
	if p.Count == 0 {
		b.WriteString("No symbols could be analyzed.\n")
	}
	return b.String()
}

// FormatNews renders headline links.
func FormatNews(items []model.NewsItem) string {
	var b strings.Builder
	b.WriteString("📰 <b>News</b>\n")
	for _, it := range items {
		b.WriteString(fmt.Sprintf("\n<a href=\"%s\">%s</a>\n%s\n",
			html.EscapeString(it.URL), html.EscapeString(it.Title), html.EscapeString(it.Description)))
	}
	return b.String()
}

// FormatTrending renders one line per snapshot.
func FormatTrending(snaps []*model.Snapshot) string {
	if len(snaps) == 0 {
		return "No trending data available right now."
	}
	var b strings.Builder
	b.WriteString("🔥 <b>Trending</b>\n\n")
	for _, s := range snaps {
		line := fmt.Sprintf("%s $%.2f (%+.2f%%)", html.EscapeString(s.Symbol), s.Price, s.ChangePercent)
		if s.IsFallback {
			line += " [demo]"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatSymbols lists the symbols with offline sample data.
func FormatSymbols(symbols []string) string {
	return "Symbols with demo data: " + strings.Join(symbols, ", ")
}

// FormatReply converts the assistant's **bold** markup to Telegram HTML.
func FormatReply(text string) string {
	parts := strings.Split(html.EscapeString(text), "**")
	if len(parts)%2 == 0 {
		return html.EscapeString(text)
	}
	var b strings.Builder
	for i, p := range parts {
		if i%2 == 1 {
			b.WriteString("<b>" + p + "</b>")
		} else {
			b.WriteString(p)
		}
	}
	return b.String()
}

func formatMoney(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return "N/A"
	}
	x := *v
	switch {
	case x >= 1e12:
		return fmt.Sprintf("$%.2fT", x/1e12)
	case x >= 1e9:
		return fmt.Sprintf("$%.2fB", x/1e9)
	case x >= 1e6:
		return fmt.Sprintf("$%.2fM", x/1e6)
	default:
		return "$" + humanize.Commaf(math.Round(x))
	}
}

const helpText = `<b>StockPulse</b>

/quote SYMBOL - market data
/analyze SYMBOL - score and risk
/news SYMBOL - headlines
/trending - popular stocks
/portfolio A B C - combined analysis
/symbols - symbols with demo data
/help - this message

Any other message is answered by the assistant.`
