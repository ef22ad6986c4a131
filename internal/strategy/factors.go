package strategy

import (
	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// MomentumBand maps a percent-change range to a score adjustment and verdict.
type MomentumBand struct {
	Above     float64 // band applies when change > Above
	Points    int
	Sentiment string
	Emoji     string
	Rationale string
	Factor    string
}

// MomentumBands are checked top-down; the first band whose threshold the
// change exceeds wins. Order is by descending threshold.
var MomentumBands = []MomentumBand{
	{5, 25, "Strong Buy", "🚀", "Excellent momentum! Stock showing strong upward trend with great buying opportunity.", "Strong positive momentum (+5%)"},
	{0, 15, "Buy", "📈", "Positive trend detected. Good entry point for investors.", "Positive price movement"},
	{-5, 5, "Hold", "⚖️", "Neutral market conditions. Monitor for trend changes.", "Stable price action"},
}

// SellBand applies when the change is at or below every threshold.
var SellBand = MomentumBand{0, -15, "Sell", "📉", "Downward trend detected. Consider risk management strategies.", "Negative price momentum"}

func scoreMomentum(change float64) MomentumBand {
	for _, b := range MomentumBands {
		if change > b.Above {
			return b
		}
	}
	return SellBand
}

// scoreVolume rewards liquid names. Below 100k shares there is no bonus.
func scoreVolume(volume int64) (int, string) {
	switch {
	case volume > 1_000_000:
		return 10, "High trading volume (strong interest)"
	case volume > 100_000:
		return 5, "Moderate trading activity"
	default:
		return 0, ""
	}
}

// scoreValuation applies only when a positive P/E is known.
func scoreValuation(pe *float64) (int, string) {
	if pe == nil || !(*pe > 0) {
		return 0, ""
	}
	switch {
	case *pe < 15:
		return 10, "Attractive valuation (low P/E)"
	case *pe < 25:
		return 5, "Fair valuation"
	default:
		return -5, "High valuation (expensive)"
	}
}

func riskTier(score int) model.RiskTier {
	switch {
	case score >= 70:
		return model.RiskLow
	case score >= 50:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// technicals needs at least 15 bars for a meaningful RSI(14).
func technicals(snap *model.Snapshot) *model.Technicals {
	bars := snap.History
	if len(bars) < 15 {
		return nil
	}
	t := &model.Technicals{}
	if ma, err := calculator.CalculateMA20(bars); err == nil {
		t.MA20 = ma
	} else {
		t.MA20, _ = calculator.CalculateSMA(closes(bars), len(bars))
	}
	t.RSI14, _ = calculator.CalculateRSI(bars, 14)
	if h, l, err := calculator.CalculateRange(bars, len(bars)); err == nil {
		t.High30d, t.Low30d = h, l
		t.RangePosition, _ = calculator.CalculateRangePosition(snap.Price, h, l)
	}
	return t
}

func closes(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
