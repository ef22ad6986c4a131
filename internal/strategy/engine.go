package strategy

import (
	"fmt"
	"math"
	"strings"

	"StockPulse/internal/model"
)

const (
	baseScore     = 50
	maxConfidence = 95
)

// Score computes the multi-factor analysis of a snapshot. It is pure and
// deterministic: the same snapshot always yields the same result.
func Score(snap *model.Snapshot) *model.AnalysisResult {
	if snap == nil {
		return nil
	}

	score := baseScore
	var factors []string

	band := scoreMomentum(snap.ChangePercent)
	score += band.Points
	factors = append(factors, band.Factor)

	if pts, f := scoreVolume(snap.Volume); f != "" {
		score += pts
		factors = append(factors, f)
	}
	if pts, f := scoreValuation(snap.PERatio); f != "" {
		score += pts
		factors = append(factors, f)
	}

	score = clamp(score, 0, 100)

	return &model.AnalysisResult{
		Symbol:         snap.Symbol,
		Sentiment:      band.Sentiment,
		Rationale:      band.Rationale,
		Factors:        factors,
		Score:          score,
		Confidence:     confidence(snap.ChangePercent),
		RiskTier:       riskTier(score),
		Recommendation: fmt.Sprintf("Based on comprehensive analysis: %s recommendation.", strings.ToLower(band.Sentiment)),
		IsFallback:     snap.IsFallback,
		Technicals:     technicals(snap),
	}
}

// SentimentEmoji returns the display emoji for a sentiment label.
func SentimentEmoji(sentiment string) string {
	for _, b := range MomentumBands {
		if b.Sentiment == sentiment {
			return b.Emoji
		}
	}
	if sentiment == SellBand.Sentiment {
		return SellBand.Emoji
	}
	return ""
}

// confidence grows with the size of the move and is capped at 95.
func confidence(change float64) int {
	c := math.Floor(math.Abs(change)*8 + 65)
	if math.IsNaN(c) {
		return 65
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return int(c)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
