package model

// RiskTier classifies an analysis score.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// Technicals holds indicators derived from a snapshot's recent history.
// They are informational and do not feed the score.
type Technicals struct {
	MA20          float64 `json:"ma20"`
	RSI14         float64 `json:"rsi14"`
	High30d       float64 `json:"high_30d"`
	Low30d        float64 `json:"low_30d"`
	RangePosition float64 `json:"range_position"` // 0.0 ~ 1.0
}

// AnalysisResult is the output of the scoring engine.
type AnalysisResult struct {
	Symbol         string      `json:"symbol"`
	Sentiment      string      `json:"sentiment"`
	Rationale      string      `json:"analysis"`
	Factors        []string    `json:"factors"`
	Score          int         `json:"score"`
	Confidence     int         `json:"confidence"`
	RiskTier       RiskTier    `json:"risk_level"`
	Recommendation string      `json:"recommendation"`
	IsFallback     bool        `json:"demo_mode,omitempty"`
	Technicals     *Technicals `json:"technicals,omitempty"`
}

// PortfolioReport aggregates analyses of several symbols.
type PortfolioReport struct {
	Analyses  []*AnalysisResult `json:"individual_analysis"`
	Score     float64           `json:"portfolio_score"`
	Sentiment string            `json:"portfolio_sentiment"`
	Count     int               `json:"total_stocks"`
}
