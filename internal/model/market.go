package model

import "time"

// Bar represents a single daily candlestick.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Snapshot is a point-in-time market-data record for one symbol.
// MarketCap and PERatio are nil when the provider has no value ("N/A").
type Snapshot struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"current_price"`
	ChangePercent float64   `json:"change"`
	Volume        int64     `json:"volume"`
	MarketCap     *float64  `json:"market_cap"`
	PERatio       *float64  `json:"pe_ratio"`
	DividendYield float64   `json:"dividend_yield"`
	History       []Bar     `json:"historical_data"`
	IsFallback    bool      `json:"demo_mode,omitempty"`
	FallbackNote  string    `json:"demo_message,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Clone returns a deep copy so callers can never mutate a cached or reference snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	if s.MarketCap != nil {
		v := *s.MarketCap
		c.MarketCap = &v
	}
	if s.PERatio != nil {
		v := *s.PERatio
		c.PERatio = &v
	}
	if s.History != nil {
		c.History = make([]Bar, len(s.History))
		copy(c.History, s.History)
	}
	return &c
}

// Float returns a pointer to v, for optional snapshot fields.
func Float(v float64) *float64 { return &v }
