package collector

import (
	"context"

	"StockPulse/internal/model"
)

// Quote is the raw result of one upstream lookup. Pointer fields are nil when
// the provider did not report them.
type Quote struct {
	Symbol              string
	LongName            string
	ShortName           string
	Price               *float64
	ChangePercent       *float64
	Volume              *int64
	RegularMarketVolume *int64
	MarketCap           *float64
	TrailingPE          *float64
	ForwardPE           *float64
	DividendYield       *float64
	History             []model.Bar
}

// HasMetadata reports whether the provider returned any quote metadata.
// Bars alone do not count.
func (q *Quote) HasMetadata() bool {
	if q == nil {
		return false
	}
	return q.LongName != "" || q.ShortName != "" ||
		q.Price != nil || q.ChangePercent != nil ||
		q.Volume != nil || q.RegularMarketVolume != nil ||
		q.MarketCap != nil || q.TrailingPE != nil || q.ForwardPE != nil
}

// Provider defines an upstream market-data source.
type Provider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Name() string
}
