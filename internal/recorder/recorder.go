package recorder

import (
	"time"

	"StockPulse/internal/model"
)

// FetchEvent records one snapshot lookup.
type FetchEvent struct {
	Symbol   string
	Source   string // "cache", "live", "fallback" or "error"
	Attempts int
	Error    string
	Duration time.Duration
}

// Recorder journals service activity for offline inspection. Nothing in the
// request path reads it back.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordAnalysis(res *model.AnalysisResult) error
	RecordChat(turn *model.Turn) error
	Close() error
}
