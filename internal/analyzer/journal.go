package analyzer

import (
	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"

	"go.uber.org/zap"
)

// FetchJournal adapts a recorder into a fetcher observer.
func FetchJournal(rec recorder.Recorder, logger *zap.Logger) func(collector.FetchEvent) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(evt collector.FetchEvent) {
		row := &recorder.FetchEvent{
			Symbol:   evt.Symbol,
			Source:   string(evt.Source),
			Attempts: evt.Attempts,
			Duration: evt.Duration,
		}
		if evt.Err != nil {
			row.Error = evt.Err.Error()
		}
		if err := rec.RecordFetch(row); err != nil {
			logger.Warn("record fetch failed", zap.String("symbol", evt.Symbol), zap.Error(err))
		}
	}
}

// TurnJournal adapts a recorder into a router turn observer.
func TurnJournal(rec recorder.Recorder, logger *zap.Logger) func(model.Turn) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(turn model.Turn) {
		if err := rec.RecordChat(&turn); err != nil {
			logger.Warn("record chat failed", zap.String("request_id", turn.RequestID), zap.Error(err))
		}
	}
}
