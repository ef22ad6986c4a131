package collector

import (
	"sort"
	"strings"

	"StockPulse/internal/model"
)

// FallbackNote is attached to every snapshot served from the reference table.
const FallbackNote = "📊 Demo Mode: live market data is temporarily unavailable. Showing sample data."

// ReferenceTable is a read-only set of canned snapshots used when the live
// provider cannot be reached.
type ReferenceTable struct {
	entries map[string]*model.Snapshot
}

// NewReferenceTable builds a table keyed by upper-cased symbol.
func NewReferenceTable(snaps ...*model.Snapshot) *ReferenceTable {
	t := &ReferenceTable{entries: make(map[string]*model.Snapshot, len(snaps))}
	for _, s := range snaps {
		c := s.Clone()
		c.Symbol = strings.ToUpper(c.Symbol)
		if c.History == nil {
			c.History = []model.Bar{}
		}
		t.entries[c.Symbol] = c
	}
	return t
}

// DefaultReferenceTable returns the built-in demo symbols.
func DefaultReferenceTable() *ReferenceTable {
	return NewReferenceTable(
		&model.Snapshot{Symbol: "AMZN", Name: "Amazon.com Inc", Price: 145.86, ChangePercent: -1.2,
			Volume: 45234567, MarketCap: model.Float(1523000000000), PERatio: model.Float(47.3), DividendYield: 0.0},
		&model.Snapshot{Symbol: "TSLA", Name: "Tesla Inc", Price: 248.50, ChangePercent: 2.8,
			Volume: 78456123, MarketCap: model.Float(789000000000), PERatio: model.Float(62.4), DividendYield: 0.0},
		&model.Snapshot{Symbol: "AAPL", Name: "Apple Inc", Price: 221.27, ChangePercent: 0.8,
			Volume: 34567890, MarketCap: model.Float(3400000000000), PERatio: model.Float(33.7), DividendYield: 0.44},
		&model.Snapshot{Symbol: "GOOGL", Name: "Alphabet Inc", Price: 163.74, ChangePercent: 1.5,
			Volume: 23456789, MarketCap: model.Float(2100000000000), PERatio: model.Float(24.8), DividendYield: 0.0},
		&model.Snapshot{Symbol: "MSFT", Name: "Microsoft Corporation", Price: 416.42, ChangePercent: 0.6,
			Volume: 19876543, MarketCap: model.Float(3100000000000), PERatio: model.Float(35.2), DividendYield: 0.72},
	)
}

// Lookup returns a copy of the canned snapshot for symbol.
func (t *ReferenceTable) Lookup(symbol string) (*model.Snapshot, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.entries[strings.ToUpper(symbol)]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Symbols lists the table's symbols in sorted order.
func (t *ReferenceTable) Symbols() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.entries))
	for sym := range t.entries {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
