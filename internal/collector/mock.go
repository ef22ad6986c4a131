package collector

import (
	"context"
	"sync"
	"time"

	"StockPulse/internal/model"
)

// MockProvider returns scripted results for development and testing. Each
// call consumes the next entry of Script; once exhausted the last entry
// repeats. With an empty script it generates a quote around Price.
type MockProvider struct {
	Price  float64
	Script []MockResult

	mu    sync.Mutex
	calls int
}

// MockResult is one scripted provider answer.
type MockResult struct {
	Quote *Quote
	Err   error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Quote(_ context.Context, symbol string) (*Quote, error) {
	m.mu.Lock()
	idx := m.calls
	m.calls++
	m.mu.Unlock()

	if len(m.Script) > 0 {
		if idx >= len(m.Script) {
			idx = len(m.Script) - 1
		}
		r := m.Script[idx]
		return r.Quote, r.Err
	}

	price := m.Price
	if price == 0 {
		price = 100
	}
	bars := generateMockBars(price, historyBars)
	vol := int64(1000000)
	return &Quote{
		Symbol:    symbol,
		ShortName: symbol,
		Price:     &price,
		Volume:    &vol,
		History:   bars,
	}, nil
}

// Calls reports how many times Quote was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func generateMockBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
