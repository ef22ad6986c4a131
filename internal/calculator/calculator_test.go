package calculator

import (
	"testing"

	"StockPulse/internal/model"
)

func barsFromCloses(closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return bars
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4.5 {
		t.Errorf("expected 4.5, got %.2f", got)
	}
	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA(nil, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	rsi, err := CalculateRSI(barsFromCloses(rising...), 14)
	if err != nil {
		t.Fatal(err)
	}
	if rsi != 100 {
		t.Errorf("expected RSI 100 for monotonic rise, got %.2f", rsi)
	}

	short, _ := CalculateRSI(barsFromCloses(1, 2, 3), 14)
	if short != 50 {
		t.Errorf("expected default 50 for short series, got %.2f", short)
	}
}

func TestCalculateRangeAndPosition(t *testing.T) {
	bars := barsFromCloses(10, 20, 30, 40)
	high, low, err := CalculateRange(bars, 2)
	if err != nil {
		t.Fatal(err)
	}
	if high != 41 || low != 29 {
		t.Errorf("expected 41/29, got %.0f/%.0f", high, low)
	}

	tests := []struct {
		cur, high, low, want float64
	}{
		{35, 41, 29, 0.5},
		{10, 41, 29, 0},
		{50, 41, 29, 1},
		{5, 5, 5, 0.5},
	}
	for _, tt := range tests {
		got, err := CalculateRangePosition(tt.cur, tt.high, tt.low)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("position(%.0f, %.0f, %.0f): expected %.2f, got %.2f", tt.cur, tt.high, tt.low, tt.want, got)
		}
	}
	if _, _, err := CalculateRange(nil, 5); err == nil {
		t.Error("expected error for empty bars")
	}
}
