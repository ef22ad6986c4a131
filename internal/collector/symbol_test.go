package collector

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{" aapl ", "AAPL", nil},
		{"brk.b", "BRK.B", nil},
		{"BRK-B", "BRK-B", nil},
		{"abcdefghijkl", "ABCDEFGHIJ", nil},
		{"", "", ErrSymbolRequired},
		{"   ", "", ErrSymbolRequired},
		{"AA$L", "", ErrSymbolFormat},
		{"...", "", ErrSymbolFormat},
		{"ÄPPLE", "", ErrSymbolFormat},
	}
	for _, tt := range tests {
		got, err := NormalizeSymbol(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.ErrorIs(t, err, tt.err, tt.in)
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Stock symbol is required", UserMessage(ErrSymbolRequired))
	assert.Equal(t, "Invalid stock symbol format", UserMessage(fmt.Errorf("portfolio: %w", ErrSymbolFormat)))
	assert.Equal(t, "Stock symbol ZZZ not found. Try supported symbols: AAPL.",
		UserMessage(&FetchError{Kind: ErrNotFound, Symbol: "ZZZ", Suggestions: []string{"AAPL"}}))
	assert.Equal(t, "Market data temporarily unavailable", UserMessage(errors.New("boom")))
}
