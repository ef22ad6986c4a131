package collector

import (
	"errors"
	"strings"
)

var (
	ErrSymbolRequired = errors.New("stock symbol is required")
	ErrSymbolFormat   = errors.New("invalid stock symbol format")
)

// NormalizeSymbol trims and upper-cases raw, clamps it to MaxSymbolLength
// characters and accepts only ASCII letters, digits, '.' and '-'.
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrSymbolRequired
	}
	if r := []rune(s); len(r) > MaxSymbolLength {
		s = string(r[:MaxSymbolLength])
	}
	alnum := false
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			alnum = true
		case c == '.' || c == '-':
		default:
			return "", ErrSymbolFormat
		}
	}
	if !alnum {
		return "", ErrSymbolFormat
	}
	return s, nil
}

// UserMessage returns the text shown to an end user for a symbol or fetch
// error.
func UserMessage(err error) string {
	var fe *FetchError
	switch {
	case errors.Is(err, ErrSymbolRequired):
		return "Stock symbol is required"
	case errors.Is(err, ErrSymbolFormat):
		return "Invalid stock symbol format"
	case errors.As(err, &fe):
		return fe.UserMessage()
	default:
		return "Market data temporarily unavailable"
	}
}
