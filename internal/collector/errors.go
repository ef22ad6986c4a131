package collector

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidSymbol = errors.New("invalid stock symbol")
	ErrRateLimited   = errors.New("upstream rate limit reached")
	ErrNotFound      = errors.New("symbol not found")
	ErrUnavailable   = errors.New("market data unavailable")

	errNoData = errors.New("no quote metadata returned")
)

// StatusError is returned by providers for non-200 upstream responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("status %d %s, body: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// FetchError is the classified failure of a snapshot fetch. Kind is one of
// the Err* sentinels and matches with errors.Is.
type FetchError struct {
	Kind        error
	Symbol      string
	Err         error
	Suggestions []string
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %v: %v", e.Symbol, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage returns guidance text suitable for showing to an end user.
func (e *FetchError) UserMessage() string {
	try := strings.Join(e.Suggestions, ", ")
	switch e.Kind {
	case ErrInvalidSymbol:
		return "Invalid stock symbol"
	case ErrRateLimited:
		return fmt.Sprintf("Rate limit reached for %s. Try waiting 10-15 minutes, or use supported demo symbols: %s.", e.Symbol, try)
	case ErrNotFound:
		return fmt.Sprintf("Stock symbol %s not found. Try supported symbols: %s.", e.Symbol, try)
	default:
		return fmt.Sprintf("Unable to fetch data for %s. API temporarily unavailable. Try: %s.", e.Symbol, try)
	}
}

// classify maps the last upstream failure onto a sentinel kind.
func classify(err error) error {
	if err == nil {
		return ErrUnavailable
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests:
			return ErrRateLimited
		case http.StatusNotFound:
			return ErrNotFound
		}
	}
	if errors.Is(err, errNoData) {
		return ErrNotFound
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "Too Many Requests"):
		return ErrRateLimited
	case strings.Contains(msg, "404") || strings.Contains(strings.ToLower(msg), "not found"):
		return ErrNotFound
	default:
		return ErrUnavailable
	}
}
