package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockPulse/internal/model"
)

// RESTProvider implements Provider against a JSON quote gateway exposing
// /api/v1/quote and /api/v1/bars/daily.
type RESTProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTProvider creates a gateway provider with optional proxy support.
func NewRESTProvider(baseURL, apiKey, proxyURL string) *RESTProvider {
	return &RESTProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (p *RESTProvider) Name() string { return "rest" }

// restQuote is the expected JSON shape of the quote endpoint.
type restQuote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	ShortName     string   `json:"short_name"`
	Price         *float64 `json:"price"`
	ChangePercent *float64 `json:"change_percent"`
	Volume        *int64   `json:"volume"`
	MarketCap     *float64 `json:"market_cap"`
	TrailingPE    *float64 `json:"trailing_pe"`
	ForwardPE     *float64 `json:"forward_pe"`
	DividendYield *float64 `json:"dividend_yield"`
}

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (p *RESTProvider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	var rq restQuote
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", p.BaseURL, url.QueryEscape(symbol))
	if err := p.getJSON(ctx, endpoint, &rq); err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}

	q := &Quote{
		Symbol:        symbol,
		LongName:      rq.Name,
		ShortName:     rq.ShortName,
		Price:         rq.Price,
		ChangePercent: rq.ChangePercent,
		Volume:        rq.Volume,
		MarketCap:     rq.MarketCap,
		TrailingPE:    rq.TrailingPE,
		ForwardPE:     rq.ForwardPE,
		DividendYield: rq.DividendYield,
	}

	// Bars are optional; a quote without history is still usable.
	var bars []restBar
	endpoint = fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", p.BaseURL, url.QueryEscape(symbol), historyBars)
	if err := p.getJSON(ctx, endpoint, &bars); err == nil {
		q.History = make([]model.Bar, len(bars))
		for i, b := range bars {
			q.History[i] = model.Bar{
				Time:   time.Unix(b.Timestamp, 0).UTC(),
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			}
		}
		// Ensure chronological order
		sort.Slice(q.History, func(i, j int) bool { return q.History[i].Time.Before(q.History[j].Time) })
	}
	return q, nil
}

func (p *RESTProvider) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
