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

	"go.uber.org/zap"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using the Yahoo Finance public API.
// The chart endpoint supplies metadata and bars; the quote endpoint adds
// fundamentals when it answers.
type YahooProvider struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewYahooProvider creates a Yahoo Finance provider with optional proxy support.
func NewYahooProvider(proxyURL string, logger *zap.Logger) *YahooProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YahooProvider{
		BaseURL: defaultYahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		Logger:  logger,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol              string   `json:"symbol"`
				LongName            string   `json:"longName"`
				ShortName           string   `json:"shortName"`
				RegularMarketPrice  *float64 `json:"regularMarketPrice"`
				RegularMarketVolume *int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooQuote is the response structure from Yahoo Finance quote API.
type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
			MarketCap                  *float64 `json:"marketCap"`
			TrailingPE                 *float64 `json:"trailingPE"`
			ForwardPE                  *float64 `json:"forwardPE"`
			DividendYield              *float64 `json:"dividendYield"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []interface{}, i int) interface{} {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

// Quote fetches one year of daily bars plus quote metadata for symbol.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1y", p.BaseURL, url.PathEscape(symbol))
	body, err := p.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return &Quote{Symbol: symbol}, nil
	}

	result := chart.Chart.Result[0]
	q := &Quote{
		Symbol:              symbol,
		LongName:            result.Meta.LongName,
		ShortName:           result.Meta.ShortName,
		Price:               result.Meta.RegularMarketPrice,
		RegularMarketVolume: result.Meta.RegularMarketVolume,
	}

	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		bars := make([]model.Bar, 0, len(result.Timestamp))
		for i, ts := range result.Timestamp {
			o := toFloat(at(quote.Open, i))
			h := toFloat(at(quote.High, i))
			l := toFloat(at(quote.Low, i))
			c := toFloat(at(quote.Close, i))
			if o == 0 && h == 0 && l == 0 && c == 0 {
				continue // skip null bars (holidays etc.)
			}
			bars = append(bars, model.Bar{
				Time:   time.Unix(ts, 0).UTC(),
				Open:   o,
				High:   h,
				Low:    l,
				Close:  c,
				Volume: toFloat(at(quote.Volume, i)),
			})
		}
		sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
		q.History = bars
	}

	if n := len(q.History); n > 0 {
		v := int64(q.History[n-1].Volume)
		q.Volume = &v
		if n > 1 && q.Price != nil && q.History[n-2].Close > 0 {
			prev := q.History[n-2].Close
			chg := (*q.Price - prev) / prev * 100
			q.ChangePercent = &chg
		}
	}

	p.enrich(ctx, q)
	return q, nil
}

// enrich adds fundamentals from the quote endpoint. It is best effort: the
// endpoint often rejects anonymous callers and the chart data stands alone.
func (p *YahooProvider) enrich(ctx context.Context, q *Quote) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", p.BaseURL, url.QueryEscape(q.Symbol))
	body, err := p.get(ctx, u)
	if err != nil {
		p.Logger.Debug("yahoo quote enrichment skipped", zap.String("symbol", q.Symbol), zap.Error(err))
		return
	}
	var yq yahooQuote
	if err := json.Unmarshal(body, &yq); err != nil || len(yq.QuoteResponse.Result) == 0 {
		return
	}
	r := yq.QuoteResponse.Result[0]
	if r.RegularMarketChangePercent != nil {
		q.ChangePercent = r.RegularMarketChangePercent
	}
	q.MarketCap = r.MarketCap
	q.TrailingPE = r.TrailingPE
	q.ForwardPE = r.ForwardPE
	q.DividendYield = r.DividendYield
}

func (p *YahooProvider) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: %w", &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)})
	}
	return body, nil
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
