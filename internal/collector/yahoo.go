package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/tidwall/gjson"

	"StockLens/internal/calculator"
	"StockLens/internal/calendar"
	"StockLens/internal/filter"
	"StockLens/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API. Yahoo
// has no indicator endpoint, so SMA series are computed from daily closes.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	Now       func() time.Time
	// Zone is the exchange zone used when a response carries no timezone.
	Zone *time.Location
}

const exchangeZoneName = "America/New_York"

// exchangeZone loads the exchange's DST-aware zone, falling back to the
// fixed offset when the zone database is unavailable.
func exchangeZone() *time.Location {
	if loc, err := time.LoadLocation(exchangeZoneName); err == nil {
		return loc
	}
	return calendar.Exchange
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, now func() time.Time) *YahooFetcher {
	if now == nil {
		now = time.Now
	}
	return &YahooFetcher{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX":   "^GSPC",
			"SP500": "^GSPC",
		},
		Now:  now,
		Zone: exchangeZone(),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	body, err := f.fetchChart(ctx, symbol, url.Values{"interval": {"1d"}, "range": {"1d"}})
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	meta := gjson.GetBytes(body, "chart.result.0.meta")
	price := meta.Get("regularMarketPrice").Float()
	prev := meta.Get("chartPreviousClose").Float()
	q := &model.Quote{
		Symbol:  symbol,
		Name:    meta.Get("shortName").String(),
		Price:   price,
		Open:    gjson.GetBytes(body, "chart.result.0.indicators.quote.0.open.0").Float(),
		DayLow:  meta.Get("regularMarketDayLow").Float(),
		DayHigh: meta.Get("regularMarketDayHigh").Float(),
	}
	if prev != 0 {
		q.ChangePct = (price - prev) / prev * 100
	}
	return q, nil
}

func (f *YahooFetcher) FetchIntraday(ctx context.Context, symbol string, day time.Time) (model.Series, error) {
	d := day.In(calendar.Exchange)
	start := time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, f.zone())
	body, err := f.fetchChart(ctx, symbol, url.Values{
		"interval": {"5m"},
		"period1":  {strconv.FormatInt(start.Unix(), 10)},
		"period2":  {strconv.FormatInt(start.Add(8*time.Hour).Unix(), 10)},
	})
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch intraday: %w", err)
	}
	return model.Chronological(closes(body, f.zone(), intradayStamp)), nil
}

func (f *YahooFetcher) FetchDaily(ctx context.Context, symbol string, from, to time.Time) (model.Series, error) {
	body, err := f.fetchChart(ctx, symbol, url.Values{
		"interval": {"1d"},
		"period1":  {strconv.FormatInt(from.Unix(), 10)},
		"period2":  {strconv.FormatInt(to.AddDate(0, 0, 1).Unix(), 10)},
	})
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch daily: %w", err)
	}
	return model.Chronological(closes(body, f.zone(), dailyStamp)), nil
}

// FetchSMA computes the SMA over roughly a year of daily closes plus the
// warm-up the period needs.
func (f *YahooFetcher) FetchSMA(ctx context.Context, symbol string, period int) (model.Series, error) {
	to := f.Now()
	from := to.AddDate(0, 0, -(366 + 2*period))
	daily, err := f.FetchDaily(ctx, symbol, from, to)
	if err != nil {
		return model.Series{}, err
	}
	sma, err := calculator.SMASeries(daily, period)
	if err != nil {
		return model.Series{}, fmt.Errorf("compute sma(%d): %w", period, err)
	}
	return sma, nil
}

func intradayStamp(t time.Time) string { return t.Format(filter.TimestampLayout) }

// dailyStamp stamps daily bars at midnight, matching the provider format
// used for indicator series.
func dailyStamp(t time.Time) string { return t.Format(calendar.DateLayout) + " 00:00:00" }

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, query url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if desc := gjson.GetBytes(body, "chart.error.description"); desc.Exists() {
		return nil, fmt.Errorf("yahoo api error: %s", desc.String())
	}
	return body, nil
}

func (f *YahooFetcher) zone() *time.Location {
	if f.Zone == nil {
		return calendar.Exchange
	}
	return f.Zone
}

// chartZone is the zone the response's instants are rendered in: the named
// exchange zone if it loads, else the reported gmtoffset, else fallback.
func chartZone(body []byte, fallback *time.Location) *time.Location {
	meta := gjson.GetBytes(body, "chart.result.0.meta")
	if name := meta.Get("exchangeTimezoneName").String(); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if off := meta.Get("gmtoffset"); off.Type == gjson.Number {
		return time.FixedZone(meta.Get("timezone").String(), int(off.Int()))
	}
	return fallback
}

// closes pairs the chart timestamps with their closes as exchange
// wall-clock strings, skipping null bars (holidays, halts).
func closes(body []byte, fallback *time.Location, stamp func(time.Time) string) []model.Observation {
	loc := chartZone(body, fallback)
	timestamps := gjson.GetBytes(body, "chart.result.0.timestamp").Array()
	values := gjson.GetBytes(body, "chart.result.0.indicators.quote.0.close").Array()

	out := make([]model.Observation, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(values) || values[i].Type != gjson.Number {
			continue
		}
		t := time.Unix(ts.Int(), 0).In(loc)
		out = append(out, model.Observation{Timestamp: stamp(t), Value: values[i].Float()})
	}
	return out
}
