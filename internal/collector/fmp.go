package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"StockLens/internal/calendar"
	"StockLens/internal/model"
)

// FMPFetcher implements Fetcher using the financialmodelingprep REST API.
// Provider field names are mapped onto model types here and nowhere else.
type FMPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFMPFetcher creates a new fetcher with optional proxy support.
func NewFMPFetcher(baseURL, apiKey, proxyURL string) *FMPFetcher {
	return &FMPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *FMPFetcher) Name() string { return "fmp" }

func (f *FMPFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	body, err := f.get(ctx, "/api/v3/quote/"+url.PathEscape(symbol), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	first := gjson.GetBytes(body, "0")
	if !first.Exists() {
		return nil, fmt.Errorf("fetch quote: no quote for %s", symbol)
	}
	return &model.Quote{
		Symbol:    first.Get("symbol").String(),
		Name:      first.Get("name").String(),
		Price:     first.Get("price").Float(),
		ChangePct: first.Get("changesPercentage").Float(),
		Open:      first.Get("open").Float(),
		DayLow:    first.Get("dayLow").Float(),
		DayHigh:   first.Get("dayHigh").Float(),
	}, nil
}

func (f *FMPFetcher) FetchIntraday(ctx context.Context, symbol string, day time.Time) (model.Series, error) {
	d := calendar.FormatDate(day)
	body, err := f.get(ctx, "/api/v3/historical-chart/5min/"+url.PathEscape(symbol), url.Values{
		"from": {d},
		"to":   {d},
	})
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch intraday: %w", err)
	}
	return model.NewestFirst(observations(gjson.ParseBytes(body), "close")), nil
}

func (f *FMPFetcher) FetchDaily(ctx context.Context, symbol string, from, to time.Time) (model.Series, error) {
	body, err := f.get(ctx, "/api/v3/historical-price-full/"+url.PathEscape(symbol), url.Values{
		"from": {calendar.FormatDate(from)},
		"to":   {calendar.FormatDate(to)},
	})
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch daily: %w", err)
	}
	return model.NewestFirst(observations(gjson.GetBytes(body, "historical"), "close")), nil
}

func (f *FMPFetcher) FetchSMA(ctx context.Context, symbol string, period int) (model.Series, error) {
	body, err := f.get(ctx, "/api/v3/technical_indicator/1day/"+url.PathEscape(symbol), url.Values{
		"period": {strconv.Itoa(period)},
		"type":   {"sma"},
	})
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch sma(%d): %w", period, err)
	}
	return model.NewestFirst(observations(gjson.ParseBytes(body), "sma")), nil
}

func (f *FMPFetcher) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json response")
	}
	if msg := gjson.GetBytes(body, "Error Message"); msg.Exists() {
		return nil, fmt.Errorf("api error: %s", msg.String())
	}
	return body, nil
}

// observations maps an array of {date, <valueField>} records. Records
// without a date or a numeric value are skipped.
func observations(arr gjson.Result, valueField string) []model.Observation {
	var out []model.Observation
	arr.ForEach(func(_, rec gjson.Result) bool {
		date := rec.Get("date")
		value := rec.Get(valueField)
		if date.Type != gjson.String || value.Type != gjson.Number {
			return true
		}
		out = append(out, model.Observation{Timestamp: date.String(), Value: value.Float()})
		return true
	})
	return out
}
