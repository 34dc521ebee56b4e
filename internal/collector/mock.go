package collector

import (
	"context"
	"fmt"
	"time"

	"StockLens/internal/calendar"
	"StockLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Series are served newest first, the way the FMP provider returns them.
type MockFetcher struct {
	Quotes   map[string]model.Quote
	Intraday map[string][]model.Observation // keyed by YYYY-MM-DD
	Daily    []model.Observation
	SMA      map[int][]model.Observation
	Err      error

	IntradayCalls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	q, ok := m.Quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no quote for %s", symbol)
	}
	return &q, nil
}

func (m *MockFetcher) FetchIntraday(_ context.Context, _ string, day time.Time) (model.Series, error) {
	if m.Err != nil {
		return model.Series{}, m.Err
	}
	key := calendar.FormatDate(day)
	m.IntradayCalls = append(m.IntradayCalls, key)
	return model.NewestFirst(m.Intraday[key]), nil
}

func (m *MockFetcher) FetchDaily(_ context.Context, _ string, from, to time.Time) (model.Series, error) {
	if m.Err != nil {
		return model.Series{}, m.Err
	}
	lo, hi := calendar.FormatDate(from), calendar.FormatDate(to)
	var out []model.Observation
	for _, o := range m.Daily {
		if d := o.Timestamp[:min(len(o.Timestamp), len(calendar.DateLayout))]; d >= lo && d <= hi {
			out = append(out, o)
		}
	}
	return model.NewestFirst(out), nil
}

func (m *MockFetcher) FetchSMA(_ context.Context, _ string, period int) (model.Series, error) {
	if m.Err != nil {
		return model.Series{}, m.Err
	}
	return model.NewestFirst(m.SMA[period]), nil
}
