package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/calendar"
	"StockLens/internal/model"
)

// fixedResolver pins the clock to Wednesday 2024-03-13 12:00 exchange time.
func fixedResolver() *calendar.Resolver {
	now := time.Date(2024, time.March, 13, 12, 0, 0, 0, calendar.Exchange)
	return calendar.NewResolver(func() time.Time { return now }, 5)
}

// newestFirst builds provider-ordered observations ending on 2024-03-13.
func newestFirst(values ...float64) []model.Observation {
	end := time.Date(2024, time.March, 13, 0, 0, 0, 0, calendar.Exchange)
	obs := make([]model.Observation, len(values))
	for i, v := range values {
		day := end.AddDate(0, 0, -(len(values) - 1 - i))
		obs[len(values)-1-i] = model.Observation{Timestamp: day.Format("2006-01-02") + " 00:00:00", Value: v}
	}
	return obs
}

func TestCollector_Crossovers(t *testing.T) {
	m := &MockFetcher{SMA: map[int][]model.Observation{
		5:  newestFirst(1, 3, 2, 4),
		20: newestFirst(2, 2, 3, 3),
	}}
	// A stale sample from last year must be filtered out.
	m.SMA[5] = append(m.SMA[5], model.Observation{Timestamp: "2023-12-29 00:00:00", Value: 50})

	c := NewCollector(m, fixedResolver(), nil)
	rep, err := c.Crossovers(context.Background(), "AAPL", 5, 20)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Short.Len())
	assert.Equal(t, model.OrderChronological, rep.Short.Order)
	assert.Equal(t, "2024-03-10", rep.Short.Observations[0].Timestamp)
	require.Len(t, rep.Death, 1)
	assert.Equal(t, "2024-03-11", rep.Death[0].Date)
	require.NotEmpty(t, rep.Golden)
	assert.Equal(t, "2024-03-10", rep.Golden[0].Date)

	assert.Equal(t, model.Range{Min: 0, Max: 3}, rep.Bounds.X)
	assert.Equal(t, model.Range{Min: 1, Max: 4}, rep.Bounds.Y)

	require.Len(t, rep.Compact.Short, 4)
	assert.Equal(t, 310.0, rep.Compact.Short[0].X)
	assert.Equal(t, model.Range{Min: 310, Max: 313}, rep.Compact.Bounds.X)
}

func TestCollector_CrossoversAlignsUnequalSeries(t *testing.T) {
	m := &MockFetcher{SMA: map[int][]model.Observation{
		5:  newestFirst(1, 3, 2, 4, 5),
		20: newestFirst(2, 2, 3, 3),
	}}
	rep, err := NewCollector(m, fixedResolver(), nil).Crossovers(context.Background(), "AAPL", 5, 20)
	require.NoError(t, err)
	assert.Equal(t, rep.Short.Len(), rep.Long.Len())
	assert.Equal(t, 4, rep.Short.Len())
}

func TestCollector_CrossoversInsufficientData(t *testing.T) {
	m := &MockFetcher{SMA: map[int][]model.Observation{5: newestFirst(1, 2)}}
	_, err := NewCollector(m, fixedResolver(), nil).Crossovers(context.Background(), "AAPL", 5, 20)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCollector_CrossoversProviderError(t *testing.T) {
	boom := errors.New("provider down")
	_, err := NewCollector(&MockFetcher{Err: boom}, fixedResolver(), nil).Crossovers(context.Background(), "AAPL", 5, 20)
	assert.ErrorIs(t, err, boom)
}

func TestCollector_IntradayStepsBackOverHoliday(t *testing.T) {
	m := &MockFetcher{Intraday: map[string][]model.Observation{
		"2024-03-11": {
			{Timestamp: "2024-03-11 10:00:00", Value: 2},
			{Timestamp: "2024-03-11 09:30:00", Value: 1},
		},
	}}
	w, err := NewCollector(m, fixedResolver(), nil).Window(context.Background(), "AAPL", model.WindowIntraday)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-13", "2024-03-12", "2024-03-11"}, m.IntradayCalls)
	assert.Equal(t, "AAPL intraday 2024-03-11", w.Title)
	assert.Len(t, w.Points, 2)
}

func TestCollector_IntradayLookbackExhausted(t *testing.T) {
	m := &MockFetcher{}
	w, err := NewCollector(m, fixedResolver(), nil).Window(context.Background(), "AAPL", model.WindowIntraday)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, err, calendar.ErrLookbackExhausted)
	assert.False(t, w.HasData())
	assert.Len(t, m.IntradayCalls, 6)
}

func TestCollector_MonthWindow(t *testing.T) {
	var daily []model.Observation
	for d := 20; d >= 1; d-- {
		daily = append(daily, model.Observation{Timestamp: fmt.Sprintf("2024-03-%02d", d), Value: float64(d)})
	}
	m := &MockFetcher{Daily: daily}
	w, err := NewCollector(m, fixedResolver(), nil).Window(context.Background(), "AAPL", model.WindowMonth)
	require.NoError(t, err)
	// Requested range ends on the resolved day, 2024-03-13.
	require.Len(t, w.Points, 13)
	assert.Equal(t, 1.0, w.Points[0].Y)
	assert.Equal(t, []string{"Mar 4", "Mar 11"}, w.XLabels)
}

func TestCollector_EmptyYearWindow(t *testing.T) {
	w, err := NewCollector(&MockFetcher{}, fixedResolver(), nil).Window(context.Background(), "AAPL", model.WindowYear)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Equal(t, model.NoDataTitle, w.Title)
}
