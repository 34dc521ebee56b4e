package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/calendar"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
	"StockLens/internal/watchlist"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

// smaDays lays values out newest first, ending on 2024-03-13.
func smaDays(values ...float64) []model.Observation {
	end := time.Date(2024, time.March, 13, 0, 0, 0, 0, calendar.Exchange)
	out := make([]model.Observation, len(values))
	for i, v := range values {
		day := end.AddDate(0, 0, -(len(values) - 1 - i))
		out[len(values)-1-i] = model.Observation{Timestamp: calendar.FormatDate(day) + " 00:00:00", Value: v}
	}
	return out
}

func newTestScheduler(t *testing.T, fetcher *collector.MockFetcher, symbols ...string) (*Scheduler, *fakeSender) {
	t.Helper()
	now := time.Date(2024, time.March, 13, 12, 0, 0, 0, calendar.Exchange)
	col := collector.NewCollector(fetcher, calendar.NewResolver(func() time.Time { return now }, 3), nil)

	wl, err := watchlist.NewManager(filepath.Join(t.TempDir(), "watchlist.json"), symbols)
	require.NoError(t, err)

	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "stocklens.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	sender := &fakeSender{}
	return NewScheduler(context.Background(), col, wl, sender, rec, nil, 5, 20), sender
}

func crossingFetcher() *collector.MockFetcher {
	return &collector.MockFetcher{
		SMA: map[int][]model.Observation{
			5:  smaDays(1, 3, 2, 4),
			20: smaDays(2, 2, 3, 3),
		},
		Quotes: map[string]model.Quote{"AAPL": {Symbol: "AAPL", Name: "Apple", Price: 170}},
	}
}

func TestRunScan_RecordsAndAlertsOnce(t *testing.T) {
	s, sender := newTestScheduler(t, crossingFetcher(), "AAPL")

	run, err := s.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Symbols)
	assert.Equal(t, 0, run.Failed)
	assert.Equal(t, 3, run.NewEvents)
	require.Len(t, sender.msgs, 1)
	assert.Contains(t, sender.msgs[0], "AAPL</b> golden cross SMA5/SMA20 on 2024-03-10")
	assert.Contains(t, sender.msgs[0], "death cross")

	run, err = s.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, run.NewEvents)
	assert.Len(t, sender.msgs, 1, "known crossovers must not alert again")
}

func TestRunScan_CountsFailures(t *testing.T) {
	f := crossingFetcher()
	f.Err = errors.New("provider down")
	s, sender := newTestScheduler(t, f, "AAPL", "MSFT")

	run, err := s.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, run.Failed)
	assert.Empty(t, sender.msgs)
}

func TestRunScan_RejectsConcurrentScan(t *testing.T) {
	s, _ := newTestScheduler(t, crossingFetcher(), "AAPL")
	s.scanning.Lock()
	defer s.scanning.Unlock()

	_, err := s.RunScan(context.Background())
	assert.ErrorIs(t, err, ErrScanRunning)
	assert.Contains(t, s.HandleCommand(context.Background(), "/scan"), "scan already running")
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t, crossingFetcher())
	assert.NoError(t, s.RegisterAll("0 30 21 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.RegisterAll("not a cron"))
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t, crossingFetcher(), "AAPL")
	ctx := context.Background()

	tests := []struct {
		command string
		want    string
	}{
		{"/watchlist", "• AAPL"},
		{"/add msft", "Watching MSFT"},
		{"/add MSFT", "already watched"},
		{"/remove tsla", "not watched"},
		{"/remove msft", "Removed MSFT"},
		{"/add", "Usage: /add SYMBOL"},
		{"/quote AAPL", "$170.00"},
		{"/quote", "Usage: /quote SYMBOL"},
		{"/cross aapl", "SMA5 / SMA20"},
		{"/cross@StockLensBot AAPL", "GOLDEN"},
		{"/chart AAPL year", "not enough data"},
		{"/chart AAPL decade", "Usage: /chart"},
		{"/scan", "Scan finished"},
		{"hello", "/watchlist"},
		{"", "<b>Commands</b>"},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.command), func(t *testing.T) {
			assert.Contains(t, s.HandleCommand(ctx, tt.command), tt.want)
		})
	}
}

func TestHandleCommand_CrossWithoutData(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{})
	assert.Equal(t, "<b>IBM</b>: SMA data not available", s.HandleCommand(context.Background(), "/cross IBM"))
}

func TestRunScan_NoopRecorderAlertsOnce(t *testing.T) {
	s, sender := newTestScheduler(t, crossingFetcher(), "AAPL")
	s.Recorder = recorder.NewNoopRecorder()

	run, err := s.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, run.NewEvents)

	run, err = s.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, run.NewEvents)
	assert.Len(t, sender.msgs, 1)
}

func TestNewScheduler_EvaluatesCronInUTC(t *testing.T) {
	s, _ := newTestScheduler(t, crossingFetcher())
	assert.Equal(t, time.UTC, s.Cron.Location())

	require.NoError(t, s.RegisterAll("0 30 21 * * 1-5"))
	// Friday 2024-03-15 12:00 UTC; next run is 21:30 UTC the same day.
	from := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	next := s.Cron.Entries()[0].Schedule.Next(from)
	assert.Equal(t, time.Date(2024, time.March, 15, 21, 30, 0, 0, time.UTC), next)
}
