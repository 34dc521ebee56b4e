package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

func TestFormatCrossoverReport(t *testing.T) {
	rep := &model.CrossoverReport{
		Symbol:      "AAPL",
		ShortPeriod: 5,
		LongPeriod:  20,
		Short:       model.Chronological([]model.Observation{{Timestamp: "2024-03-11", Value: 3}, {Timestamp: "2024-03-12", Value: 4}}),
		Long:        model.Chronological([]model.Observation{{Timestamp: "2024-03-11", Value: 2}, {Timestamp: "2024-03-12", Value: 3}}),
		Golden:      []model.Crossover{{Date: "2024-03-08", Value: 2, Kind: model.CrossGolden, Position: 0.5}},
		Death:       []model.Crossover{{Date: "2024-03-09", Value: 2.5, Kind: model.CrossDeath, Position: 1.5}},
	}
	msg := FormatCrossoverReport(rep)

	assert.Contains(t, msg, "<b>AAPL</b> SMA5 / SMA20")
	assert.Contains(t, msg, "short 4.00 | long 3.00")
	assert.Contains(t, msg, "<pre>")
	assert.Contains(t, msg, "GOLDEN")
	assert.Contains(t, msg, "2.50")
	assert.Contains(t, msg, "Last: death:03-09: 2.50")
	assert.Less(t, strings.Index(msg, "GOLDEN"), strings.Index(msg, "DEATH"))
}

func TestFormatCrossoverReport_None(t *testing.T) {
	msg := FormatCrossoverReport(&model.CrossoverReport{Symbol: "MSFT", ShortPeriod: 5, LongPeriod: 20})
	assert.Contains(t, msg, "No crossovers this year.")
}

func TestFormatWindow(t *testing.T) {
	empty := FormatWindow("AAPL", model.EmptyWindow(model.WindowIntraday))
	assert.Equal(t, "<b>AAPL</b> intraday: not enough data", empty)

	w := model.ChartWindow{
		Kind:    model.WindowMonth,
		Title:   "AAPL 1 month",
		Points:  []model.Point{{X: 0, Y: 100}, {X: 1, Y: 110}},
		XLabels: []string{"Mar 4"},
		YBounds: model.Range{Min: 100, Max: 110},
	}
	msg := FormatWindow("AAPL", w)
	assert.Contains(t, msg, "AAPL 1 month")
	assert.Contains(t, msg, "Samples: 2")
	assert.Contains(t, msg, "+10.00%")
	assert.Contains(t, msg, "Mar 4")
}

func TestFormatWatchlist(t *testing.T) {
	assert.Contains(t, FormatWatchlist(nil), "empty")
	msg := FormatWatchlist([]string{"AAPL", "BRK.B"})
	assert.Contains(t, msg, "(2)")
	assert.Contains(t, msg, "• BRK.B")
}

func TestFormatAlertAndSummary(t *testing.T) {
	alert := FormatAlert(&recorder.CrossoverEvent{
		Symbol: "TSLA", ShortPeriod: 5, LongPeriod: 20,
		Kind: model.CrossDeath, Date: "2024-03-11", Value: 180.456,
	})
	assert.Equal(t, "🔴 <b>TSLA</b> death cross SMA5/SMA20 on 2024-03-11 at 180.46", alert)

	start := time.Unix(0, 0)
	summary := FormatScanSummary(&recorder.ScanRun{
		StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond),
		Symbols: 3, Failed: 1, NewEvents: 2,
	})
	assert.Contains(t, summary, "Symbols: 3 | failed: 1 | new crossovers: 2")
	assert.Contains(t, summary, "1.5s")
}

func TestFormatQuote(t *testing.T) {
	msg := FormatQuote(&model.Quote{Symbol: "AAPL", Price: 170.1, ChangePct: -0.5})
	assert.Contains(t, msg, "<b>AAPL</b> (AAPL)")
	assert.Contains(t, msg, "$170.10 (-0.50%)")
}
