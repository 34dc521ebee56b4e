// Package window turns raw price series into chart-ready windows for the
// intraday, one-month and one-year views.
package window

import (
	"fmt"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/calendar"
	"StockLens/internal/filter"
	"StockLens/internal/model"
)

const (
	intradaySlots     = 7
	yearLabelInterval = 60

	monthLabelLayout = "Jan 2"
	yearLabelLayout  = "Jan 2006"
)

// IntradayLabels are the fixed x-axis annotations of the intraday view.
var IntradayLabels = []string{"09:30", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}

// Intraday maps 5-minute bars of a single session onto x in [0, 7] by
// minutes elapsed since the open. Bars from other days, before the open or
// after the close are dropped.
func Intraday(symbol string, day time.Time, bars model.Series) model.ChartWindow {
	open := calendar.SessionOpen(day)
	src := bars.InOrder(model.OrderChronological)

	points := make([]model.Point, 0, src.Len())
	for _, obs := range src.Observations {
		ts, err := filter.ParseTimestamp(obs.Timestamp)
		if err != nil || !filter.Finite(obs.Value) {
			continue
		}
		if y, m, d := ts.Date(); y != open.Year() || m != open.Month() || d != open.Day() {
			continue
		}
		minutes := ts.Sub(open).Minutes()
		if minutes < 0 || minutes > calendar.SessionMinutes {
			continue
		}
		points = append(points, model.Point{X: minutes / calendar.SessionMinutes * intradaySlots, Y: obs.Value})
	}

	w, ok := build(model.WindowIntraday, points)
	if !ok {
		return w
	}
	w.Title = fmt.Sprintf("%s intraday %s", symbol, calendar.FormatDate(day))
	w.XLabels = append([]string(nil), IntradayLabels...)
	w.XBounds = model.Range{Min: 0, Max: intradaySlots}
	return w
}

// Month indexes roughly thirty daily bars oldest first and labels every
// Monday.
func Month(symbol string, bars model.Series) model.ChartWindow {
	return daily(model.WindowMonth, fmt.Sprintf("%s 1 month", symbol), bars, func(i int, t time.Time) (string, bool) {
		if t.Weekday() != time.Monday {
			return "", false
		}
		return t.Format(monthLabelLayout), true
	})
}

// Year indexes roughly a year of daily bars oldest first and labels every
// sixtieth sample, about once a quarter.
func Year(symbol string, bars model.Series) model.ChartWindow {
	return daily(model.WindowYear, fmt.Sprintf("%s 1 year", symbol), bars, func(i int, t time.Time) (string, bool) {
		if i%yearLabelInterval != 0 {
			return "", false
		}
		return t.Format(yearLabelLayout), true
	})
}

type labelFunc func(index int, t time.Time) (string, bool)

func daily(kind model.WindowKind, title string, bars model.Series, label labelFunc) model.ChartWindow {
	src := bars.InOrder(model.OrderChronological)

	points := make([]model.Point, 0, src.Len())
	var labels []string
	for _, obs := range src.Observations {
		ts, err := filter.ParseTimestamp(obs.Timestamp)
		if err != nil || !filter.Finite(obs.Value) {
			continue
		}
		i := len(points)
		points = append(points, model.Point{X: float64(i), Y: obs.Value})
		if l, ok := label(i, ts); ok {
			labels = append(labels, l)
		}
	}

	w, ok := build(kind, points)
	if !ok {
		return w
	}
	w.Title = title
	w.XLabels = labels
	w.XBounds = model.Range{Min: 0, Max: float64(len(points) - 1)}
	return w
}

// build fills in points and y bounds, or returns the empty window.
func build(kind model.WindowKind, points []model.Point) (model.ChartWindow, bool) {
	b, err := calculator.CalculateBounds(points, nil)
	if err != nil {
		return model.EmptyWindow(kind), false
	}
	return model.ChartWindow{Kind: kind, Points: points, YBounds: b.Y}, true
}

// Build dispatches on kind. day is only used by the intraday view.
func Build(kind model.WindowKind, symbol string, day time.Time, bars model.Series) model.ChartWindow {
	switch kind {
	case model.WindowIntraday:
		return Intraday(symbol, day, bars)
	case model.WindowYear:
		return Year(symbol, bars)
	default:
		return Month(symbol, bars)
	}
}
