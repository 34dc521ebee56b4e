// Package filter parses provider timestamps and projects observation
// series onto the keys the chart and crossover code consume.
package filter

import (
	"fmt"
	"math"
	"time"

	"StockLens/internal/calendar"
	"StockLens/internal/model"
)

// TimestampLayout is the provider's full timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp accepts either a full provider timestamp or a bare date,
// interpreted in exchange time.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(TimestampLayout, s, calendar.Exchange); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(calendar.DateLayout, s, calendar.Exchange)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// parseDatePrefix parses the leading YYYY-MM-DD of s.
func parseDatePrefix(s string) (time.Time, error) {
	if len(s) < len(calendar.DateLayout) {
		return time.Time{}, fmt.Errorf("parse date %q: too short", s)
	}
	return time.ParseInLocation(calendar.DateLayout, s[:len(calendar.DateLayout)], calendar.Exchange)
}

// Finite reports whether v is usable as a chart coordinate.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CompactPoint maps an observation with a full timestamp in the target
// year onto (month*100+day, value). Keys only sort correctly within a
// single year.
func CompactPoint(obs model.Observation, year int) (model.Point, bool) {
	t, err := time.ParseInLocation(TimestampLayout, obs.Timestamp, calendar.Exchange)
	if err != nil || t.Year() != year || !Finite(obs.Value) {
		return model.Point{}, false
	}
	return model.Point{X: float64(int(t.Month())*100 + t.Day()), Y: obs.Value}, true
}

// CompactKey applies CompactPoint to every observation, dropping the ones
// that do not map. Series order is preserved.
func CompactKey(s model.Series, year int) []model.Point {
	points := make([]model.Point, 0, s.Len())
	for _, obs := range s.Observations {
		if p, ok := CompactPoint(obs, year); ok {
			points = append(points, p)
		}
	}
	return points
}

// Chronological keeps the observations dated in year, rewrites their
// timestamps as ISO dates and returns them oldest first.
func Chronological(s model.Series, year int) model.Series {
	src := s.InOrder(model.OrderChronological)
	out := make([]model.Observation, 0, src.Len())
	for _, obs := range src.Observations {
		t, err := parseDatePrefix(obs.Timestamp)
		if err != nil || t.Year() != year || !Finite(obs.Value) {
			continue
		}
		out = append(out, model.Observation{Timestamp: t.Format(calendar.DateLayout), Value: obs.Value})
	}
	return model.Chronological(out)
}

// AlignByDate keeps only the timestamps present in both series, so the
// results are index-aligned. Each result keeps its input order.
func AlignByDate(a, b model.Series) (model.Series, model.Series) {
	inA := make(map[string]struct{}, a.Len())
	for _, o := range a.Observations {
		inA[o.Timestamp] = struct{}{}
	}
	inBoth := make(map[string]struct{}, b.Len())
	for _, o := range b.Observations {
		if _, ok := inA[o.Timestamp]; ok {
			inBoth[o.Timestamp] = struct{}{}
		}
	}
	return keepDates(a, inBoth), keepDates(b, inBoth)
}

func keepDates(s model.Series, keep map[string]struct{}) model.Series {
	out := make([]model.Observation, 0, len(keep))
	seen := make(map[string]struct{}, len(keep))
	for _, o := range s.Observations {
		if _, ok := keep[o.Timestamp]; !ok {
			continue
		}
		if _, dup := seen[o.Timestamp]; dup {
			continue
		}
		seen[o.Timestamp] = struct{}{}
		out = append(out, o)
	}
	return model.Series{Order: s.Order, Observations: out}
}
