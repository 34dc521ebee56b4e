package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxLookback bounds the holiday fallback scan.
const DefaultMaxLookback = 10

// ErrLookbackExhausted is returned when no day within the lookback window
// produced data.
var ErrLookbackExhausted = errors.New("no data found within lookback window")

// StepBackUntilNonEmpty calls fetch for start and then for each preceding
// calendar day until it returns a non-empty result. At most maxLookback
// steps back from start are taken. This covers exchange holidays, which
// the weekday-only resolution cannot see.
func StepBackUntilNonEmpty[T any](ctx context.Context, start time.Time, maxLookback int, fetch func(ctx context.Context, day time.Time) ([]T, error)) (time.Time, []T, error) {
	if maxLookback < 0 {
		maxLookback = 0
	}
	day := start
	for step := 0; step <= maxLookback; step++ {
		if err := ctx.Err(); err != nil {
			return time.Time{}, nil, err
		}
		data, err := fetch(ctx, day)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("fetch %s: %w", FormatDate(day), err)
		}
		if len(data) > 0 {
			return day, data, nil
		}
		day = day.AddDate(0, 0, -1)
	}
	return time.Time{}, nil, fmt.Errorf("%w: %d days back from %s", ErrLookbackExhausted, maxLookback, FormatDate(start))
}

// Resolver binds trading-day resolution to an injected clock.
type Resolver struct {
	Now         func() time.Time
	MaxLookback int
}

// NewResolver creates a Resolver. A nil clock uses time.Now.
func NewResolver(now func() time.Time, maxLookback int) *Resolver {
	if now == nil {
		now = time.Now
	}
	if maxLookback <= 0 {
		maxLookback = DefaultMaxLookback
	}
	return &Resolver{Now: now, MaxLookback: maxLookback}
}

// Today returns the most recent trading day for the resolver's clock.
func (r *Resolver) Today() time.Time {
	return MostRecentTradingDay(r.Now())
}

// Year returns the current year in exchange time.
func (r *Resolver) Year() int {
	return r.Now().In(Exchange).Year()
}
