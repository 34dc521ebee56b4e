package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"StockLens/internal/calculator"
	"StockLens/internal/calendar"
	"StockLens/internal/filter"
	"StockLens/internal/model"
	"StockLens/internal/window"
)

// ErrInsufficientData means nothing usable survived filtering.
var ErrInsufficientData = errors.New("not enough data")

const (
	monthDays = 30
	yearDays  = 365
)

// Collector orchestrates data fetching and the analytics that run on it.
type Collector struct {
	Fetcher  Fetcher
	Resolver *calendar.Resolver
	Log      *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, resolver *calendar.Resolver, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Resolver: resolver, Log: log}
}

// Quote returns the latest quote for symbol.
func (c *Collector) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	return c.Fetcher.FetchQuote(ctx, symbol)
}

// Crossovers fetches the short and long SMA series for symbol, restricts
// them to the current year and reports their golden and death crosses.
func (c *Collector) Crossovers(ctx context.Context, symbol string, shortPeriod, longPeriod int) (*model.CrossoverReport, error) {
	var rawShort, rawLong model.Series
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.Fetcher.FetchSMA(gctx, symbol, shortPeriod)
		if err != nil {
			return fmt.Errorf("fetch short sma: %w", err)
		}
		rawShort = s
		return nil
	})
	g.Go(func() error {
		s, err := c.Fetcher.FetchSMA(gctx, symbol, longPeriod)
		if err != nil {
			return fmt.Errorf("fetch long sma: %w", err)
		}
		rawLong = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	year := c.Resolver.Year()
	short, long := filter.AlignByDate(filter.Chronological(rawShort, year), filter.Chronological(rawLong, year))
	c.Log.Debug("sma series filtered",
		zap.String("symbol", symbol),
		zap.Int("year", year),
		zap.Int("short_raw", rawShort.Len()),
		zap.Int("long_raw", rawLong.Len()),
		zap.Int("aligned", short.Len()),
	)
	if short.Len() == 0 {
		return nil, fmt.Errorf("%s sma(%d/%d): %w", symbol, shortPeriod, longPeriod, ErrInsufficientData)
	}

	golden, death, err := calculator.DetectCrossovers(short, long)
	if err != nil {
		return nil, fmt.Errorf("detect crossovers: %w", err)
	}
	bounds, err := calculator.SeriesBounds(short, long)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, ErrInsufficientData)
	}

	report := &model.CrossoverReport{
		Symbol:      symbol,
		ShortPeriod: shortPeriod,
		LongPeriod:  longPeriod,
		Short:       short,
		Long:        long,
		Golden:      golden,
		Death:       death,
		Bounds:      bounds,
	}

	report.Compact.Short = filter.CompactKey(rawShort.InOrder(model.OrderChronological), year)
	report.Compact.Long = filter.CompactKey(rawLong.InOrder(model.OrderChronological), year)
	if b, err := calculator.CalculateBounds(report.Compact.Short, report.Compact.Long); err == nil {
		report.Compact.Bounds = b
	} else {
		c.Log.Debug("compact view empty", zap.String("symbol", symbol))
	}
	return report, nil
}

// Window builds the chart window of the given kind for symbol. When no data
// is available the returned window is the explicit empty window and the
// error wraps ErrInsufficientData.
func (c *Collector) Window(ctx context.Context, symbol string, kind model.WindowKind) (model.ChartWindow, error) {
	today := c.Resolver.Today()

	var w model.ChartWindow
	switch kind {
	case model.WindowIntraday:
		var bars model.Series
		day, _, err := calendar.StepBackUntilNonEmpty(ctx, today, c.Resolver.MaxLookback,
			func(ctx context.Context, d time.Time) ([]model.Observation, error) {
				s, err := c.Fetcher.FetchIntraday(ctx, symbol, d)
				bars = s
				return s.Observations, err
			})
		if errors.Is(err, calendar.ErrLookbackExhausted) {
			return model.EmptyWindow(kind), fmt.Errorf("%s intraday: %w: %w", symbol, ErrInsufficientData, err)
		}
		if err != nil {
			return model.EmptyWindow(kind), err
		}
		if !day.Equal(today) {
			c.Log.Info("intraday fell back to earlier session",
				zap.String("symbol", symbol),
				zap.String("resolved", calendar.FormatDate(today)),
				zap.String("used", calendar.FormatDate(day)),
			)
		}
		w = window.Intraday(symbol, day, bars)
	case model.WindowMonth, model.WindowYear:
		days := monthDays
		if kind == model.WindowYear {
			days = yearDays
		}
		bars, err := c.Fetcher.FetchDaily(ctx, symbol, today.AddDate(0, 0, -days), today)
		if err != nil {
			return model.EmptyWindow(kind), err
		}
		w = window.Build(kind, symbol, today, bars)
	default:
		return model.EmptyWindow(kind), fmt.Errorf("unknown window kind %q", kind)
	}

	if !w.HasData() {
		return w, fmt.Errorf("%s %s: %w", symbol, kind, ErrInsufficientData)
	}
	return w, nil
}
