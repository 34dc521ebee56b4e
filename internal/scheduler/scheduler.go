package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockLens/internal/calendar"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
	"StockLens/internal/watchlist"
)

// alertLookbackDays limits alerts to recent crossovers so the first scan
// against an empty store does not replay the whole year.
const alertLookbackDays = 7

// Sender delivers a message, retrying on failure.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron scan and user commands. Cron expressions are
// evaluated in UTC.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Watchlist   *watchlist.Manager
	Notifier    Sender // nil disables notifications
	Recorder    recorder.Recorder
	Log         *zap.Logger
	Ctx         context.Context
	ShortPeriod int
	LongPeriod  int

	scanning sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, wl *watchlist.Manager, sender Sender, rec recorder.Recorder, log *zap.Logger, shortPeriod, longPeriod int) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		Collector:   col,
		Watchlist:   wl,
		Notifier:    sender,
		Recorder:    rec,
		Log:         log,
		Ctx:         ctx,
		ShortPeriod: shortPeriod,
		LongPeriod:  longPeriod,
	}
}

// RegisterAll registers the watchlist scan.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

func (s *Scheduler) scanTask() {
	run, err := s.RunScan(s.Ctx)
	if errors.Is(err, ErrScanRunning) {
		s.Log.Warn("scheduled scan skipped", zap.Error(err))
		return
	}
	if run.NewEvents > 0 || run.Failed > 0 {
		s.trySend(notifier.FormatScanSummary(run))
	}
}

// ErrScanRunning is returned when a scan is requested while one is in flight.
var ErrScanRunning = errors.New("scan already running")

// RunScan checks every watched symbol for crossovers, records them and
// alerts on recent ones not seen before.
func (s *Scheduler) RunScan(ctx context.Context) (*recorder.ScanRun, error) {
	if !s.scanning.TryLock() {
		return nil, ErrScanRunning
	}
	defer s.scanning.Unlock()

	run := recorder.NewScanRun(time.Now())
	log := s.Log.With(zap.String("scan_id", run.ID))
	symbols := s.Watchlist.List()
	run.Symbols = len(symbols)
	log.Info("running watchlist scan", zap.Int("symbols", len(symbols)))

	cutoff := calendar.FormatDate(s.Collector.Resolver.Today().AddDate(0, 0, -alertLookbackDays))
	var alerts []string
	for _, sym := range symbols {
		if ctx.Err() != nil {
			break
		}
		rep, err := s.Collector.Crossovers(ctx, sym, s.ShortPeriod, s.LongPeriod)
		if errors.Is(err, collector.ErrInsufficientData) {
			log.Info("no sma data", zap.String("symbol", sym))
			continue
		}
		if err != nil {
			run.Failed++
			log.Error("scan symbol", zap.String("symbol", sym), zap.Error(err))
			continue
		}

		for _, evt := range recorder.EventsFromReport(rep) {
			isNew, err := s.Recorder.RecordCrossover(&evt)
			if err != nil {
				log.Error("record crossover", zap.String("symbol", sym), zap.Error(err))
				continue
			}
			if !isNew {
				continue
			}
			run.NewEvents++
			if evt.Date >= cutoff {
				alerts = append(alerts, notifier.FormatAlert(&evt))
			}
		}
	}

	run.FinishedAt = time.Now()
	if err := s.Recorder.RecordScan(run); err != nil {
		log.Error("record scan", zap.Error(err))
	}
	if len(alerts) > 0 {
		s.trySend(strings.Join(alerts, "\n"))
	}
	log.Info("watchlist scan finished",
		zap.Int("failed", run.Failed),
		zap.Int("new_events", run.NewEvents),
		zap.Int("alerts", len(alerts)),
	)
	return run, ctx.Err()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/watchlist", "/list":
		return notifier.FormatWatchlist(s.Watchlist.List())
	case "/add":
		if len(args) != 1 {
			return "Usage: /add SYMBOL"
		}
		sym, err := s.Watchlist.Add(args[0])
		if err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("✅ Watching %s", sym)
	case "/remove":
		if len(args) != 1 {
			return "Usage: /remove SYMBOL"
		}
		sym, err := s.Watchlist.Remove(args[0])
		if err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("✅ Removed %s", sym)
	case "/quote":
		sym, reply := symbolArg(args, "/quote")
		if reply != "" {
			return reply
		}
		q, err := s.Collector.Quote(ctx, sym)
		if err != nil {
			s.Log.Error("quote command", zap.String("symbol", sym), zap.Error(err))
			return fmt.Sprintf("❌ quote %s failed", sym)
		}
		return notifier.FormatQuote(q)
	case "/cross":
		sym, reply := symbolArg(args, "/cross")
		if reply != "" {
			return reply
		}
		rep, err := s.Collector.Crossovers(ctx, sym, s.ShortPeriod, s.LongPeriod)
		if errors.Is(err, collector.ErrInsufficientData) {
			return fmt.Sprintf("<b>%s</b>: SMA data not available", sym)
		}
		if err != nil {
			s.Log.Error("cross command", zap.String("symbol", sym), zap.Error(err))
			return fmt.Sprintf("❌ crossovers for %s failed", sym)
		}
		return notifier.FormatCrossoverReport(rep)
	case "/chart":
		sym, reply := symbolArg(args, "/chart")
		if reply != "" {
			return reply
		}
		kindArg := ""
		if len(args) > 1 {
			kindArg = strings.ToLower(args[1])
		}
		kind, err := model.ParseWindowKind(kindArg)
		if err != nil {
			return "Usage: /chart SYMBOL [intraday|month|year]"
		}
		w, err := s.Collector.Window(ctx, sym, kind)
		if err != nil && !errors.Is(err, collector.ErrInsufficientData) {
			s.Log.Error("chart command", zap.String("symbol", sym), zap.Error(err))
			return fmt.Sprintf("❌ %s window for %s failed", kind, sym)
		}
		return notifier.FormatWindow(sym, w)
	case "/scan":
		run, err := s.RunScan(ctx)
		if errors.Is(err, ErrScanRunning) {
			return "⏳ " + err.Error()
		}
		if run == nil {
			return "❌ scan failed"
		}
		return notifier.FormatScanSummary(run)
	default:
		return notifier.HelpText
	}
}

// symbolArg returns the normalized first argument, or a reply explaining
// why there is none.
func symbolArg(args []string, cmd string) (string, string) {
	if len(args) == 0 {
		return "", fmt.Sprintf("Usage: %s SYMBOL", cmd)
	}
	sym, err := watchlist.Normalize(args[0])
	if err != nil {
		return "", "❌ " + err.Error()
	}
	return sym, ""
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error("send notification", zap.Error(err))
	}
}
