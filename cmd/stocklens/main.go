package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"StockLens/internal/calendar"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/logger"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
	"StockLens/internal/scheduler"
	"StockLens/internal/transport/http/analytics"
	"StockLens/internal/watchlist"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}
	log.Info("StockLens starting", zap.String("config", cfgPath))

	resolver := calendar.NewResolver(time.Now, cfg.Analytics.MaxLookbackDays)

	var fetcher collector.Fetcher
	switch cfg.Provider.Name {
	case config.ProviderYahoo:
		fetcher = collector.NewYahooFetcher(cfg.Proxy, resolver.Now)
	default:
		fetcher = collector.NewFMPFetcher(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy)
	}
	log.Info("data source", zap.String("provider", fetcher.Name()))

	col := collector.NewCollector(fetcher, resolver, log.Named("collector"))

	wl, err := watchlist.NewManager(cfg.Watchlist.File, cfg.Watchlist.Defaults)
	if err != nil {
		log.Fatal("init watchlist", zap.Error(err))
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.Named("recorder"))
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log.Named("telegram"))
		sender = tn
	} else {
		log.Info("telegram not configured, alerts disabled")
	}

	sched := scheduler.NewScheduler(ctx, col, wl, sender, rec, log.Named("scheduler"),
		cfg.Analytics.ShortPeriod, cfg.Analytics.LongPeriod)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
		log.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, scanning watchlist now")
		go func() {
			if _, err := sched.RunScan(ctx); err != nil {
				log.Warn("startup scan", zap.Error(err))
			}
		}()
	}

	router := analytics.NewRouter(col, wl, cfg.Analytics.ShortPeriod, cfg.Analytics.LongPeriod, log.Named("http"))
	srv := analytics.NewHTTPServer(cfg.HTTP.Addr, router, log.Named("http"))
	if err := srv.Start(ctx); err != nil {
		log.Error("http server", zap.Error(err))
	}

	log.Info("StockLens stopped")
}
