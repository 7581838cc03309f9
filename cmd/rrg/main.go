package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ternarybob/arbor"

	"SectorRRG/internal/collector"
	"SectorRRG/internal/config"
	"SectorRRG/internal/logging"
	"SectorRRG/internal/model"
	"SectorRRG/internal/notifier"
	"SectorRRG/internal/recorder"
	"SectorRRG/internal/render"
	"SectorRRG/internal/scheduler"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to YAML or TOML config file")
	once := flag.Bool("once", false, "compute one graph, write the chart and exit")
	lookbackFlag := flag.String("lookback", "", "trail length: LTD, 3D, 7D, 14D, 21D, 50D or MAX")
	out := flag.String("out", "", "chart output path (overrides output.pdf_path)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *lookbackFlag != "" {
		cfg.RRG.Lookback = *lookbackFlag
	}
	if *out != "" {
		cfg.Output.PDFPath = *out
	}

	logger := logging.New(cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}
	lookback, _ := cfg.Lookback()
	logger.Info().Str("config", cfgPath).Str("lookback", string(lookback)).Msg("SectorRRG starting")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched, cleanup := build(ctx, cfg, lookback, logger)
	defer cleanup()

	if *once {
		if _, err := sched.Run(ctx, lookback); err != nil {
			logger.Error().Err(err).Msg("rotation run failed")
			cleanup()
			os.Exit(1)
		}
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks failed")
	}
	sched.Start()
	defer sched.Stop()

	if tn, ok := sched.Notifier.(*notifier.TelegramNotifier); ok {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	if cfg.Schedule.RunOnStart {
		logger.Info().Msg("run_on_start enabled, executing rotation task now")
		go sched.RunNow()
	}

	logger.Info().Str("cron", cfg.Schedule.DailyCron).Msg("SectorRRG is running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, stopping")
}

// build wires the pipeline from config. cleanup closes the recorder.
func build(ctx context.Context, cfg *config.Config, lookback model.Lookback, logger arbor.ILogger) (*scheduler.Scheduler, func()) {
	fetcher := newFetcher(cfg)
	logger.Info().Str("provider", fetcher.Name()).Int("instruments", len(cfg.Instruments)).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.Benchmark, cfg.Instruments, logger)
	col.Concurrency = cfg.DataSource.Concurrency

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			logger.Warn().Err(err).Msg("create database dir failed")
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	var n scheduler.Notifier
	if cfg.TelegramEnabled() {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	} else {
		logger.Warn().Msg("telegram not configured, reports are only written to disk")
	}

	sched := scheduler.NewScheduler(ctx, col, render.NewPDFRenderer(logger), n, rec, logger)
	sched.Calc = cfg.Calculator()
	sched.Lookback = lookback
	sched.PDFPath = cfg.Output.PDFPath

	closed := false
	return sched, func() {
		if closed {
			return
		}
		closed = true
		if err := rec.Close(); err != nil {
			logger.Warn().Err(err).Msg("close recorder failed")
		}
	}
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderEODHD:
		opts := []collector.EODHDOption{collector.WithEODHDProxy(cfg.Proxy), collector.WithEODHDRateLimit(ds.RateLimit)}
		if ds.BaseURL != "" {
			opts = append(opts, collector.WithEODHDBaseURL(ds.BaseURL))
		}
		return collector.NewEODHDFetcher(ds.APIKey, opts...)
	case config.ProviderCSV:
		return collector.NewCSVFetcher(ds.CSVDir)
	case config.ProviderMock:
		symbols := []string{cfg.Benchmark.Symbol}
		for _, inst := range cfg.Instruments {
			symbols = append(symbols, inst.Symbol)
		}
		return collector.NewRandomWalkFetcher(symbols, 260, 1)
	default:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f
	}
}
