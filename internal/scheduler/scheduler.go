package scheduler

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"SectorRRG/internal/calculator"
	"SectorRRG/internal/collector"
	"SectorRRG/internal/model"
	"SectorRRG/internal/notifier"
	"SectorRRG/internal/recorder"
	"SectorRRG/internal/render"
	"SectorRRG/internal/rotation"
)

// Notifier delivers reports. *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendDocument(ctx context.Context, filename string, data []byte, caption string) error
}

// Scheduler runs the rotation pipeline on a cron schedule and on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Calc      calculator.Config
	Renderer  *render.PDFRenderer
	Notifier  Notifier // nil disables delivery
	Recorder  recorder.Recorder
	Lookback  model.Lookback
	PDFPath   string // optional copy of every chart on disk
	Ctx       context.Context
	logger    arbor.ILogger
}

// NewScheduler creates a new Scheduler with default windows and lookback.
func NewScheduler(ctx context.Context, col *collector.Collector, renderer *render.PDFRenderer, n Notifier, rec recorder.Recorder, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Calc:      calculator.DefaultConfig(),
		Renderer:  renderer,
		Notifier:  n,
		Recorder:  rec,
		Lookback:  model.DefaultLookback,
		Ctx:       ctx,
		logger:    logger,
	}
}

// RegisterAll registers the daily refresh task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the daily task immediately (for manual trigger / run on start).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.logger.Info().Str("lookback", string(s.Lookback)).Msg("running daily rotation task")
	if _, err := s.Run(s.Ctx, s.Lookback); err != nil {
		s.logger.Error().Err(err).Msg("daily rotation task failed")
	}
}

// Refresh fetches prices and computes the rotation graph for lookback.
func (s *Scheduler) Refresh(ctx context.Context, lookback model.Lookback) (*model.RotationGraph, error) {
	table, err := s.Collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	res, err := calculator.Compute(table, s.Collector.Symbols(), s.Calc)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	return rotation.Build(res, s.Collector.Benchmark, s.Collector.Instruments, lookback), nil
}

// Run refreshes the graph, renders the chart, delivers it and records the run.
// A failed refresh is reported to the chat and returned; delivery and recording
// failures are logged only.
func (s *Scheduler) Run(ctx context.Context, lookback model.Lookback) (*model.RotationGraph, error) {
	start := time.Now()
	g, err := s.Refresh(ctx, lookback)
	if err != nil {
		s.trySend(ctx, notifier.FormatError(err))
		return nil, err
	}

	chart, err := s.Renderer.Bytes(g)
	if err != nil {
		s.trySend(ctx, notifier.FormatError(err))
		return g, err
	}
	if s.PDFPath != "" {
		if err := writeChart(s.PDFPath, chart); err != nil {
			s.logger.Error().Err(err).Str("path", s.PDFPath).Msg("failed to write chart")
		} else {
			s.logger.Info().Str("path", s.PDFPath).Int("bytes", len(chart)).Msg("chart written")
		}
	}

	delivered := s.deliver(ctx, g, chart)

	snap := &recorder.RunSnapshot{
		RunID:     uuid.NewString(),
		Provider:  s.Collector.Fetcher.Name(),
		Graph:     g,
		Duration:  time.Since(start),
		Delivered: delivered,
	}
	if err := s.Recorder.RecordRun(snap); err != nil {
		s.logger.Error().Err(err).Msg("record run failed")
	}

	s.logger.Info().
		Str("run_id", snap.RunID).
		Str("as_of", g.AsOf.Format("2006-01-02")).
		Int("instruments", len(g.Trails)).
		Bool("delivered", delivered).
		Msg("rotation run complete")
	return g, nil
}

func (s *Scheduler) deliver(ctx context.Context, g *model.RotationGraph, chart []byte) bool {
	if s.Notifier == nil {
		return false
	}
	if err := s.Notifier.SendWithRetry(ctx, notifier.FormatRotationReport(g), 3); err != nil {
		s.logger.Error().Err(err).Msg("send report failed")
		return false
	}
	caption := fmt.Sprintf("RRG vs %s, tail %s", g.Benchmark.Symbol, g.Lookback)
	if err := s.Notifier.SendDocument(ctx, chartName(g), chart, caption); err != nil {
		s.logger.Error().Err(err).Msg("send chart failed")
		return false
	}
	return true
}

func chartName(g *model.RotationGraph) string {
	day := g.AsOf
	if day.IsZero() {
		day = g.GeneratedAt
	}
	return fmt.Sprintf("rrg_%s_%s.pdf", day.Format("20060102"), strings.ToLower(string(g.Lookback)))
}

func writeChart(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// group chats address commands as /rrg@BotName
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/rrg":
		lookback := s.Lookback
		if len(fields) > 1 {
			lb, err := model.ParseLookback(fields[1])
			if err != nil {
				return fmt.Sprintf("Unknown lookback <code>%s</code>.\n\n%s", html.EscapeString(fields[1]), notifier.FormatHelp())
			}
			lookback = lb
		}
		if _, err := s.Run(ctx, lookback); err != nil {
			s.logger.Error().Err(err).Str("command", command).Msg("command run failed")
		}
		return ""
	case "/quadrants":
		return notifier.FormatQuadrantGuide()
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification failed")
	}
}
