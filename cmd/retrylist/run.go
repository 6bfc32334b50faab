package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/retrylist/internal/history"
	"github.com/tinytelemetry/retrylist/internal/httpserver"
	"github.com/tinytelemetry/retrylist/internal/logging"
	"github.com/tinytelemetry/retrylist/internal/metrics"
	"github.com/tinytelemetry/retrylist/internal/model"
	"github.com/tinytelemetry/retrylist/internal/provider"
	"github.com/tinytelemetry/retrylist/internal/status"
	"github.com/tinytelemetry/retrylist/internal/tui"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newOutcomeSource(cfg appConfig) model.OutcomeSource {
	if len(cfg.OutcomeScript) > 0 {
		return provider.NewScriptedSource(cfg.OutcomeScript...)
	}
	return provider.NewRandomSource(cfg.OutcomeSeed)
}

// run wires the screen, the attempt history and the optional API, then
// blocks until the TUI exits or a signal arrives.
func run(cfg appConfig) error {
	logger, cleanupLogger, err := logging.Setup(logging.Config{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		logger, cleanupLogger = zap.NewNop(), func() {}
	}
	defer cleanupLogger()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("config", cfg.ConfigPath),
		zap.Duration("fetch_delay", cfg.FetchDelay),
		zap.Stringer("empty_policy", cfg.emptyPolicy()))

	store, err := history.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize attempt history: %w", err)
	}
	defer store.Close()

	prov := provider.New(newOutcomeSource(cfg), cfg.FetchDelay)
	board := status.NewBoard()
	attemptMetrics := metrics.New()

	page := tui.NewListPage(tui.ListPageConfig{
		Loader:      prov,
		EmptyPolicy: cfg.emptyPolicy(),
		Recorders:   []model.AttemptRecorder{store, attemptMetrics},
		Observer:    board.Observe,
		HistoryBars: cfg.HistoryBars,
		Logger:      logger,
	})
	app := tui.NewApp(page)
	defer app.Close()

	var remote tui.RemoteTrigger
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, httpserver.Deps{
			State:     board,
			Items:     prov,
			History:   store,
			Triggerer: &remote,
			Metrics:   attemptMetrics.Handler(),
			Logger:    logger,
		})
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	remote.Attach(p)

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		if _, err := p.Run(); err != nil {
			if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
				return fmt.Errorf("TUI requires a real terminal")
			}
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			logger.Info("shutting down", zap.Error(context.Cause(gctx)))
			p.Quit()
		case <-done:
		}
		return nil
	})

	err = g.Wait()
	if summary, serr := store.OutcomeSummary(); serr == nil {
		logger.Info("session finished",
			zap.Int64("attempts", summary.Total),
			zap.Int64("ready", summary.Ready),
			zap.Int64("empty", summary.Empty),
			zap.Int64("failed", summary.Failed),
			zap.Int64("superseded", summary.Superseded))
	}
	return err
}
