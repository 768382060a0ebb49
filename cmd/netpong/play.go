package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/netpong/tui/internal/app"
	"github.com/netpong/tui/internal/client"
	"github.com/netpong/tui/internal/config"
	"github.com/netpong/tui/internal/logging"
	"github.com/netpong/tui/internal/metrics"
	"github.com/netpong/tui/internal/sound"
)

// runTUI runs the interactive client until the user quits.
func runTUI(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m := startMetrics(ctx, cfg, log)

	// The bell and the renderer share stdout through one lock.
	out := sound.NewTerminal(os.Stdout)
	model := app.New(app.Options{
		Config:    cfg,
		Connector: client.NewManagerFromConfig(cfg, log, m),
		Sound:     sound.NewBell(out),
		Logger:    log,
		Metrics:   m,
	})

	log.Info("starting", zap.String("version", version), zap.String("server", cfg.Addr()))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(out), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// startMetrics registers the collectors and, when metrics.listen is set,
// serves them until ctx is done.
func startMetrics(ctx context.Context, cfg *config.Config, log *zap.Logger) *metrics.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)
	if cfg.Metrics.Listen == "" {
		return m
	}
	go func() {
		log.Info("metrics listening", zap.String("addr", cfg.Metrics.Listen))
		if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg); err != nil {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	return m
}
