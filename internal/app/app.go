package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/metrics"
	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
	"github.com/specialistvlad/spigot/internal/replay"
	"github.com/specialistvlad/spigot/internal/script"
)

// Network is the concrete network type the application manages: string items
// with string filters.
type Network = network.Network[string, string]

// App encapsulates the application's dependencies and configuration.
type App struct {
	logger   *slog.Logger
	config   *Config
	registry *prometheus.Registry
	metrics  *metrics.Collector
}

// NewApp returns an App with its own logger (writing to logW) and metrics
// registry.
func NewApp(logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := prometheus.NewRegistry()
	return &App{
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  metrics.New(reg),
	}
}

// Config returns the application's configuration.
func (a *App) Config() *Config {
	return a.config
}

// Registry returns the metrics registry. This is primarily for testing.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// LoadNetwork reads the state file. A missing state file yields an empty
// network.
func (a *App) LoadNetwork(ctx context.Context) (*Network, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	n, err := replay.Load[string, string](ctx, a.config.StateFile, network.WithObserver(a.metrics))
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("State file not found, starting with an empty network.", "file", a.config.StateFile)
		return network.New[string, string](network.WithObserver(a.metrics)), nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// SaveNetwork writes n to the state file.
func (a *App) SaveNetwork(ctx context.Context, n *Network) error {
	return replay.Save(a.context(ctx), a.config.StateFile, n)
}

// RunScript executes a script against the stored network and saves the result.
// Nothing is saved when the script fails.
func (a *App) RunScript(ctx context.Context, r io.Reader, name string) (script.Log, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running script.", "script", name)

	n, err := a.LoadNetwork(ctx)
	if err != nil {
		return nil, err
	}
	in := script.New(n, script.WithRand(order.NewSeeded(a.config.Seed)))
	log, err := in.Run(ctx, r)
	if err != nil {
		return log, fmt.Errorf("script %s: %w", name, err)
	}
	if err := a.SaveNetwork(ctx, n); err != nil {
		return log, err
	}
	logger.Info("Script finished.", "script", name, "entries", len(log))
	return log, a.writeMetrics(ctx)
}

// Modify applies cmds in order to the stored network and saves it. Nothing is
// saved when a command fails.
func (a *App) Modify(ctx context.Context, cmds ...network.Command[string, string]) error {
	ctx = a.context(ctx)
	n, err := a.LoadNetwork(ctx)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := n.Modify(ctx, cmd); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
	}
	if err := a.SaveNetwork(ctx, n); err != nil {
		return err
	}
	return a.writeMetrics(ctx)
}

// Peek draws the next count items of the stored network without changing it.
func (a *App) Peek(ctx context.Context, count int) (*network.Peeked[string], error) {
	ctx = a.context(ctx)
	n, err := a.LoadNetwork(ctx)
	if err != nil {
		return nil, err
	}
	peeked, err := n.Peek(ctx, order.NewSeeded(a.config.Seed), count)
	if err != nil {
		return nil, err
	}
	return peeked, a.writeMetrics(ctx)
}

// View lists the stored network's nodes from base down to maxDepth levels.
func (a *App) View(ctx context.Context, base path.Path, maxDepth int) ([]network.NodeDetails[string], error) {
	n, err := a.LoadNetwork(ctx)
	if err != nil {
		return nil, err
	}
	return n.View(base, maxDepth)
}

// WriteLog writes the stored network's replay log to w.
func (a *App) WriteLog(ctx context.Context, w io.Writer, format replay.Format) error {
	n, err := a.LoadNetwork(ctx)
	if err != nil {
		return err
	}
	return replay.Encode(w, format, n.Commands())
}

// writeMetrics dumps the registry to the configured metrics file, if any.
func (a *App) writeMetrics(ctx context.Context) error {
	if a.config.MetricsFile == "" {
		return nil
	}
	f, err := os.Create(a.config.MetricsFile)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()

	if err := metrics.WriteText(f, a.registry); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Metrics written.", "file", a.config.MetricsFile)
	return nil
}
