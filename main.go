package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/clique/config"
	"github.com/pthm-cable/clique/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = simulation.seed, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	realtime := flag.Bool("realtime", false, "Advance one tick per simulation.tick_period_ms instead of as fast as possible")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Simulation.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	g, err := game.New(game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"realtime", *realtime,
	)

	runErr := run(ctx, g, *maxTicks, *realtime)
	if err := g.Close(); err != nil {
		slog.Error("failed to close game", "error", err)
	}
	if runErr != nil {
		slog.Error("simulation stopped", "tick", g.Tick(), "error", runErr)
		os.Exit(1)
	}
	slog.Info("simulation finished", "tick", g.Tick())
}

// run advances g until maxTicks is reached or ctx is cancelled.
func run(ctx context.Context, g *game.Game, maxTicks int, realtime bool) error {
	var tick <-chan time.Time
	if realtime {
		ticker := time.NewTicker(g.Config().Derived.TickPeriod)
		defer ticker.Stop()
		tick = ticker.C
	}

	for maxTicks <= 0 || int(g.Tick()) < maxTicks {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		if err := g.AdvanceTick(); err != nil {
			return err
		}
	}
	slog.Info("max ticks reached", "tick", g.Tick())
	return nil
}
