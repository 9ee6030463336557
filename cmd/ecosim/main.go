package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/sim"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/tui"
	"github.com/pthm-cable/ecosim/world"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without the terminal viewer")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 1000, "Headless mode: stop after N ticks")
	outputDir := flag.String("output-dir", "", "Output directory for CSV stats and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	draw := flag.Bool("draw", false, "Headless mode: print the grid as text every tick")

	flag.Parse()

	// Set up slog (JSON to stderr so -draw output stays clean)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	engine, err := sim.New(cfg, rngSeed)
	if err != nil {
		slog.Error("failed to initialize simulation", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	if *headless {
		runHeadless(engine, cfg, output, *maxTicks, *logStats, *draw)
		logTotals(engine)
		return
	}

	viewer, err := tui.NewViewer(engine)
	if err != nil {
		slog.Error("failed to initialize terminal", "error", err)
		os.Exit(1)
	}
	if err := viewer.Run(); err != nil {
		slog.Error("viewer error", "error", err)
		os.Exit(1)
	}
	logTotals(engine)
}

func runHeadless(engine *sim.Sim, cfg *config.Config, output *telemetry.OutputManager, maxTicks int, logStats, draw bool) {
	slog.Info("starting headless simulation",
		"seed", engine.Seed(),
		"max_ticks", maxTicks,
		"grid_width", cfg.Grid.Width,
		"grid_height", cfg.Grid.Height,
	)

	state, stats := engine.Current()
	if err := output.WriteStats(stats); err != nil {
		slog.Error("stats output failed", "error", err)
		os.Exit(1)
	}

	for tick := 0; tick < maxTicks; tick++ {
		state, stats, _ = engine.StepForward()

		if err := output.WriteStats(stats); err != nil {
			slog.Error("stats output failed", "error", err)
			os.Exit(1)
		}
		if logStats && cfg.Telemetry.LogEvery > 0 && int(state.Tick)%cfg.Telemetry.LogEvery == 0 {
			slog.Info("stats", "window", stats)
		}
		if draw {
			fmt.Printf("=== tick %d ===\n%s", state.Tick, state.Render())
		}

		if stats.Herbivores == 0 && stats.Carnivores == 0 {
			slog.Info("all fauna extinct", "tick", state.Tick)
			break
		}
	}
}

func logTotals(engine *sim.Sim) {
	totals := engine.Totals()
	slog.Info("run totals",
		"ticks", totals.Ticks,
		"plant_births", totals.Births[world.KindPlant],
		"herb_births", totals.Births[world.KindHerbivore],
		"carn_births", totals.Births[world.KindCarnivore],
		"plants_eaten", totals.Eaten[world.KindPlant],
		"herbs_eaten", totals.Eaten[world.KindHerbivore],
		"herb_starved", totals.Starved[world.KindHerbivore],
		"carn_starved", totals.Starved[world.KindCarnivore],
	)
}
