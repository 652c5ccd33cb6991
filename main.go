package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/fanout/config"
	"github.com/pthm-cable/fanout/game"
	"github.com/pthm-cable/fanout/renderer"
	"github.com/pthm-cable/fanout/ui"
)

func init() {
	// GL calls must come from the thread that owns the context
	runtime.LockOSThread()
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to a .yaml or .toml config (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Use config stats window if not overridden by CLI
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	var err error
	if *headless {
		err = runHeadless(cfg, opts, *maxFrames)
	} else {
		err = runWindowed(cfg, opts, *maxFrames)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless simulates with a scripted cursor and a fixed delta, drawing nowhere.
func runHeadless(cfg *config.Config, opts game.Options, maxFrames int) error {
	opts.Sink = renderer.NewNullSink(cfg.Particles.Max)
	opts.Input = &game.ScriptedInput{
		Cursor: mgl32.Vec2{float32(cfg.Headless.CursorX), float32(cfg.Headless.CursorY)},
	}
	opts.Clock = &game.FixedClock{DT: cfg.Derived.HeadlessDT32}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"capacity", cfg.Particles.Max,
		"dt", cfg.Headless.DT,
		"max_frames", maxFrames,
	)
	g.Run(maxFrames)
	return nil
}

// runWindowed opens a raylib window and draws through a GL 3.3 core context.
func runWindowed(cfg *config.Config, opts game.Options, maxFrames int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	// raylib owns the context; load GL entry points against it
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}
	slog.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	quads, err := renderer.NewInstancedQuads(cfg.Particles.Max, cfg.Derived.QuadHalfSize32)
	if err != nil {
		return fmt.Errorf("creating particle renderer: %w", err)
	}
	defer quads.Unload()

	opts.Sink = quads
	opts.Input = game.RaylibInput{}
	opts.Clock = game.RaylibClock{}
	opts.Presenter = game.RaylibPresenter{Background: rl.Black}
	opts.HUD = ui.NewHUD()

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	g.Run(maxFrames)
	return nil
}
