// Package game runs the frame loop that ties the particle store to input, the
// camera and the device.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/fanout/camera"
	"github.com/pthm-cable/fanout/config"
	"github.com/pthm-cable/fanout/particles"
	"github.com/pthm-cable/fanout/telemetry"
	"github.com/pthm-cable/fanout/ui"
)

// Sink uploads the live particle attributes and draws them.
type Sink interface {
	SetCamera(projection, view mgl32.Mat4)
	SyncAndDraw(live int, positions, colors []float32)
}

// Presenter opens and presents a frame.
type Presenter interface {
	BeginFrame()
	EndFrame()
	SetTitle(title string)
}

// HUD draws the overlay and reports whether its pause control was used.
type HUD interface {
	Draw(data ui.HUDData) (togglePause bool)
}

// Options configures a Game.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string

	// Device and platform. Input, Clock and Sink are required.
	Sink      Sink
	Input     InputSource
	Clock     Clock
	Presenter Presenter // nil = no presentation
	HUD       HUD       // nil = no overlay
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	store      *particles.Store
	spawner    *particles.Spawner
	integrator *particles.Integrator
	camera     *camera.Camera

	sink      Sink
	input     InputSource
	clock     Clock
	presenter Presenter
	hud       HUD

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	// State
	frame           int64
	paused          bool
	exit            bool
	capacityLogged  bool
	lastCursor      mgl32.Vec2
	lastTitleTime   float64
	lastTitleFrame  int64
	lastFrameTimeMS float64
}

// NewGame creates a game over a freshly allocated store of cfg.Particles.Max slots.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Sink == nil || opts.Input == nil || opts.Clock == nil {
		return nil, fmt.Errorf("game: sink, input and clock are required")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bounds := particles.Bounds{
		HalfWidth:  cfg.Derived.HalfWidth32,
		HalfHeight: cfg.Derived.HalfHeight32,
	}

	g := &Game{
		cfg:   cfg,
		rng:   rng,
		store: particles.NewStore(cfg.Particles.Max),
		spawner: particles.NewSpawner(particles.SpawnerConfig{
			MinInterval:  cfg.Derived.Interval32,
			Bounds:       bounds,
			NormalizeFan: cfg.Spawn.NormalizeFan,
		}, rng),
		integrator: particles.NewIntegrator(cfg.Derived.Speed32, bounds),
		camera: camera.New(
			cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
			float32(cfg.Camera.Width), float32(cfg.Camera.Height),
			float32(cfg.Camera.ZoomStep), float32(cfg.Camera.ZoomDuration),
		),
		sink:          opts.Sink,
		input:         opts.Input,
		clock:         opts.Clock,
		presenter:     opts.Presenter,
		hud:           opts.HUD,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:      opts.LogStats,
	}
	if g.presenter == nil {
		g.presenter = nopPresenter{}
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	slog.Info("game created",
		"capacity", g.store.Cap(),
		"seed", seed,
		"speed", cfg.Particles.Speed,
		"spawn_interval", cfg.Spawn.Interval,
	)

	return g, nil
}

// Run executes frames until exit is requested or maxFrames have run (0 = unlimited).
// Exit is only observed between frames.
func (g *Game) Run(maxFrames int) {
	for !g.exit {
		if maxFrames > 0 && g.frame >= int64(maxFrames) {
			slog.Info("max frames reached", "frame", g.frame)
			g.logState()
			return
		}
		g.Frame()
	}
	slog.Info("exit requested", "frame", g.frame)
	g.logState()
}

// Frame runs one frame: input, spawn, integrate, sync and draw, present.
func (g *Game) Frame() {
	g.perfCollector.StartFrame()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	in := g.input.Poll()
	dt := g.clock.Tick()
	g.handleInput(in, dt)

	if !g.paused {
		g.perfCollector.StartPhase(telemetry.PhaseSpawn)
		cursor := g.camera.ScreenToWorld(in.Cursor[0], in.Cursor[1])
		n := g.spawner.TrySpawn(g.store, cursor, in.SpawnArmed, dt)
		g.collector.RecordSpawn(n)
		if n > 0 && g.store.Full() && !g.capacityLogged {
			g.capacityLogged = true
			slog.Info("capacity reached", "frame", g.frame, "live", g.store.Len())
		}

		g.perfCollector.StartPhase(telemetry.PhaseIntegrate)
		g.integrator.Advance(g.store, dt)
	}

	g.perfCollector.StartPhase(telemetry.PhaseSync)
	g.presenter.BeginFrame()
	g.sink.SetCamera(g.camera.Projection(), g.camera.View())
	g.sink.SyncAndDraw(g.store.Len(), g.store.Positions(), g.store.Colors())

	g.perfCollector.StartPhase(telemetry.PhasePresent)
	g.drawHUD()
	g.presenter.EndFrame()
	g.perfCollector.RecordFrame()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.frame++
	g.lastFrameTimeMS = float64(dt) * 1000
	g.collector.RecordFrame(float64(dt))
	g.refreshTitle()
	g.flushTelemetry()

	g.perfCollector.EndFrame()
}

// drawHUD renders the overlay and applies its pause toggle.
func (g *Game) drawHUD() {
	if g.hud == nil {
		return
	}
	toggle := g.hud.Draw(ui.HUDData{
		Title:       g.cfg.Screen.Title,
		Live:        g.store.Len(),
		Capacity:    g.store.Cap(),
		Frame:       g.frame,
		FrameTimeMS: g.lastFrameTimeMS,
		Zoom:        g.camera.Zoom,
		Paused:      g.paused,
	})
	if toggle {
		g.paused = !g.paused
	}
}

// Frames returns the number of completed frames.
func (g *Game) Frames() int64 {
	return g.frame
}

// Store returns the particle store.
func (g *Game) Store() *particles.Store {
	return g.store
}

// Camera returns the view camera.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Paused reports whether simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Unload flushes telemetry output.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
