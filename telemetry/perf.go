package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one frame, in execution order.
const (
	PhaseInput     = "input"
	PhaseSpawn     = "spawn"
	PhaseIntegrate = "integrate"
	PhaseSync      = "sync"
	PhasePresent   = "present"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in execution order.
var Phases = []string{PhaseInput, PhaseSpawn, PhaseIntegrate, PhaseSync, PhasePresent, PhaseTelemetry}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	Work   time.Duration
	Phases map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		Work:   now.Sub(p.frameStart),
		Phases: p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records wall-clock time between presented frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Per-frame work timing
	AvgWork time.Duration
	MinWork time.Duration
	MaxWork time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total frame work
	PhasePct map[string]float64

	// Throughput
	FramesPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is always available (independent of work samples)
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var totalWork time.Duration
	var minWork, maxWork time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalWork += s.Work

		if i == 0 || s.Work < minWork {
			minWork = s.Work
		}
		if s.Work > maxWork {
			maxWork = s.Work
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgWork := totalWork / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgWork > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgWork) * 100
		}
	}

	// Calculate throughput
	var framesPerSec float64
	if avgWork > 0 {
		framesPerSec = float64(time.Second) / float64(avgWork)
	}

	return PerfStats{
		AvgWork:         avgWork,
		MinWork:         minWork,
		MaxWork:         maxWork,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		FramesPerSecond: framesPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_work_us", s.AvgWork.Microseconds(),
		"min_work_us", s.MinWork.Microseconds(),
		"max_work_us", s.MaxWork.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	// Add phase breakdowns
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_work_us", s.AvgWork.Microseconds()),
		slog.Int64("min_work_us", s.MinWork.Microseconds()),
		slog.Int64("max_work_us", s.MaxWork.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgWorkUS    int64   `csv:"avg_work_us"`
	MinWorkUS    int64   `csv:"min_work_us"`
	MaxWorkUS    int64   `csv:"max_work_us"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	SpawnPct     float64 `csv:"spawn_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	SyncPct      float64 `csv:"sync_pct"`
	PresentPct   float64 `csv:"present_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgWorkUS:    s.AvgWork.Microseconds(),
		MinWorkUS:    s.MinWork.Microseconds(),
		MaxWorkUS:    s.MaxWork.Microseconds(),
		FramesPerSec: s.FramesPerSecond,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		SpawnPct:     s.PhasePct[PhaseSpawn],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		SyncPct:      s.PhasePct[PhaseSync],
		PresentPct:   s.PhasePct[PhasePresent],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
