package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Store occupancy at window end
	Live     int     `csv:"live"`
	Capacity int     `csv:"capacity"`
	Fill     float64 `csv:"fill"`

	// Spawning during window
	Spawned int `csv:"spawned"`
	Batches int `csv:"batches"`

	// Frame times during window
	Frames      int     `csv:"frames"`
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSP50  float64 `csv:"frame_ms_p50"`
	FrameMSP90  float64 `csv:"frame_ms_p90"`
	FPS         float64 `csv:"fps"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFrameStats calculates mean and percentiles of frame times.
func ComputeFrameStats(values []float64) (mean, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("live", s.Live),
		slog.Int("capacity", s.Capacity),
		slog.Float64("fill", s.Fill),
		slog.Int("spawned", s.Spawned),
		slog.Int("batches", s.Batches),
		slog.Int("frames", s.Frames),
		slog.Float64("frame_ms_mean", s.FrameMSMean),
		slog.Float64("frame_ms_p50", s.FrameMSP50),
		slog.Float64("frame_ms_p90", s.FrameMSP90),
		slog.Float64("fps", s.FPS),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"live", s.Live,
		"fill", s.Fill,
		"spawned", s.Spawned,
		"fps", int(s.FPS),
		"frame_ms_p90", s.FrameMSP90,
	)
}
