package telemetry

// Collector accumulates frame events within time windows and produces WindowStats.
// Windows are measured in frame time, since windowed frames have variable length.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartFrame int64
	windowElapsed    float64
	simTime          float64

	// Event counters for current window
	spawned    int
	batches    int
	frameTimes []float64 // milliseconds
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in seconds of frame time.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		frameTimes:        make([]float64, 0, 256),
	}
}

// RecordFrame records one frame of dt seconds.
func (c *Collector) RecordFrame(dt float64) {
	c.windowElapsed += dt
	c.simTime += dt
	c.frameTimes = append(c.frameTimes, dt*1000)
}

// RecordSpawn records a spawn batch of n particles. Empty batches are ignored.
func (c *Collector) RecordSpawn(n int) {
	if n <= 0 {
		return
	}
	c.spawned += n
	c.batches++
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.windowElapsed >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentFrame int64, live, capacity int) WindowStats {
	mean, p50, p90 := ComputeFrameStats(c.frameTimes)

	var fill, fps float64
	if capacity > 0 {
		fill = float64(live) / float64(capacity)
	}
	if c.windowElapsed > 0 {
		fps = float64(len(c.frameTimes)) / c.windowElapsed
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		SimTimeSec:       c.simTime,
		Live:             live,
		Capacity:         capacity,
		Fill:             fill,
		Spawned:          c.spawned,
		Batches:          c.batches,
		Frames:           len(c.frameTimes),
		FrameMSMean:      mean,
		FrameMSP50:       p50,
		FrameMSP90:       p90,
		FPS:              fps,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.windowElapsed = 0
	c.spawned = 0
	c.batches = 0
	c.frameTimes = c.frameTimes[:0]

	return stats
}
