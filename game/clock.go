package game

import rl "github.com/gen2brain/raylib-go/raylib"

// Clock supplies frame deltas.
type Clock interface {
	// Tick returns the seconds elapsed for this frame.
	Tick() float32
	// Now returns seconds since start.
	Now() float64
}

// RaylibClock reads the raylib frame timer.
type RaylibClock struct{}

// Tick implements Clock.
func (RaylibClock) Tick() float32 { return rl.GetFrameTime() }

// Now implements Clock.
func (RaylibClock) Now() float64 { return rl.GetTime() }

// FixedClock advances by a constant delta on every tick.
type FixedClock struct {
	DT float32

	now float64
}

// Tick implements Clock.
func (c *FixedClock) Tick() float32 {
	c.now += float64(c.DT)
	return c.DT
}

// Now implements Clock.
func (c *FixedClock) Now() float64 { return c.now }
