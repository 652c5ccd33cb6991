package particles

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// FanSize is the number of particles in one full spawn batch.
const FanSize = 16

// FanDirections is the initial direction of each particle in a batch, in append order.
// The four axis directions are unit length; the diagonals and the intermediate
// directions are shorter and are kept as-is unless the spawner normalizes them.
var FanDirections = [FanSize]mgl32.Vec2{
	{0, 1},
	{0, -1},
	{1, 0},
	{-1, 0},
	{.50, .50},
	{.50, -.50},
	{-.50, .50},
	{-.50, -.50},
	{-.25, .75},
	{-.75, .25},
	{-.75, -.25},
	{-.25, -.75},
	{.25, .75},
	{.75, .25},
	{.75, -.25},
	{.25, -.75},
}

// Bounds is an axis-aligned rectangle centered at the origin.
type Bounds struct {
	HalfWidth  float32
	HalfHeight float32
}

// Contains reports whether p lies strictly inside the rectangle.
func (b Bounds) Contains(p mgl32.Vec2) bool {
	return p[0] < b.HalfWidth && p[0] > -b.HalfWidth &&
		p[1] < b.HalfHeight && p[1] > -b.HalfHeight
}

// SpawnerConfig holds spawner parameters.
type SpawnerConfig struct {
	MinInterval  float32 // seconds that must elapse (strictly) between batches
	Bounds       Bounds  // cursor must be inside to spawn
	NormalizeFan bool    // scale every fan direction to unit length
}

// Spawner turns an armed cursor into batches of particles.
type Spawner struct {
	cfg        SpawnerConfig
	directions [FanSize]mgl32.Vec2
	rng        *rand.Rand

	// seconds since the last batch that appended anything
	sinceLast float32
}

// NewSpawner creates a spawner drawing colors from rng.
func NewSpawner(cfg SpawnerConfig, rng *rand.Rand) *Spawner {
	s := &Spawner{
		cfg:        cfg,
		directions: FanDirections,
		rng:        rng,
	}
	if cfg.NormalizeFan {
		for i := range s.directions {
			s.directions[i] = s.directions[i].Normalize()
		}
	}
	return s
}

// Directions returns the fan table this spawner uses.
func (s *Spawner) Directions() [FanSize]mgl32.Vec2 {
	return s.directions
}

// SinceLast returns the accumulated seconds since the last successful batch.
func (s *Spawner) SinceLast() float32 {
	return s.sinceLast
}

// Bounds returns the spawn rectangle.
func (s *Spawner) Bounds() Bounds {
	return s.cfg.Bounds
}

// TrySpawn appends one batch at cursor if armed, the spawn interval has elapsed,
// the cursor is inside the bounds and the store has room. The batch is cut short
// when the store fills up. dt is added to the interval accumulator afterwards,
// whether or not anything spawned. Returns the number of particles appended.
func (s *Spawner) TrySpawn(store *Store, cursor mgl32.Vec2, armed bool, dt float32) int {
	spawned := 0
	if armed && s.sinceLast > s.cfg.MinInterval && !store.Full() && s.cfg.Bounds.Contains(cursor) {
		for i := 0; i < FanSize && !store.Full(); i++ {
			if _, err := store.Append(cursor, s.directions[i], s.randomColor()); err != nil {
				break
			}
			spawned++
		}
		if spawned > 0 {
			s.sinceLast = 0
		}
	}
	s.sinceLast += dt
	return spawned
}

// randomColor returns an opaque color with uniform random RGB channels.
func (s *Spawner) randomColor() [4]float32 {
	return [4]float32{s.rng.Float32(), s.rng.Float32(), s.rng.Float32(), 1}
}
