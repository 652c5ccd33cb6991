// Package particles holds the simulation core: a fixed-capacity particle arena,
// the spawner that fills it and the integrator that moves it.
//
// Particles are stored as three parallel float32 arrays (positions, directions,
// colors). Index i is the only link between the three; there are no particle
// identifiers and particles are never removed.
package particles

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Components per particle in each array.
const (
	PositionComponents  = 2
	DirectionComponents = 2
	ColorComponents     = 4
)

// ErrCapacityExceeded is returned by Append when the store is full.
var ErrCapacityExceeded = errors.New("particles: capacity exceeded")

// Particle is a read-only view of the slots at one index.
type Particle struct {
	Position  mgl32.Vec2
	Direction mgl32.Vec2
	Color     [4]float32
}

// Store is a preallocated struct-of-arrays particle arena.
// The arrays are allocated once at capacity and never grow.
type Store struct {
	positions  []float32
	directions []float32
	colors     []float32
	live       int
	capacity   int
}

// NewStore allocates a store for capacity particles.
func NewStore(capacity int) *Store {
	if capacity < 0 {
		panic(fmt.Sprintf("particles: negative capacity %d", capacity))
	}
	return &Store{
		positions:  make([]float32, capacity*PositionComponents),
		directions: make([]float32, capacity*DirectionComponents),
		colors:     make([]float32, capacity*ColorComponents),
		capacity:   capacity,
	}
}

// Len returns the number of live particles.
func (s *Store) Len() int { return s.live }

// Cap returns the fixed capacity.
func (s *Store) Cap() int { return s.capacity }

// Full reports whether no further particle can be appended.
func (s *Store) Full() bool { return s.live == s.capacity }

// Append writes a particle at index Len() and grows the live count by one.
func (s *Store) Append(pos, dir mgl32.Vec2, color [4]float32) (int, error) {
	if s.live == s.capacity {
		return 0, ErrCapacityExceeded
	}
	i := s.live

	p := i * PositionComponents
	s.positions[p] = pos[0]
	s.positions[p+1] = pos[1]

	d := i * DirectionComponents
	s.directions[d] = dir[0]
	s.directions[d+1] = dir[1]

	c := i * ColorComponents
	copy(s.colors[c:c+ColorComponents], color[:])

	s.live++
	return i, nil
}

// checkIndex panics when i does not address a live particle.
func (s *Store) checkIndex(i int) {
	if i < 0 || i >= s.live {
		panic(fmt.Sprintf("particles: index %d out of range [0,%d)", i, s.live))
	}
}

// Position returns the position of particle i.
func (s *Store) Position(i int) mgl32.Vec2 {
	s.checkIndex(i)
	p := i * PositionComponents
	return mgl32.Vec2{s.positions[p], s.positions[p+1]}
}

// SetPosition overwrites the position of particle i.
func (s *Store) SetPosition(i int, v mgl32.Vec2) {
	s.checkIndex(i)
	p := i * PositionComponents
	s.positions[p] = v[0]
	s.positions[p+1] = v[1]
}

// Direction returns the direction of particle i.
func (s *Store) Direction(i int) mgl32.Vec2 {
	s.checkIndex(i)
	d := i * DirectionComponents
	return mgl32.Vec2{s.directions[d], s.directions[d+1]}
}

// SetDirection overwrites the direction of particle i.
func (s *Store) SetDirection(i int, v mgl32.Vec2) {
	s.checkIndex(i)
	d := i * DirectionComponents
	s.directions[d] = v[0]
	s.directions[d+1] = v[1]
}

// Color returns the RGBA color of particle i.
func (s *Store) Color(i int) [4]float32 {
	s.checkIndex(i)
	var c [4]float32
	copy(c[:], s.colors[i*ColorComponents:])
	return c
}

// At returns particle i as a single value.
func (s *Store) At(i int) Particle {
	return Particle{
		Position:  s.Position(i),
		Direction: s.Direction(i),
		Color:     s.Color(i),
	}
}

// Positions returns the live slice of interleaved x,y positions.
// The slice aliases the store; its length does not follow later Appends.
func (s *Store) Positions() []float32 {
	return s.positions[:s.live*PositionComponents]
}

// Directions returns the live slice of interleaved dx,dy directions.
func (s *Store) Directions() []float32 {
	return s.directions[:s.live*DirectionComponents]
}

// Colors returns the live slice of interleaved r,g,b,a colors.
func (s *Store) Colors() []float32 {
	return s.colors[:s.live*ColorComponents]
}
