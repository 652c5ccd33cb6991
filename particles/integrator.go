package particles

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
)

// Integrator moves particles along their directions at a constant speed and
// reflects them off the walls of Bounds.
//
// Reflection is single-step: a component that reaches or passes a wall has its
// direction negated and the same displacement applied once more. The particle is
// not clamped to the wall, so it can end a frame slightly outside before heading
// back in.
type Integrator struct {
	Speed  float32
	Bounds Bounds
}

// NewIntegrator creates an integrator.
func NewIntegrator(speed float32, bounds Bounds) *Integrator {
	return &Integrator{Speed: speed, Bounds: bounds}
}

// Advance moves every live particle by dt seconds.
//
// The displacement of all components is applied in one blas32 Axpy over the
// contiguous position array, then walls are resolved per particle, x before y.
// Each axis only reads its own position and direction, so this gives the same
// result as resolving component by component.
func (in *Integrator) Advance(s *Store, dt float32) {
	if dt < 0 {
		panic(fmt.Sprintf("particles: negative frame delta %g", dt))
	}
	n := s.live * PositionComponents
	if dt == 0 || n == 0 {
		return
	}

	step := in.Speed * dt
	pos := s.positions[:n]
	dir := s.directions[:n]

	blas32.Axpy(step,
		blas32.Vector{N: n, Inc: 1, Data: dir},
		blas32.Vector{N: n, Inc: 1, Data: pos},
	)

	bx, by := in.Bounds.HalfWidth, in.Bounds.HalfHeight
	for i := 0; i < n; i += 2 {
		if pos[i] >= bx || pos[i] <= -bx {
			dir[i] = -dir[i]
			pos[i] += dir[i] * step
		}
		if pos[i+1] >= by || pos[i+1] <= -by {
			dir[i+1] = -dir[i+1]
			pos[i+1] += dir[i+1] * step
		}
	}
}

// AdvanceScalar is the component-by-component form of Advance.
// Used as the reference in tests and benchmarks.
func (in *Integrator) AdvanceScalar(s *Store, dt float32) {
	if dt < 0 {
		panic(fmt.Sprintf("particles: negative frame delta %g", dt))
	}
	if dt == 0 {
		return
	}

	step := in.Speed * dt
	n := s.live * PositionComponents
	pos := s.positions[:n]
	dir := s.directions[:n]
	bx, by := in.Bounds.HalfWidth, in.Bounds.HalfHeight

	for i := 0; i < n; i += 2 {
		pos[i] += dir[i] * step
		if pos[i] >= bx || pos[i] <= -bx {
			dir[i] = -dir[i]
			pos[i] += dir[i] * step
		}

		pos[i+1] += dir[i+1] * step
		if pos[i+1] >= by || pos[i+1] <= -by {
			dir[i+1] = -dir[i+1]
			pos[i+1] += dir[i+1] * step
		}
	}
}
