package particles

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-5*math.Max(1, math.Abs(float64(b)))
}

func TestAdvanceFreeMotion(t *testing.T) {
	s := NewStore(2)
	s.Append(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, [4]float32{})
	s.Append(mgl32.Vec2{1, 1}, mgl32.Vec2{-.25, .75}, [4]float32{})

	in := NewIntegrator(2, Bounds{HalfWidth: 100, HalfHeight: 100})
	in.Advance(s, 0.5)

	if got := s.Position(0); !approx(got[0], 1) || !approx(got[1], 0) {
		t.Errorf("expected (1,0), got %v", got)
	}
	if got := s.Position(1); !approx(got[0], 0.75) || !approx(got[1], 1.75) {
		t.Errorf("expected (0.75,1.75), got %v", got)
	}
}

func TestAdvanceReflectsX(t *testing.T) {
	const (
		boundary = float32(10)
		eps      = float32(0.1)
		dt       = float32(1)
	)
	s := NewStore(1)
	s.Append(mgl32.Vec2{boundary - eps, 0}, mgl32.Vec2{1, 0}, [4]float32{})

	in := NewIntegrator(1, Bounds{HalfWidth: boundary, HalfHeight: boundary})
	in.Advance(s, dt)

	p := s.At(0)
	if p.Direction[0] >= 0 {
		t.Errorf("expected negative x direction after wall contact, got %f", p.Direction[0])
	}
	if p.Position[0] >= boundary {
		t.Errorf("expected x below boundary, got %f", p.Position[0])
	}
	// Displacement applied forward then back again
	if !approx(p.Position[0], boundary-eps) {
		t.Errorf("expected single-step reflection to %f, got %f", boundary-eps, p.Position[0])
	}
}

func TestAdvanceReflectsNegativeWalls(t *testing.T) {
	s := NewStore(1)
	s.Append(mgl32.Vec2{-4.9, -2.95}, mgl32.Vec2{-.5, -.5}, [4]float32{})

	in := NewIntegrator(1, Bounds{HalfWidth: 5, HalfHeight: 3})
	in.Advance(s, 0.5)

	d := s.Direction(0)
	if d[0] != .5 || d[1] != .5 {
		t.Errorf("expected both components flipped to +0.5, got %v", d)
	}
	p := s.Position(0)
	if !approx(p[0], -4.9) || !approx(p[1], -2.95) {
		t.Errorf("expected reflection back to start, got %v", p)
	}
}

func TestAdvanceOvershootIsPreserved(t *testing.T) {
	// A step much longer than the gap: reflection does not clamp to the wall
	s := NewStore(1)
	s.Append(mgl32.Vec2{0.4, 0}, mgl32.Vec2{1, 0}, [4]float32{})

	in := NewIntegrator(1, Bounds{HalfWidth: 0.5, HalfHeight: 10})
	in.Advance(s, 0.3)

	// 0.4 + 0.3 = 0.7 >= 0.5 -> flip and go back 0.3 -> 0.4
	if got := s.Position(0)[0]; !approx(got, 0.4) {
		t.Errorf("expected 0.4, got %f", got)
	}

	// Far past the wall: the whole step is mirrored, not the distance past the wall
	s.SetPosition(0, mgl32.Vec2{0.4, 0})
	s.SetDirection(0, mgl32.Vec2{1, 0})
	in.Advance(s, 2)
	if got := s.Position(0)[0]; !approx(got, 0.4) {
		t.Errorf("expected 0.4 after long step, got %f", got)
	}
}

func TestAdvanceAxisOrderIndependent(t *testing.T) {
	// x reflection must not change y handling
	s := NewStore(1)
	s.Append(mgl32.Vec2{0.95, 0}, mgl32.Vec2{.75, .25}, [4]float32{})

	in := NewIntegrator(1, Bounds{HalfWidth: 1, HalfHeight: 1})
	in.Advance(s, 0.1)

	d := s.Direction(0)
	if d[0] != -.75 || d[1] != .25 {
		t.Errorf("expected direction (-0.75, 0.25), got %v", d)
	}
	p := s.Position(0)
	if !approx(p[0], 0.95) || !approx(p[1], 0.025) {
		t.Errorf("expected (0.95, 0.025), got %v", p)
	}
}

func TestAdvanceZeroDelta(t *testing.T) {
	s := NewStore(3)
	s.Append(mgl32.Vec2{1, 1}, mgl32.Vec2{1, 0}, [4]float32{})
	s.Append(mgl32.Vec2{5, 0}, mgl32.Vec2{1, 0}, [4]float32{}) // resting on the wall
	s.Append(mgl32.Vec2{0, -5}, mgl32.Vec2{0, -1}, [4]float32{})

	before := []Particle{s.At(0), s.At(1), s.At(2)}

	in := NewIntegrator(50, Bounds{HalfWidth: 5, HalfHeight: 5})
	in.Advance(s, 0)

	for i, want := range before {
		if got := s.At(i); got != want {
			t.Errorf("particle %d changed on zero step: %+v -> %+v", i, want, got)
		}
	}
}

func TestAdvanceNegativeDeltaPanics(t *testing.T) {
	s := NewStore(1)
	in := NewIntegrator(1, Bounds{HalfWidth: 1, HalfHeight: 1})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on negative delta")
		}
	}()
	in.Advance(s, -0.1)
}

func TestAdvanceIgnoresStaleSlots(t *testing.T) {
	s := NewStore(4)
	s.Append(mgl32.Vec2{}, mgl32.Vec2{1, 0}, [4]float32{})

	// Poison a slot past the live count
	s.positions[2], s.positions[3] = 42, 42
	s.directions[2], s.directions[3] = 1, 1

	in := NewIntegrator(1, Bounds{HalfWidth: 100, HalfHeight: 100})
	in.Advance(s, 1)

	if s.positions[2] != 42 || s.positions[3] != 42 {
		t.Errorf("stale slot was integrated: (%f, %f)", s.positions[2], s.positions[3])
	}
}

func TestIndexAlignmentAcrossSteps(t *testing.T) {
	s := NewStore(64)
	sp := newTestSpawner(0)
	sp.TrySpawn(s, mgl32.Vec2{0, 0}, true, 1)
	sp.TrySpawn(s, mgl32.Vec2{2, -1}, true, 1)

	colors := make([][4]float32, s.Len())
	for i := range colors {
		colors[i] = s.Color(i)
	}

	in := NewIntegrator(3, Bounds{HalfWidth: 4, HalfHeight: 4})
	for step := 0; step < 500; step++ {
		in.Advance(s, 0.05)
	}

	ref := NewStore(64)
	rsp := newTestSpawner(0)
	rsp.TrySpawn(ref, mgl32.Vec2{0, 0}, true, 1)
	rsp.TrySpawn(ref, mgl32.Vec2{2, -1}, true, 1)
	for step := 0; step < 500; step++ {
		in.AdvanceScalar(ref, 0.05)
	}

	for i := 0; i < s.Len(); i++ {
		if s.Color(i) != colors[i] {
			t.Errorf("particle %d color changed", i)
		}
		// Same spawn index -> same direction magnitude, whatever the flips
		d, fan := s.Direction(i), FanDirections[i%FanSize]
		if math.Abs(float64(d[0])) != math.Abs(float64(fan[0])) || math.Abs(float64(d[1])) != math.Abs(float64(fan[1])) {
			t.Errorf("particle %d direction %v no longer matches fan entry %v", i, d, fan)
		}
		if p, r := s.Position(i), ref.Position(i); !approx(p[0], r[0]) || !approx(p[1], r[1]) {
			t.Errorf("particle %d at %v, reference %v", i, p, r)
		}
	}
}

func TestAdvanceMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := NewStore(1000)
	b := NewStore(1000)
	for i := 0; i < 1000; i++ {
		pos := mgl32.Vec2{rng.Float32()*20 - 10, rng.Float32()*20 - 10}
		dir := FanDirections[rng.Intn(FanSize)]
		a.Append(pos, dir, [4]float32{})
		b.Append(pos, dir, [4]float32{})
	}

	in := NewIntegrator(50, Bounds{HalfWidth: 10, HalfHeight: 10})
	for step := 0; step < 20; step++ {
		dt := float32(1.0 / 60.0)
		in.Advance(a, dt)
		in.AdvanceScalar(b, dt)
	}

	for i := 0; i < a.Len(); i++ {
		pa, pb := a.Position(i), b.Position(i)
		if !approx(pa[0], pb[0]) || !approx(pa[1], pb[1]) {
			t.Fatalf("particle %d: bulk %v, scalar %v", i, pa, pb)
		}
		if a.Direction(i) != b.Direction(i) {
			t.Fatalf("particle %d: bulk dir %v, scalar dir %v", i, a.Direction(i), b.Direction(i))
		}
	}
}

// End-to-end: 32 slots, one batch at the origin, one second at speed 1 inside a
// 0.5 half-extent box.
func TestSpawnThenReflectScenario(t *testing.T) {
	s := NewStore(32)
	bounds := Bounds{HalfWidth: 0.5, HalfHeight: 0.5}
	sp := NewSpawner(SpawnerConfig{MinInterval: 0.0001, Bounds: bounds}, rand.New(rand.NewSource(9)))

	// One unarmed frame lets the interval elapse
	sp.TrySpawn(s, mgl32.Vec2{}, false, 0.01)
	if n := sp.TrySpawn(s, mgl32.Vec2{0, 0}, true, 0.01); n != FanSize {
		t.Fatalf("expected %d spawned, got %d", FanSize, n)
	}
	if s.Len() != 16 {
		t.Fatalf("expected 16 live, got %d", s.Len())
	}
	for i := 0; i < s.Len(); i++ {
		if s.Position(i) != (mgl32.Vec2{}) {
			t.Errorf("particle %d not at origin: %v", i, s.Position(i))
		}
		if s.Direction(i) != FanDirections[i] {
			t.Errorf("particle %d direction %v, expected %v", i, s.Direction(i), FanDirections[i])
		}
	}

	in := NewIntegrator(1, bounds)
	in.Advance(s, 1)

	for i := 0; i < s.Len(); i++ {
		fan := FanDirections[i]
		dominant := 0
		if math.Abs(float64(fan[1])) > math.Abs(float64(fan[0])) {
			dominant = 1
		}
		d := s.Direction(i)
		if math.Signbit(float64(d[dominant])) == math.Signbit(float64(fan[dominant])) {
			t.Errorf("particle %d dominant axis %d did not reflect: %v", i, dominant, d)
		}
	}
}

func BenchmarkAdvanceBLAS(b *testing.B) {
	s := benchStore(1 << 20)
	in := NewIntegrator(50, Bounds{HalfWidth: 1000, HalfHeight: 1000})

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		in.Advance(s, 1.0/60.0)
	}
}

func BenchmarkAdvanceScalar(b *testing.B) {
	s := benchStore(1 << 20)
	in := NewIntegrator(50, Bounds{HalfWidth: 1000, HalfHeight: 1000})

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		in.AdvanceScalar(s, 1.0/60.0)
	}
}

func benchStore(n int) *Store {
	s := NewStore(n)
	sp := newTestSpawner(0)
	for !s.Full() {
		sp.TrySpawn(s, mgl32.Vec2{}, true, 1)
	}
	return s
}
