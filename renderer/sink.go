package renderer

import "github.com/go-gl/mathgl/mgl32"

// NullSink accepts uploads without a device. Headless runs and tests use it to
// observe what would have been drawn.
type NullSink struct {
	Capacity int

	LastLive   int
	Draws      int
	Uploaded   int // instances uploaded across all frames
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

// NewNullSink creates a sink with the same upload limits as a device of the given capacity.
func NewNullSink(capacity int) *NullSink {
	return &NullSink{Capacity: capacity}
}

// SetCamera records the matrices.
func (s *NullSink) SetCamera(projection, view mgl32.Mat4) {
	s.Projection = projection
	s.View = view
}

// SyncAndDraw records the live count and counts one draw when there is anything to draw.
func (s *NullSink) SyncAndDraw(live int, positions, colors []float32) {
	checkUpload(live, s.Capacity, positions, colors)
	s.LastLive = live
	if live == 0 {
		return
	}
	s.Uploaded += live
	s.Draws++
}
