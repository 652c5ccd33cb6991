package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNullSinkRecordsDraws(t *testing.T) {
	s := NewNullSink(8)

	s.SyncAndDraw(0, nil, nil)
	if s.Draws != 0 {
		t.Errorf("empty frame should not draw, got %d draws", s.Draws)
	}

	pos := make([]float32, 16)
	col := make([]float32, 32)
	s.SyncAndDraw(3, pos[:6], col[:12])
	s.SyncAndDraw(8, pos, col)

	if s.Draws != 2 {
		t.Errorf("expected 2 draws, got %d", s.Draws)
	}
	if s.LastLive != 8 {
		t.Errorf("expected last live 8, got %d", s.LastLive)
	}
	if s.Uploaded != 11 {
		t.Errorf("expected 11 uploaded instances, got %d", s.Uploaded)
	}
}

func TestNullSinkCamera(t *testing.T) {
	s := NewNullSink(1)
	proj := mgl32.Ortho(-1, 1, -1, 1, 0, 10)
	view := mgl32.Translate3D(2, 3, 0)

	s.SetCamera(proj, view)
	if s.Projection != proj || s.View != view {
		t.Error("camera matrices not recorded")
	}
}

func TestUploadPastCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic uploading past capacity")
		}
	}()
	NewNullSink(2).SyncAndDraw(3, make([]float32, 6), make([]float32, 12))
}

func TestShortSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on short position slice")
		}
	}()
	NewNullSink(4).SyncAndDraw(2, make([]float32, 3), make([]float32, 8))
}

func TestInstancedQuadsChecksBeforeUpload(t *testing.T) {
	// No device calls happen on these paths
	r := &InstancedQuads{capacity: 4}

	r.SyncAndDraw(0, nil, nil)
	if r.Draws() != 0 {
		t.Errorf("empty frame should not draw, got %d", r.Draws())
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic uploading past capacity")
		}
	}()
	r.SyncAndDraw(5, make([]float32, 10), make([]float32, 20))
}

func TestQuadCorners(t *testing.T) {
	c := quadCorners(0.1)
	if len(c) != quadVertices*2 {
		t.Fatalf("expected %d floats, got %d", quadVertices*2, len(c))
	}
	// Triangle strip order: bottom-left, bottom-right, top-left, top-right
	want := []float32{-0.1, -0.1, 0.1, -0.1, -0.1, 0.1, 0.1, 0.1}
	for i := range want {
		if c[i] != want[i] {
			t.Errorf("corner float %d = %f, expected %f", i, c[i], want[i])
		}
	}
}

func TestBufferSizes(t *testing.T) {
	r := &InstancedQuads{capacity: 10}
	if got := r.positionBytes(r.Cap()); got != 80 {
		t.Errorf("expected 80 position bytes, got %d", got)
	}
	if got := r.colorBytes(r.Cap()); got != 160 {
		t.Errorf("expected 160 color bytes, got %d", got)
	}
}
