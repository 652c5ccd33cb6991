// Package camera provides the orthographic 2D camera and the screen to world mapping.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Depth range of the orthographic projection.
const (
	near = 0.0
	far  = 1000.0
)

// Camera is an orthographic view of Width x Height world units centered on (X, Y).
// World y points up; screen y points down.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Visible world extents
	Width, Height float32

	// Viewport dimensions (screen size in pixels)
	ViewportW, ViewportH float32

	// Zoom is the number of steps zoomed in (negative when zoomed out)
	Zoom int

	// ZoomStep is the world units removed from each extent per step in
	ZoomStep float32

	// ZoomDuration is the seconds taken to ease to a new zoom level
	ZoomDuration float32

	baseW, baseH float32
	targetW      float32
	targetH      float32
	tweenW       *gween.Tween
	tweenH       *gween.Tween
}

// New creates a camera at the origin showing width x height world units.
func New(viewportW, viewportH, width, height, zoomStep, zoomDuration float32) *Camera {
	return &Camera{
		Width:        width,
		Height:       height,
		ViewportW:    viewportW,
		ViewportH:    viewportH,
		ZoomStep:     zoomStep,
		ZoomDuration: zoomDuration,
		baseW:        width,
		baseH:        height,
		targetW:      width,
		targetH:      height,
	}
}

// ScreenToWorld converts screen pixel coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) mgl32.Vec2 {
	nx := sx / c.ViewportW
	ny := sy / c.ViewportH
	wx := nx*c.Width - c.Width/2
	wy := -(ny*c.Height - c.Height/2)
	return mgl32.Vec2{wx + c.X, wy + c.Y}
}

// WorldToScreen converts world coordinates to screen pixel coordinates.
func (c *Camera) WorldToScreen(w mgl32.Vec2) (sx, sy float32) {
	dx := w[0] - c.X
	dy := w[1] - c.Y
	sx = (dx + c.Width/2) / c.Width * c.ViewportW
	sy = (c.Height/2 - dy) / c.Height * c.ViewportH
	return sx, sy
}

// Projection returns the orthographic projection for the current extents.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Ortho(-c.Width/2, c.Width/2, -c.Height/2, c.Height/2, near, far)
}

// View returns the view matrix looking down -z at the camera center.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(
		mgl32.Vec3{c.X, c.Y, 1},
		mgl32.Vec3{c.X, c.Y, 0},
		mgl32.Vec3{0, 1, 0},
	)
}

// Pan moves the camera center by a world-space delta.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx
	c.Y += dy
}

// Scroll zooms one step per wheel notch: positive zooms in, negative zooms out.
// Zooming in stops while another step would leave an extent non-positive.
func (c *Camera) Scroll(notches float32) {
	switch {
	case notches > 0:
		if c.targetW-c.ZoomStep <= 0 || c.targetH-c.ZoomStep <= 0 {
			return
		}
		c.targetW -= c.ZoomStep
		c.targetH -= c.ZoomStep
		c.Zoom++
	case notches < 0:
		c.targetW += c.ZoomStep
		c.targetH += c.ZoomStep
		c.Zoom--
	default:
		return
	}
	c.startZoom()
}

// startZoom eases the extents from their current value to the target.
func (c *Camera) startZoom() {
	if c.ZoomDuration <= 0 {
		c.Width, c.Height = c.targetW, c.targetH
		c.tweenW, c.tweenH = nil, nil
		return
	}
	c.tweenW = gween.New(c.Width, c.targetW, c.ZoomDuration, ease.OutQuad)
	c.tweenH = gween.New(c.Height, c.targetH, c.ZoomDuration, ease.OutQuad)
}

// Update advances any zoom animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.tweenW == nil {
		return
	}
	w, doneW := c.tweenW.Update(dt)
	h, doneH := c.tweenH.Update(dt)
	c.Width, c.Height = w, h
	if doneW && doneH {
		c.Width, c.Height = c.targetW, c.targetH
		c.tweenW, c.tweenH = nil, nil
	}
}

// Zooming reports whether a zoom animation is in progress.
func (c *Camera) Zooming() bool {
	return c.tweenW != nil
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to the origin and the initial extents.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.Zoom = 0
	c.Width, c.Height = c.baseW, c.baseH
	c.targetW, c.targetH = c.baseW, c.baseH
	c.tweenW, c.tweenH = nil, nil
}
