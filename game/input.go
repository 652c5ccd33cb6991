package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Input is the user input sampled once per frame.
type Input struct {
	Cursor        mgl32.Vec2 // screen pixels, y down
	SpawnArmed    bool
	PanHeld       bool
	Wheel         float32 // notches, positive zooms in
	TogglePause   bool
	ExitRequested bool

	// Resized holds the new viewport size when the window was resized this frame
	Resized mgl32.Vec2
}

// InputSource produces one Input per frame.
type InputSource interface {
	Poll() Input
}

// RaylibInput reads the mouse and keyboard of the raylib window.
//
//	left mouse    spawn
//	middle mouse  drag the view
//	wheel         zoom
//	space         pause
//	esc, close    exit
type RaylibInput struct{}

// Poll implements InputSource.
func (RaylibInput) Poll() Input {
	mouse := rl.GetMousePosition()
	in := Input{
		Cursor:        mgl32.Vec2{mouse.X, mouse.Y},
		SpawnArmed:    rl.IsMouseButtonDown(rl.MouseButtonLeft),
		PanHeld:       rl.IsMouseButtonDown(rl.MouseButtonMiddle),
		Wheel:         rl.GetMouseWheelMove(),
		TogglePause:   rl.IsKeyPressed(rl.KeySpace),
		ExitRequested: rl.WindowShouldClose(),
	}
	if rl.IsWindowResized() {
		in.Resized = mgl32.Vec2{float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())}
	}
	return in
}

// ScriptedInput holds the spawn button down at a fixed screen point.
// Headless runs and tests use it in place of a window.
type ScriptedInput struct {
	Cursor mgl32.Vec2

	// ExitAfter requests exit on the given poll (1-based, 0 = never)
	ExitAfter int

	polls int
}

// Poll implements InputSource.
func (s *ScriptedInput) Poll() Input {
	s.polls++
	return Input{
		Cursor:        s.Cursor,
		SpawnArmed:    true,
		ExitRequested: s.ExitAfter > 0 && s.polls >= s.ExitAfter,
	}
}

// handleInput applies window, pause and camera input.
func (g *Game) handleInput(in Input, dt float32) {
	if in.ExitRequested {
		g.exit = true
	}

	if in.Resized[0] > 0 && in.Resized[1] > 0 {
		g.camera.Resize(in.Resized[0], in.Resized[1])
	}

	if in.TogglePause {
		g.paused = !g.paused
	}

	g.handleCameraInput(in, dt)
}

// handleCameraInput pans while the drag button is held and zooms on wheel notches.
func (g *Game) handleCameraInput(in Input, dt float32) {
	if in.PanHeld {
		// Keep the world point under the cursor fixed while dragging
		prev := g.camera.ScreenToWorld(g.lastCursor[0], g.lastCursor[1])
		cur := g.camera.ScreenToWorld(in.Cursor[0], in.Cursor[1])
		delta := prev.Sub(cur)
		g.camera.Pan(delta[0], delta[1])
	}
	g.lastCursor = in.Cursor

	if in.Wheel != 0 {
		g.camera.Scroll(in.Wheel)
	}
	g.camera.Update(dt)
}
