package game

import rl "github.com/gen2brain/raylib-go/raylib"

// RaylibPresenter clears and swaps the raylib window.
type RaylibPresenter struct {
	Background rl.Color
}

// BeginFrame implements Presenter.
func (p RaylibPresenter) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(p.Background)
	// Flush raylib's own batch so raw GL draws land after the clear
	rl.DrawRenderBatchActive()
}

// EndFrame implements Presenter.
func (RaylibPresenter) EndFrame() {
	rl.EndDrawing()
}

// SetTitle implements Presenter.
func (RaylibPresenter) SetTitle(title string) {
	rl.SetWindowTitle(title)
}

// nopPresenter is used when there is no window.
type nopPresenter struct{}

func (nopPresenter) BeginFrame()     {}
func (nopPresenter) EndFrame()       {}
func (nopPresenter) SetTitle(string) {}
