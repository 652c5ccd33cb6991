package game

import (
	"fmt"
	"log/slog"
)

// refreshTitle updates the window title with the particle count and the mean
// frame time once per title interval.
func (g *Game) refreshTitle() {
	now := g.clock.Now()
	elapsed := now - g.lastTitleTime
	if elapsed < g.cfg.Telemetry.TitleInterval {
		return
	}

	frames := g.frame - g.lastTitleFrame
	msPerFrame := 0.0
	if frames > 0 {
		msPerFrame = elapsed * 1000 / float64(frames)
	}
	g.presenter.SetTitle(formatTitle(g.cfg.Screen.Title, g.store.Len(), msPerFrame))

	g.lastTitleTime = now
	g.lastTitleFrame = g.frame
}

// formatTitle builds the window title text.
func formatTitle(base string, live int, msPerFrame float64) string {
	return fmt.Sprintf("%s | %d particles | %.2f ms/frame", base, live, msPerFrame)
}

// logState logs the current store occupancy.
func (g *Game) logState() {
	slog.Info("state",
		"frame", g.frame,
		"live", g.store.Len(),
		"capacity", g.store.Cap(),
		"paused", g.paused,
		"zoom", g.camera.Zoom,
	)
}
