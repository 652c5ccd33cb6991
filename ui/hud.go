package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Live        int
	Capacity    int
	Frame       int64
	FrameTimeMS float64
	Zoom        int
	Paused      bool
}

// Fill returns the fraction of the store in use.
func (d HUDData) Fill() float32 {
	if d.Capacity <= 0 {
		return 0
	}
	return float32(d.Live) / float32(d.Capacity)
}

// Lines returns the label/value rows shown in the HUD panel.
func (d HUDData) Lines() [][2]string {
	fps := 0
	if d.FrameTimeMS > 0 {
		fps = int(1000/d.FrameTimeMS + 0.5)
	}
	return [][2]string{
		{"Particles", fmt.Sprintf("%d / %d", d.Live, d.Capacity)},
		{"Frame", fmt.Sprintf("%d", d.Frame)},
		{"Time", fmt.Sprintf("%.2f ms (%d fps)", d.FrameTimeMS, fps)},
		{"Zoom", fmt.Sprintf("%+d", d.Zoom)},
	}
}

// PauseLabel returns the pause button text.
func (d HUDData) PauseLabel() string {
	if d.Paused {
		return "Resume"
	}
	return "Pause"
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        10,
		y:        10,
		width:    300,
	}
}

// Draw renders the HUD and reports whether the pause button was clicked.
func (h *HUD) Draw(data HUDData) bool {
	r := h.renderer
	padding := r.Theme.Padding
	lines := data.Lines()

	height := padding*2 + r.Theme.LineHeight + 4 + int32(len(lines)+1)*r.Theme.LineHeight + 2 + 34
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + padding
	y := h.y + padding
	y = r.DrawSectionHeader(x, y, data.Title)

	for _, l := range lines {
		y = r.DrawLabelValue(x, y, l[0], l[1])
	}
	y = r.DrawFillBar(x, y, "Fill", data.Fill(), h.width-padding*2)

	clicked := gui.Button(rl.Rectangle{X: float32(x), Y: float32(y + 4), Width: 100, Height: 26}, data.PauseLabel())
	if data.Paused {
		rl.DrawText("PAUSED", x+110, y+10, r.Theme.FontSize, r.Theme.PausedColor)
	}

	return clicked
}
