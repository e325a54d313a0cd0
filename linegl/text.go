package linegl

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Font is the face used by DrawText.
var Font tinyfont.Fonter = &proggy.TinySZ8pt7b

// TextHeight is the line advance of Font in pixels.
const TextHeight = 10

// DrawText writes s with its top-left corner at x, y.
func DrawText(t Target, x, y int, s string, c Color) {
	if t == nil || s == "" {
		return
	}
	d := displayer{t: t}
	tinyfont.WriteLine(d, Font, int16(x), int16(y+TextHeight-2), s, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(s string) int {
	_, w := tinyfont.LineWidth(Font, s)
	return int(w)
}

// displayer adapts a Target to the tinygo drivers.Displayer interface.
type displayer struct {
	t Target
}

var _ drivers.Displayer = displayer{}

func (d displayer) Size() (x, y int16) {
	w, h := d.t.Size()
	return int16(w), int16(h)
}

func (d displayer) SetPixel(x, y int16, c color.RGBA) {
	d.t.SetPixel(int(x), int(y), Color{R: c.R, G: c.G, B: c.B, A: c.A})
}

func (d displayer) Display() error { return nil }
