package linegl

import "image"

// Target is a pixel surface for rendering.
//
// SetPixel composites c over the existing pixel. Implementations must clip
// out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// ImageTarget renders into an *image.RGBA.
type ImageTarget struct {
	Img *image.RGBA
}

func (t ImageTarget) Size() (w, h int) {
	if t.Img == nil {
		return 0, 0
	}
	b := t.Img.Bounds()
	return b.Dx(), b.Dy()
}

func (t ImageTarget) Clear(c Color) {
	if t.Img == nil {
		return
	}
	pix := t.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

func (t ImageTarget) SetPixel(x, y int, c Color) {
	if t.Img == nil {
		return
	}
	b := t.Img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return
	}
	off := t.Img.PixOffset(b.Min.X+x, b.Min.Y+y)
	p := t.Img.Pix[off : off+4 : off+4]
	out := c.over(Color{R: p[0], G: p[1], B: p[2], A: p[3]})
	p[0], p[1], p[2], p[3] = out.R, out.G, out.B, out.A
}

// At returns the pixel at x, y. Out-of-bounds reads return the zero color.
func (t ImageTarget) At(x, y int) Color {
	if t.Img == nil {
		return Color{}
	}
	b := t.Img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return Color{}
	}
	off := t.Img.PixOffset(b.Min.X+x, b.Min.Y+y)
	p := t.Img.Pix[off : off+4 : off+4]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}
