package linegl

import "image/color"

// Color is an RGBA color in 8-bit channels, not premultiplied.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }

// NRGBA converts to the standard library color type.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// over composites c on top of dst (source-over).
func (c Color) over(dst Color) Color {
	if c.A == 0xFF {
		return c
	}
	if c.A == 0 {
		return dst
	}
	a := uint32(c.A)
	ia := 255 - a
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*ia + 127) / 255)
	}
	outA := a + uint32(dst.A)*ia/255
	return Color{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: uint8(outA)}
}
