package viewer

import (
	"github.com/go-gl/mathgl/mgl64"

	"framesviewer/linegl"
)

var (
	colorX    = linegl.RGB(0xFF, 0x00, 0x00)
	colorY    = linegl.RGB(0x00, 0xFF, 0x00)
	colorZ    = linegl.RGB(0x00, 0x00, 0xFF)
	gridColor = linegl.RGBA(0xCC, 0xCC, 0xCC, 0x4D)
	textColor = linegl.RGB(0x20, 0x20, 0x20)
)

// axisVertices returns the X, Y and Z axis segments of a frame, each of
// the given length, as a line list.
func axisVertices(length float64) []linegl.Vertex {
	o := mgl64.Vec3{}
	return []linegl.Vertex{
		{Pos: o, Color: colorX}, {Pos: mgl64.Vec3{length, 0, 0}, Color: colorX},
		{Pos: o, Color: colorY}, {Pos: mgl64.Vec3{0, length, 0}, Color: colorY},
		{Pos: o, Color: colorZ}, {Pos: mgl64.Vec3{0, 0, length}, Color: colorZ},
	}
}

// gridVertices returns square line grids on the XY, XZ and YZ planes,
// spanning [0, extent] on both in-plane axes with lines every step.
func gridVertices(extent, step float64) []linegl.Vertex {
	if step <= 0 || extent <= 0 {
		return nil
	}
	n := int(extent/step + 1e-9)
	out := make([]linegl.Vertex, 0, (n+1)*12)
	line := func(a, b mgl64.Vec3) {
		out = append(out, linegl.Vertex{Pos: a, Color: gridColor}, linegl.Vertex{Pos: b, Color: gridColor})
	}
	// u and v index the two in-plane axes.
	for _, plane := range [3][2]int{{0, 1}, {0, 2}, {1, 2}} {
		u, v := plane[0], plane[1]
		for i := 0; i <= n; i++ {
			p := float64(i) * step
			var a, b mgl64.Vec3
			a[v], b[v], b[u] = p, p, extent
			line(a, b)
			a, b = mgl64.Vec3{}, mgl64.Vec3{}
			a[u], b[u], b[v] = p, p, extent
			line(a, b)
		}
	}
	return out
}
