package linegl

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a line endpoint in model space.
type Vertex struct {
	Pos   mgl64.Vec3
	Color Color
}

// LineStyle controls how a batch of segments is rasterized.
type LineStyle struct {
	// Width is the brush size in pixels; values below 1 draw 1 pixel.
	Width int
	// NoDepthWrite tests against the depth buffer without updating it, so
	// translucent geometry does not hide what is drawn after it.
	NoDepthWrite bool
}

// Renderer rasterizes line lists. Create it once and reuse it.
type Renderer struct {
	ClearColor Color
	Depth      bool

	t        Target
	w, h     int
	viewProj mgl64.Mat4
	depthBuf []float32
	lines    int
}

// NewRenderer returns a renderer with an optional depth buffer.
func NewRenderer(enableDepth bool) *Renderer {
	return &Renderer{
		ClearColor: RGB(0xF2, 0xF2, 0xF2),
		Depth:      enableDepth,
	}
}

// Begin starts a frame: it clears t and the depth buffer and fixes the
// view-projection used by subsequent draws.
func (r *Renderer) Begin(t Target, viewProj mgl64.Mat4) {
	r.t = t
	r.viewProj = viewProj
	r.lines = 0
	r.w, r.h = 0, 0
	if t == nil {
		return
	}
	r.w, r.h = t.Size()
	t.Clear(r.ClearColor)
	if !r.Depth || r.w <= 0 || r.h <= 0 {
		return
	}
	n := r.w * r.h
	if cap(r.depthBuf) < n {
		r.depthBuf = make([]float32, n)
	}
	r.depthBuf = r.depthBuf[:n]
	for i := range r.depthBuf {
		r.depthBuf[i] = math.MaxFloat32
	}
}

// LinesDrawn returns the number of segments that survived clipping since
// the last Begin.
func (r *Renderer) LinesDrawn() int { return r.lines }

// DrawLines draws consecutive vertex pairs as segments, transformed by
// model. A trailing unpaired vertex is ignored. The first vertex of each
// pair sets the segment color.
func (r *Renderer) DrawLines(model mgl64.Mat4, verts []Vertex, style LineStyle) {
	if r.t == nil || r.w <= 0 || r.h <= 0 {
		return
	}
	mvp := r.viewProj.Mul4(model)
	width := style.Width
	if width < 1 {
		width = 1
	}
	for i := 0; i+1 < len(verts); i += 2 {
		a := mvp.Mul4x1(verts[i].Pos.Vec4(1))
		b := mvp.Mul4x1(verts[i+1].Pos.Vec4(1))
		a, b, ok := clipSegment(a, b)
		if !ok {
			continue
		}
		x0, y0, z0 := r.toScreen(a)
		x1, y1, z1 := r.toScreen(b)
		r.lines++
		r.rasterize(x0, y0, z0, x1, y1, z1, verts[i].Color, width, !style.NoDepthWrite)
	}
}

// Project maps a model-space point to pixel coordinates. ok is false when
// the point is outside the view volume.
func (r *Renderer) Project(model mgl64.Mat4, p mgl64.Vec3) (x, y int, ok bool) {
	if r.w <= 0 || r.h <= 0 {
		return 0, 0, false
	}
	c := r.viewProj.Mul4(model).Mul4x1(p.Vec4(1))
	if !insideClip(c) {
		return 0, 0, false
	}
	x, y, _ = r.toScreen(c)
	return x, y, true
}

func (r *Renderer) toScreen(c mgl64.Vec4) (x, y int, z float32) {
	inv := 1 / c[3]
	nx, ny, nz := c[0]*inv, c[1]*inv, c[2]*inv
	sx := (nx*0.5 + 0.5) * float64(r.w-1)
	sy := (1 - (ny*0.5 + 0.5)) * float64(r.h-1)
	return int(math.Round(sx)), int(math.Round(sy)), float32(nz*0.5 + 0.5)
}

func (r *Renderer) rasterize(x0, y0 int, z0 float32, x1, y1 int, z1 float32, c Color, width int, writeDepth bool) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	steps := max(dx, -dy)
	err := dx + dy
	for i := 0; i <= steps; i++ {
		z := z0
		if steps > 0 {
			z = z0 + (z1-z0)*float32(i)/float32(steps)
		}
		r.plot(x0, y0, z, c, width, writeDepth)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) plot(x, y int, z float32, c Color, width int, writeDepth bool) {
	lo := -(width - 1) / 2
	hi := lo + width
	for py := y + lo; py < y+hi; py++ {
		for px := x + lo; px < x+hi; px++ {
			if !r.depthTest(px, py, z, writeDepth) {
				continue
			}
			r.t.SetPixel(px, py, c)
		}
	}
}

func (r *Renderer) depthTest(x, y int, z float32, write bool) bool {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return false
	}
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	idx := y*r.w + x
	if z > r.depthBuf[idx] {
		return false
	}
	if write {
		r.depthBuf[idx] = z
	}
	return true
}

// clipSegment clips a clip-space segment against the canonical view volume
// -w <= x, y, z <= w (Liang-Barsky in homogeneous coordinates).
func clipSegment(a, b mgl64.Vec4) (mgl64.Vec4, mgl64.Vec4, bool) {
	if !finite(a) || !finite(b) {
		return a, b, false
	}
	t0, t1 := 0.0, 1.0
	d := b.Sub(a)
	// Each plane is expressed as dist(p) = w + s*p[axis] >= 0.
	for axis := 0; axis < 3; axis++ {
		for _, s := range [2]float64{1, -1} {
			da := a[3] + s*a[axis]
			db := b[3] + s*b[axis]
			if da < 0 && db < 0 {
				return a, b, false
			}
			if da >= 0 && db >= 0 {
				continue
			}
			t := da / (da - db)
			if da < 0 {
				t0 = math.Max(t0, t)
			} else {
				t1 = math.Min(t1, t)
			}
			if t0 > t1 {
				return a, b, false
			}
		}
	}
	na := a.Add(d.Mul(t0))
	nb := a.Add(d.Mul(t1))
	if na[3] <= 0 || nb[3] <= 0 || !finite(na) || !finite(nb) {
		return a, b, false
	}
	return na, nb, true
}

func insideClip(c mgl64.Vec4) bool {
	w := c[3]
	if w <= 0 || !finite(c) {
		return false
	}
	return c[0] >= -w && c[0] <= w && c[1] >= -w && c[1] <= w && c[2] >= -w && c[2] <= w
}

// finite reports whether every component is a real number. Overflowing
// model matrices produce Inf and NaN, which no comparison can clip.
func finite(c mgl64.Vec4) bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
