package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Controller applies orbit, pan and zoom input to a State.
type Controller struct {
	cfg   Config
	state State

	// Drag tracking for Pointer.
	lastX, lastY float64
	tracking     bool
}

// NewController returns a controller positioned at cfg.Home.
func NewController(cfg Config) *Controller {
	cfg = cfg.withDefaults()
	cfg.Home = fillState(cfg.Home)
	c := &Controller{cfg: cfg}
	c.Reset()
	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns a copy of the current camera state.
func (c *Controller) State() State { return c.state }

// Reset restores the home pose while keeping the viewport size.
func (c *Controller) Reset() {
	w, h := c.state.Width, c.state.Height
	c.state = c.cfg.Home
	c.clamp()
	if w > 0 && h > 0 {
		c.state.Width, c.state.Height = w, h
	}
}

// Resize records the viewport size used for the aspect ratio.
func (c *Controller) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.state.Width, c.state.Height = width, height
}

// Orbit rotates the eye around the center by a pointer delta in pixels.
func (c *Controller) Orbit(dx, dy float64) {
	c.state.Azimuth -= dx * c.cfg.OrbitSensitivity
	c.state.Elevation += dy * c.cfg.OrbitSensitivity
	c.state.Azimuth = math.Remainder(c.state.Azimuth, 2*math.Pi)
	c.clamp()
}

// Pan moves the center within the current view plane. The offset scales
// with the radius so on-screen speed does not depend on zoom.
func (c *Controller) Pan(dx, dy float64) {
	right, up := c.basis()
	scale := c.state.Radius * c.cfg.PanSensitivity
	c.state.Center = c.state.Center.
		Sub(right.Mul(dx * scale)).
		Add(up.Mul(dy * scale))
}

// Zoom scales the radius by exp(-scroll*ZoomRate). Positive scroll moves
// the eye closer. The radius never leaves [MinRadius, MaxRadius].
func (c *Controller) Zoom(scroll float64) {
	if math.IsNaN(scroll) || math.IsInf(scroll, 0) {
		return
	}
	c.state.Radius *= math.Exp(-scroll * c.cfg.ZoomRate)
	c.clamp()
}

// Pointer feeds the cursor position and button state for one tick. A drag
// with the left button orbits, with the middle button pans.
func (c *Controller) Pointer(x, y float64, left, middle bool) {
	if !left && !middle {
		c.tracking = false
		return
	}
	if !c.tracking {
		c.tracking = true
		c.lastX, c.lastY = x, y
		return
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}
	if left {
		c.Orbit(dx, dy)
	} else {
		c.Pan(dx, dy)
	}
}

// Eye returns the world-space eye position.
func (c *Controller) Eye() mgl64.Vec3 {
	return c.state.Center.Add(c.direction().Mul(c.state.Radius))
}

// View returns the look-at view matrix.
func (c *Controller) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.state.Center, worldUp)
}

// Projection returns the perspective projection for the current viewport.
func (c *Controller) Projection() mgl64.Mat4 {
	aspect := 1.0
	if c.state.Width > 0 && c.state.Height > 0 {
		aspect = float64(c.state.Width) / float64(c.state.Height)
	}
	return mgl64.Perspective(c.state.FovY, aspect, c.state.Near, c.state.Far)
}

// ViewProjection returns Projection * View.
func (c *Controller) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// direction is the unit vector from the center to the eye.
func (c *Controller) direction() mgl64.Vec3 {
	ce := math.Cos(c.state.Elevation)
	return mgl64.Vec3{
		ce * math.Sin(c.state.Azimuth),
		math.Sin(c.state.Elevation),
		ce * math.Cos(c.state.Azimuth),
	}
}

// basis returns the camera right and up vectors in world space.
func (c *Controller) basis() (right, up mgl64.Vec3) {
	forward := c.direction().Mul(-1)
	right = forward.Cross(worldUp).Normalize()
	up = right.Cross(forward).Normalize()
	return right, up
}

func (c *Controller) clamp() {
	c.state.Elevation = mgl64.Clamp(c.state.Elevation, -c.cfg.MaxElevation, c.cfg.MaxElevation)
	if math.IsNaN(c.state.Radius) {
		c.state.Radius = c.cfg.Home.Radius
	}
	c.state.Radius = mgl64.Clamp(c.state.Radius, c.cfg.MinRadius, c.cfg.MaxRadius)
}

func fillState(s State) State {
	d := DefaultHome()
	if s.Radius <= 0 {
		s.Radius = d.Radius
	}
	if s.FovY <= 0 || s.FovY >= math.Pi {
		s.FovY = d.FovY
	}
	if s.Near <= 0 {
		s.Near = d.Near
	}
	if s.Far <= s.Near {
		s.Far = math.Max(d.Far, s.Near*2)
	}
	if s.Width <= 0 || s.Height <= 0 {
		s.Width, s.Height = d.Width, d.Height
	}
	return s
}
