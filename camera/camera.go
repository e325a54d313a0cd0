// Package camera turns pointer and scroll input into an orbiting camera.
//
// The camera orbits Center at distance Radius. Azimuth is measured about
// the world Y axis starting from +Z, Elevation is the angle above the XZ
// plane. The controller is not safe for concurrent use; the render loop
// owns it.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the full camera pose plus projection parameters.
type State struct {
	Center    mgl64.Vec3
	Radius    float64
	Azimuth   float64 // radians
	Elevation float64 // radians
	FovY      float64 // radians
	Near, Far float64
	Width     int
	Height    int
}

// Config holds the interaction constants. Zero fields take the default.
type Config struct {
	// OrbitSensitivity is radians per pixel of drag.
	OrbitSensitivity float64
	// PanSensitivity is the view-plane offset per pixel, as a fraction of
	// the radius.
	PanSensitivity float64
	// ZoomRate scales scroll steps: radius *= exp(-scroll * ZoomRate).
	ZoomRate float64
	// MinRadius and MaxRadius bound zoom. MinRadius must be positive.
	MinRadius float64
	MaxRadius float64
	// MaxElevation keeps the camera off the poles (radians).
	MaxElevation float64

	// Home is the pose Reset returns to.
	Home State
}

// DefaultHome looks at the origin from (2, 2, 2) with Y up.
func DefaultHome() State {
	return State{
		Radius:    2 * math.Sqrt(3),
		Azimuth:   math.Pi / 4,
		Elevation: math.Asin(1 / math.Sqrt(3)),
		FovY:      math.Pi / 4,
		Near:      0.01,
		Far:       100,
		Width:     800,
		Height:    600,
	}
}

// DefaultConfig returns the stock sensitivities.
func DefaultConfig() Config {
	return Config{
		OrbitSensitivity: 0.01,
		PanSensitivity:   0.0015,
		ZoomRate:         0.1,
		MinRadius:        0.05,
		MaxRadius:        50,
		MaxElevation:     mgl64.DegToRad(89),
		Home:             DefaultHome(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OrbitSensitivity == 0 {
		c.OrbitSensitivity = d.OrbitSensitivity
	}
	if c.PanSensitivity == 0 {
		c.PanSensitivity = d.PanSensitivity
	}
	if c.ZoomRate == 0 {
		c.ZoomRate = d.ZoomRate
	}
	if c.MinRadius <= 0 {
		c.MinRadius = d.MinRadius
	}
	if c.MaxRadius < c.MinRadius {
		c.MaxRadius = math.Max(d.MaxRadius, c.MinRadius)
	}
	if c.MaxElevation <= 0 || c.MaxElevation >= math.Pi/2 {
		c.MaxElevation = d.MaxElevation
	}
	if c.Home == (State{}) {
		c.Home = d.Home
	}
	return c
}
