package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEye(t *testing.T) {
	c := NewController(DefaultConfig())
	eye := c.Eye()
	assert.InDelta(t, 2, eye[0], 1e-9)
	assert.InDelta(t, 2, eye[1], 1e-9)
	assert.InDelta(t, 2, eye[2], 1e-9)
}

func TestViewMapsCenterToAxis(t *testing.T) {
	c := NewController(DefaultConfig())
	p := mgl64.TransformCoordinate(c.State().Center, c.View())
	assert.InDelta(t, 0, p[0], 1e-9)
	assert.InDelta(t, 0, p[1], 1e-9)
	assert.InDelta(t, -c.State().Radius, p[2], 1e-9)
}

func TestZoomNeverReachesZero(t *testing.T) {
	c := NewController(DefaultConfig())
	for i := 0; i < 10000; i++ {
		c.Zoom(5)
		require.Greater(t, c.State().Radius, 0.0)
	}
	assert.Equal(t, c.Config().MinRadius, c.State().Radius)

	for i := 0; i < 10000; i++ {
		c.Zoom(-5)
		require.Greater(t, c.State().Radius, 0.0)
	}
	assert.Equal(t, c.Config().MaxRadius, c.State().Radius)
}

func TestZoomOutIsMonotonic(t *testing.T) {
	c := NewController(DefaultConfig())
	prev := c.State().Radius
	for i := 0; i < 100; i++ {
		c.Zoom(-1)
		r := c.State().Radius
		require.GreaterOrEqual(t, r, prev)
		require.Greater(t, r, 0.0)
		prev = r
	}
}

func TestZoomIgnoresNonFinite(t *testing.T) {
	c := NewController(DefaultConfig())
	r := c.State().Radius
	c.Zoom(math.NaN())
	c.Zoom(math.Inf(-1))
	assert.Equal(t, r, c.State().Radius)
}

func TestZeroMinRadiusFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinRadius = 0
	c := NewController(cfg)
	assert.Greater(t, c.Config().MinRadius, 0.0)
}

func TestOrbitClampsElevation(t *testing.T) {
	c := NewController(DefaultConfig())
	c.Orbit(0, 1e6)
	assert.InDelta(t, mgl64.DegToRad(89), c.State().Elevation, 1e-12)
	c.Orbit(0, -1e7)
	assert.InDelta(t, -mgl64.DegToRad(89), c.State().Elevation, 1e-12)

	// View stays well defined at the clamp.
	v := c.View()
	for _, x := range v {
		require.False(t, math.IsNaN(x))
	}
}

func TestOrbitKeepsRadius(t *testing.T) {
	c := NewController(DefaultConfig())
	r := c.State().Radius
	c.Orbit(123, -45)
	assert.InDelta(t, r, c.Eye().Sub(c.State().Center).Len(), 1e-9)
}

func TestPanScalesWithRadius(t *testing.T) {
	near := NewController(DefaultConfig())
	near.Zoom(5)
	far := NewController(DefaultConfig())
	far.Zoom(-5)

	near.Pan(10, 0)
	far.Pan(10, 0)
	dn := near.State().Center.Len()
	df := far.State().Center.Len()
	require.Greater(t, dn, 0.0)
	assert.InDelta(t, far.State().Radius/near.State().Radius, df/dn, 1e-9)
}

func TestPanStaysInViewPlane(t *testing.T) {
	c := NewController(DefaultConfig())
	forward := c.State().Center.Sub(c.Eye()).Normalize()
	c.Pan(40, -25)
	moved := c.State().Center
	assert.InDelta(t, 0, moved.Dot(forward), 1e-9)
}

func TestPointerDrag(t *testing.T) {
	c := NewController(DefaultConfig())
	az := c.State().Azimuth

	c.Pointer(100, 100, true, false)
	assert.Equal(t, az, c.State().Azimuth, "press alone must not orbit")
	c.Pointer(110, 100, true, false)
	assert.InDelta(t, az-10*c.Config().OrbitSensitivity, c.State().Azimuth, 1e-12)

	c.Pointer(500, 500, false, false)
	c.Pointer(0, 0, false, true)
	assert.Equal(t, mgl64.Vec3{}, c.State().Center, "press alone must not pan")
	c.Pointer(5, 0, false, true)
	assert.NotEqual(t, mgl64.Vec3{}, c.State().Center)
}

func TestResetKeepsViewport(t *testing.T) {
	c := NewController(DefaultConfig())
	c.Resize(1920, 1080)
	c.Orbit(50, 50)
	c.Zoom(3)
	c.Reset()
	s := c.State()
	assert.Equal(t, 1920, s.Width)
	assert.Equal(t, 1080, s.Height)
	assert.Equal(t, DefaultHome().Radius, s.Radius)
}

func TestProjectionAspect(t *testing.T) {
	c := NewController(DefaultConfig())
	c.Resize(200, 100)
	p := c.Projection()
	assert.InDelta(t, p.At(1, 1)/2, p.At(0, 0), 1e-12)

	c.Resize(0, 100)
	assert.Equal(t, 200, c.State().Width)
}
