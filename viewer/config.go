package viewer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"framesviewer/camera"
	"framesviewer/hal"

	"github.com/go-gl/mathgl/mgl64"
)

// Config controls the window, the scene and the camera.
type Config struct {
	Title  string
	Width  int
	Height int
	// Hz is the render tick rate.
	Hz int
	// Ticks stops the render loop after N ticks (0 = unlimited).
	Ticks uint64

	// AxisLength is the drawn length of each frame axis in meters.
	AxisLength float64
	// AxisWidth is the axis line width in pixels.
	AxisWidth int

	ShowGrid   bool
	GridExtent float64 // meters
	GridStep   float64 // meters

	// Labels draws each frame's name next to its origin.
	Labels bool
	// HUD draws the frame count and tick rate in the corner.
	HUD bool

	Camera camera.Config
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Title:      "framesviewer",
		Width:      960,
		Height:     720,
		Hz:         60,
		AxisLength: 0.1,
		AxisWidth:  3,
		ShowGrid:   true,
		GridExtent: 1.0,
		GridStep:   0.1,
		HUD:        true,
		Camera:     camera.DefaultConfig(),
	}
}

// maxGridLines bounds the per-plane line count.
const maxGridLines = 1000

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Hz <= 0 || c.Hz > 1000 {
		return fmt.Errorf("%w: hz must be in 1..1000, got %d", ErrInvalidConfig, c.Hz)
	}
	if !positive(c.AxisLength) {
		return fmt.Errorf("%w: axis_length must be positive, got %g", ErrInvalidConfig, c.AxisLength)
	}
	if c.AxisWidth < 1 || c.AxisWidth > 32 {
		return fmt.Errorf("%w: axis_width must be in 1..32, got %d", ErrInvalidConfig, c.AxisWidth)
	}
	if c.ShowGrid {
		if !positive(c.GridStep) || !positive(c.GridExtent) {
			return fmt.Errorf("%w: grid_step and grid_extent must be positive, got %g and %g", ErrInvalidConfig, c.GridStep, c.GridExtent)
		}
		if c.GridExtent/c.GridStep > maxGridLines {
			return fmt.Errorf("%w: grid has more than %d lines per plane", ErrInvalidConfig, maxGridLines)
		}
	}

	cam := c.Camera
	if !positive(cam.MinRadius) {
		return fmt.Errorf("%w: camera min_radius must be positive, got %g", ErrInvalidConfig, cam.MinRadius)
	}
	if !positive(cam.MaxRadius) || cam.MaxRadius < cam.MinRadius {
		return fmt.Errorf("%w: camera max_radius must be at least min_radius, got %g", ErrInvalidConfig, cam.MaxRadius)
	}
	if !positive(cam.MaxElevation) || cam.MaxElevation >= math.Pi/2 {
		return fmt.Errorf("%w: camera max_elevation must be in (0, 90) degrees", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"orbit_sensitivity": cam.OrbitSensitivity,
		"pan_sensitivity":   cam.PanSensitivity,
		"zoom_rate":         cam.ZoomRate,
	} {
		if !positive(v) {
			return fmt.Errorf("%w: camera %s must be positive, got %g", ErrInvalidConfig, name, v)
		}
	}
	h := cam.Home
	if !positive(h.FovY) || h.FovY >= math.Pi {
		return fmt.Errorf("%w: camera fov must be in (0, 180) degrees", ErrInvalidConfig)
	}
	if !positive(h.Near) || !(h.Far > h.Near) || math.IsInf(h.Far, 0) {
		return fmt.Errorf("%w: camera clip planes must satisfy 0 < near < far, got %g, %g", ErrInvalidConfig, h.Near, h.Far)
	}
	if !(h.Radius >= cam.MinRadius && h.Radius <= cam.MaxRadius) {
		return fmt.Errorf("%w: camera radius must be in [%g, %g], got %g", ErrInvalidConfig, cam.MinRadius, cam.MaxRadius, h.Radius)
	}
	if !(math.Abs(h.Elevation) <= cam.MaxElevation) {
		return fmt.Errorf("%w: camera elevation must be within max_elevation", ErrInvalidConfig)
	}
	return nil
}

func (c Config) window() hal.WindowConfig {
	return hal.WindowConfig{
		Title:  c.Title,
		Width:  c.Width,
		Height: c.Height,
		Hz:     c.Hz,
		Ticks:  c.Ticks,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// fileConfig is the on-disk form. Omitted fields keep their defaults.
type fileConfig struct {
	Title      *string     `json:"title,omitempty"`
	Width      *int        `json:"width,omitempty"`
	Height     *int        `json:"height,omitempty"`
	Hz         *int        `json:"hz,omitempty"`
	Ticks      *uint64     `json:"ticks,omitempty"`
	AxisLength *float64    `json:"axis_length,omitempty"`
	AxisWidth  *int        `json:"axis_width,omitempty"`
	ShowGrid   *bool       `json:"show_grid,omitempty"`
	GridExtent *float64    `json:"grid_extent,omitempty"`
	GridStep   *float64    `json:"grid_step,omitempty"`
	Labels     *bool       `json:"labels,omitempty"`
	HUD        *bool       `json:"hud,omitempty"`
	Camera     *fileCamera `json:"camera,omitempty"`
}

type fileCamera struct {
	OrbitSensitivity *float64    `json:"orbit_sensitivity,omitempty"`
	PanSensitivity   *float64    `json:"pan_sensitivity,omitempty"`
	ZoomRate         *float64    `json:"zoom_rate,omitempty"`
	MinRadius        *float64    `json:"min_radius,omitempty"`
	MaxRadius        *float64    `json:"max_radius,omitempty"`
	MaxElevationDeg  *float64    `json:"max_elevation_deg,omitempty"`
	FovYDeg          *float64    `json:"fov_y_deg,omitempty"`
	Near             *float64    `json:"near,omitempty"`
	Far              *float64    `json:"far,omitempty"`
	Center           *[3]float64 `json:"center,omitempty"`
	Radius           *float64    `json:"radius,omitempty"`
	AzimuthDeg       *float64    `json:"azimuth_deg,omitempty"`
	ElevationDeg     *float64    `json:"elevation_deg,omitempty"`
}

// LoadConfig reads a JSON config file on top of DefaultConfig and
// validates the result. The file must have a .json extension and be at
// most 1MB.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	fc.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (fc *fileConfig) apply(c *Config) {
	set(&c.Title, fc.Title)
	set(&c.Width, fc.Width)
	set(&c.Height, fc.Height)
	set(&c.Hz, fc.Hz)
	set(&c.Ticks, fc.Ticks)
	set(&c.AxisLength, fc.AxisLength)
	set(&c.AxisWidth, fc.AxisWidth)
	set(&c.ShowGrid, fc.ShowGrid)
	set(&c.GridExtent, fc.GridExtent)
	set(&c.GridStep, fc.GridStep)
	set(&c.Labels, fc.Labels)
	set(&c.HUD, fc.HUD)

	fcam := fc.Camera
	if fcam == nil {
		return
	}
	cam := &c.Camera
	set(&cam.OrbitSensitivity, fcam.OrbitSensitivity)
	set(&cam.PanSensitivity, fcam.PanSensitivity)
	set(&cam.ZoomRate, fcam.ZoomRate)
	set(&cam.MinRadius, fcam.MinRadius)
	set(&cam.MaxRadius, fcam.MaxRadius)
	setDeg(&cam.MaxElevation, fcam.MaxElevationDeg)

	home := &cam.Home
	setDeg(&home.FovY, fcam.FovYDeg)
	set(&home.Near, fcam.Near)
	set(&home.Far, fcam.Far)
	set(&home.Radius, fcam.Radius)
	setDeg(&home.Azimuth, fcam.AzimuthDeg)
	setDeg(&home.Elevation, fcam.ElevationDeg)
	if fcam.Center != nil {
		home.Center = mgl64.Vec3(*fcam.Center)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDeg(dst *float64, deg *float64) {
	if deg != nil {
		*dst = mgl64.DegToRad(*deg)
	}
}
