package viewer

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "viewer.json", `{
  "width": 1280,
  "labels": true,
  "camera": {"zoom_rate": 0.2, "fov_y_deg": 60, "center": [0.5, 0, 0.5]}
}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Width = 1280
	want.Labels = true
	want.Camera.ZoomRate = 0.2
	want.Camera.Home.FovY = mgl64.DegToRad(60)
	want.Camera.Home.Center = mgl64.Vec3{0.5, 0, 0.5}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"extension", "viewer.yaml", `{}`, ".json extension"},
		{"syntax", "viewer.json", `{"width": `, "parse config JSON"},
		{"type", "viewer.json", `{"width": "wide"}`, "parse config JSON"},
		{"invalid value", "viewer.json", `{"hz": 0}`, "invalid configuration"},
		{"radius out of range", "viewer.json", `{"camera": {"radius": 100}}`, "camera radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigTooLarge(t *testing.T) {
	body := `{"title": "` + strings.Repeat("x", 1<<20) + `"}`
	_, err := LoadConfig(writeConfig(t, "big.json", body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero hz", func(c *Config) { c.Hz = 0 }},
		{"nan axis length", func(c *Config) { c.AxisLength = math.NaN() }},
		{"axis width", func(c *Config) { c.AxisWidth = 0 }},
		{"grid step", func(c *Config) { c.GridStep = 0 }},
		{"dense grid", func(c *Config) { c.GridStep = 1e-6 }},
		{"min radius", func(c *Config) { c.Camera.MinRadius = 0 }},
		{"max radius", func(c *Config) { c.Camera.MaxRadius = c.Camera.MinRadius / 2 }},
		{"elevation", func(c *Config) { c.Camera.MaxElevation = math.Pi / 2 }},
		{"zoom rate", func(c *Config) { c.Camera.ZoomRate = -1 }},
		{"fov", func(c *Config) { c.Camera.Home.FovY = 0 }},
		{"clip planes", func(c *Config) { c.Camera.Home.Far = c.Camera.Home.Near }},
		{"radius above max", func(c *Config) { c.Camera.Home.Radius = c.Camera.MaxRadius * 2 }},
		{"radius below min", func(c *Config) { c.Camera.Home.Radius = c.Camera.MinRadius / 2 }},
		{"nan radius", func(c *Config) { c.Camera.Home.Radius = math.NaN() }},
		{"home elevation", func(c *Config) { c.Camera.Home.Elevation = c.Camera.MaxElevation + 0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	cfg.ShowGrid = false
	cfg.GridStep = 0
	assert.NoError(t, cfg.Validate(), "grid settings are ignored when the grid is hidden")
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)
	SetLogger(nil)
	require.NotNil(t, Logger())
	assert.False(t, Logger().Enabled(context.Background(), 0))
}
