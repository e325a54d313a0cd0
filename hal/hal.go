// Package hal is the boundary between the viewer and the outside world: it
// creates the drawing surface, polls input and presents frames.
//
// A Driver owns the surface for the duration of Run. Every call into the
// tick callback happens on one thread, the one that owns the surface.
package hal

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by a tick callback to end Run cooperatively.
	ErrClosed = errors.New("hal: surface closed")
	// ErrContextLost reports that the surface went away mid-run.
	ErrContextLost = errors.New("hal: graphics context lost")
	// ErrWindowUnavailable reports that no window can be created.
	ErrWindowUnavailable = errors.New("hal: window unavailable")
)

// WindowConfig describes the surface a driver creates.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	// Hz is the tick rate. Zero selects 60.
	Hz int
	// Ticks stops Run after N ticks (0 = run until cancelled).
	Ticks uint64
}

func (c WindowConfig) withDefaults() WindowConfig {
	if c.Width <= 0 {
		c.Width = 960
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Hz <= 0 {
		c.Hz = 60
	}
	if c.Title == "" {
		c.Title = "framesviewer"
	}
	return c
}

// Input is the state polled once per tick.
//
// Cursor and button fields are levels; WheelY, Reset and CloseRequested
// only cover the current tick.
type Input struct {
	Tick          uint64
	Width, Height int

	CursorX, CursorY float64
	Left, Middle     bool
	WheelY           float64

	// Reset is set when the camera reset key (R) was pressed.
	Reset bool
	// CloseRequested is set when the window is being closed or Escape
	// was pressed.
	CloseRequested bool
}

func (in *Input) beginTick(tick uint64) {
	in.Tick = tick
	in.WheelY = 0
	in.Reset = false
	in.CloseRequested = false
}

// TickFunc renders one tick into fb. Returning ErrClosed ends Run with a
// nil error; any other error ends Run with that error.
type TickFunc func(in *Input, fb *Framebuffer) error

// Driver runs a surface.
//
// Run creates the surface, calls ready exactly once when it can be drawn
// to, then calls tick at the configured rate until ctx is cancelled, the
// tick budget is spent or tick returns an error. A Run that fails before
// calling ready never created a usable surface.
type Driver interface {
	Run(ctx context.Context, cfg WindowConfig, ready func(), tick TickFunc) error
}

func finishTick(err error) (stop bool, out error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, ErrClosed) {
		return true, nil
	}
	return true, err
}
