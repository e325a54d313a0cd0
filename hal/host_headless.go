package hal

import (
	"context"
	"fmt"
	"time"
)

// Headless runs ticks on a time.Ticker without opening a window.
type Headless struct {
	// Script, when set, fills in the input for each tick after the
	// per-tick fields have been reset.
	Script func(in *Input)
	// Frames, when set, receives the framebuffer before the first tick.
	Frames func(fb *Framebuffer)
}

// Run implements Driver.
func (h Headless) Run(ctx context.Context, cfg WindowConfig, ready func(), tick TickFunc) error {
	cfg = cfg.withDefaults()

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fb := NewFramebuffer(cfg.Width, cfg.Height)
	defer fb.Close()
	if h.Frames != nil {
		h.Frames(fb)
	}
	in := &Input{Width: cfg.Width, Height: cfg.Height}

	t := time.NewTicker(d)
	defer t.Stop()

	if ready != nil {
		ready()
	}

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			in.beginTick(n)
			if h.Script != nil {
				h.Script(in)
			}
			fb.Resize(in.Width, in.Height)
			if stop, err := finishTick(tick(in, fb)); stop {
				return err
			}
			n++
			if cfg.Ticks > 0 && n >= cfg.Ticks {
				return nil
			}
		}
	}
}
