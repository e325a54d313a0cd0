//go:build cgo

package hal

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebiten allows one RunGame per process.
var windowUsed atomic.Bool

// Window shows the framebuffer in a desktop window and forwards pointer and
// keyboard input. Run needs Main to be serving the main goroutine, and only
// one window can be opened per process.
type Window struct{}

// Run implements Driver. Ticks run inside ebiten's update callback on the
// main thread; the calling goroutine blocks until the window is gone.
func (Window) Run(ctx context.Context, cfg WindowConfig, ready func(), tick TickFunc) error {
	cfg = cfg.withDefaults()
	if activeMain.Load() == nil {
		return fmt.Errorf("%w: hal.Main is not running", ErrWindowUnavailable)
	}
	if !windowUsed.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: a window was already opened by this process", ErrWindowUnavailable)
	}

	g := &windowGame{
		ctx:   ctx,
		cfg:   cfg,
		ready: ready,
		tick:  tick,
		fb:    NewFramebuffer(cfg.Width, cfg.Height),
		in:    &Input{Width: cfg.Width, Height: cfg.Height},
		w:     cfg.Width,
		h:     cfg.Height,
	}
	defer g.fb.Close()

	var runErr error
	err := onMain(ctx, func() {
		ebiten.SetWindowTitle(cfg.Title)
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetWindowClosingHandled(true)
		ebiten.SetTPS(cfg.Hz)
		runErr = ebiten.RunGame(g)
	})
	if err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if g.cancelled {
		return ctx.Err()
	}
	return nil
}

type windowGame struct {
	ctx   context.Context
	cfg   WindowConfig
	ready func()
	tick  TickFunc

	fb *Framebuffer
	in *Input
	n  uint64

	w, h      int
	started   bool
	cancelled bool

	img   *image.RGBA
	fbImg *ebiten.Image
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil {
		g.cancelled = true
		return ebiten.Termination
	}
	if !g.started {
		g.started = true
		if g.ready != nil {
			g.ready()
		}
	}

	g.in.beginTick(g.n)
	pollInput(g.in)
	g.in.Width, g.in.Height = g.w, g.h
	g.fb.Resize(g.w, g.h)

	if stop, err := finishTick(g.tick(g.in, g.fb)); stop {
		if err != nil {
			return err
		}
		return ebiten.Termination
	}
	g.n++
	if g.cfg.Ticks > 0 && g.n >= g.cfg.Ticks {
		return ebiten.Termination
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	g.img = g.fb.CopyFront(g.img)
	b := g.img.Bounds()
	if g.fbImg == nil || !g.fbImg.Bounds().Eq(b) {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.w, g.h = outsideWidth, outsideHeight
	}
	return g.w, g.h
}
