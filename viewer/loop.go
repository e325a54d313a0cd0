package viewer

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"framesviewer/camera"
	"framesviewer/framestore"
	"framesviewer/hal"
	"framesviewer/linegl"
	"framesviewer/xform"
)

// renderLoop is the per-run drawing state. It lives on the render thread
// and is never shared.
type renderLoop struct {
	cfg   Config
	store *framestore.Store
	stats *tickStats
	log   *slog.Logger

	cam  *camera.Controller
	r    *linegl.Renderer
	grid []linegl.Vertex
	axes []linegl.Vertex

	axisStyle linegl.LineStyle
	gridStyle linegl.LineStyle

	lastSeq uint64
}

func newRenderLoop(cfg Config, store *framestore.Store, stats *tickStats, log *slog.Logger) *renderLoop {
	l := &renderLoop{
		cfg:       cfg,
		store:     store,
		stats:     stats,
		log:       log,
		cam:       camera.NewController(cfg.Camera),
		r:         linegl.NewRenderer(true),
		axes:      axisVertices(cfg.AxisLength),
		axisStyle: linegl.LineStyle{Width: cfg.AxisWidth},
		gridStyle: linegl.LineStyle{Width: 1, NoDepthWrite: true},
	}
	if cfg.ShowGrid {
		l.grid = gridVertices(cfg.GridExtent, cfg.GridStep)
	}
	return l
}

// safeTick runs one tick and turns a panic into an error.
func (l *renderLoop) safeTick(in *hal.Input, fb *hal.Framebuffer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return l.tick(in, fb)
}

func (l *renderLoop) tick(in *hal.Input, fb *hal.Framebuffer) error {
	start := time.Now()

	w, h := fb.Size()
	l.cam.Resize(w, h)
	if in.Reset {
		l.cam.Reset()
	}
	l.cam.Pointer(in.CursorX, in.CursorY, in.Left, in.Middle)
	if in.WheelY != 0 {
		l.cam.Zoom(in.WheelY)
	}

	if in.CloseRequested {
		l.log.Info("close requested", "tick", in.Tick)
		return hal.ErrClosed
	}

	snap := l.store.Snapshot()
	if seq := snap.Seq(); seq != l.lastSeq {
		l.lastSeq = seq
		l.log.Debug("frames changed", "frames", snap.Len(), "seq", seq)
	}

	target := linegl.ImageTarget{Img: fb.Back()}
	l.r.Begin(target, l.cam.ViewProjection())
	if len(l.grid) > 0 {
		l.r.DrawLines(xform.Identity(), l.grid, l.gridStyle)
	}
	snap.Each(func(_ string, t xform.Transform) {
		l.r.DrawLines(t, l.axes, l.axisStyle)
	})
	l.r.DrawLines(xform.Identity(), l.axes, l.axisStyle)

	if l.cfg.Labels {
		snap.Each(func(name string, t xform.Transform) {
			if x, y, ok := l.r.Project(xform.Identity(), xform.Translation(t)); ok {
				linegl.DrawText(target, x+4, y-linegl.TextHeight, name, textColor)
			}
		})
	}
	if l.cfg.HUD {
		st := l.stats.snapshot()
		hud := fmt.Sprintf("frames %d  %.0f Hz", snap.Len(), st.TickRate)
		linegl.DrawText(target, 4, 4, hud, textColor)
	}

	if err := fb.Swap(); err != nil {
		return err
	}
	l.stats.record(start, time.Now(), snap.Len(), l.r.LinesDrawn())
	return nil
}
