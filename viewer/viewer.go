// Package viewer shows a live set of named coordinate frames.
//
// A Viewer owns a frame store that any goroutine may update, and at most
// one render goroutine that draws the store through a hal.Driver. The
// render goroutine is locked to its OS thread and is the only code that
// touches the drawing surface or the camera.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"framesviewer/framestore"
	"framesviewer/hal"
	"framesviewer/xform"
)

// State is the lifecycle state of a Viewer.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Option customizes a Viewer.
type Option func(*Viewer)

// WithDriver selects the surface driver. The default is hal.Window.
func WithDriver(d hal.Driver) Option {
	return func(v *Viewer) {
		if d != nil {
			v.driver = d
		}
	}
}

// WithStore makes the viewer draw an existing store.
func WithStore(s *framestore.Store) Option {
	return func(v *Viewer) {
		if s != nil {
			v.store = s
		}
	}
}

// Viewer is the control surface for one render window.
type Viewer struct {
	cfg    Config
	driver hal.Driver
	store  *framestore.Store
	stats  tickStats

	// mu serializes Start, Stop and Wait bookkeeping.
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	state atomic.Int32

	errMu sync.Mutex
	fatal error
}

// New returns a stopped viewer with an empty frame store.
func New(cfg Config, opts ...Option) *Viewer {
	v := &Viewer{
		cfg:    cfg,
		driver: hal.Window{},
		store:  framestore.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// State returns the current lifecycle state.
func (v *Viewer) State() State { return State(v.state.Load()) }

// Start opens the surface and starts the render goroutine. It returns once
// the surface is ready to draw. If the surface cannot be created the error
// wraps ErrStartup and the viewer stays Stopped. Start on a running viewer
// does nothing.
func (v *Viewer) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.State() == Running {
		return nil
	}
	v.reap()
	if err := v.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}

	id := uuid.New()
	log := Logger().With("run", id.String())
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		log:    log,
		ready:  make(chan struct{}),
		exited: make(chan error, 1),
		done:   make(chan struct{}),
	}
	v.stats.restart()
	go v.render(ctx, r)

	select {
	case <-r.ready:
	case err := <-r.exited:
		select {
		case <-r.ready:
			// Ran and already finished; Stop reports the outcome.
		default:
			cancel()
			<-r.done
			if err == nil {
				err = errors.New("driver returned before the surface was ready")
			}
			log.Error("viewer failed to start", "err", err)
			return fmt.Errorf("%w: %w", ErrStartup, err)
		}
	}
	v.cancel = cancel
	v.done = r.done
	log.Info("viewer started", "width", v.cfg.Width, "height", v.cfg.Height, "hz", v.cfg.Hz)
	return nil
}

// Stop ends the render loop and waits until the surface is released. On a
// stopped viewer it does nothing. If the loop had died on its own, Stop
// returns that error (wrapping ErrRenderFatal) once.
func (v *Viewer) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		<-v.done
		v.cancel, v.done = nil, nil
	}
	return v.takeFatal()
}

// Close stops the viewer. It implements io.Closer.
func (v *Viewer) Close() error { return v.Stop() }

// Wait blocks until the render loop exits, by Stop, a close request, the
// tick budget or a failure, and returns the pending fatal error if any
// without clearing it.
func (v *Viewer) Wait() error {
	v.mu.Lock()
	done := v.done
	v.mu.Unlock()
	if done != nil {
		<-done
	}
	return v.Err()
}

// Err returns the pending render failure without clearing it.
func (v *Viewer) Err() error {
	v.errMu.Lock()
	defer v.errMu.Unlock()
	return v.fatal
}

// Stats returns tick statistics for the current or last run.
func (v *Viewer) Stats() Stats { return v.stats.snapshot() }

// PushFrame stores t under name. It works in any state; frames pushed
// before Start are drawn on the first tick.
func (v *Viewer) PushFrame(t xform.Transform, name string) error {
	if err := v.store.Push(name, t); err != nil {
		return fmt.Errorf("push frame %q: %w", name, err)
	}
	return nil
}

// PushFrameRows converts a row-major 4x4 nested slice and stores it.
func (v *Viewer) PushFrameRows(rows [][]float64, name string) error {
	t, err := xform.FromRows(rows)
	if err != nil {
		return fmt.Errorf("push frame %q: %w", name, err)
	}
	return v.PushFrame(t, name)
}

// PushFrames stores a batch atomically: all frames or none.
func (v *Viewer) PushFrames(batch map[string]xform.Transform) error {
	return v.store.PushMany(batch)
}

// RemoveFrame deletes one frame and reports whether it existed.
func (v *Viewer) RemoveFrame(name string) bool { return v.store.Remove(name) }

// ClearFrames removes every frame.
func (v *Viewer) ClearFrames() { v.store.Clear() }

// Frames returns a snapshot of the frame store.
func (v *Viewer) Frames() *framestore.Snapshot { return v.store.Snapshot() }

type run struct {
	log    *slog.Logger
	ready  chan struct{}
	exited chan error
	done   chan struct{}
}

// render is the render goroutine.
func (v *Viewer) render(ctx context.Context, r *run) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.done)

	loop := newRenderLoop(v.cfg, v.store, &v.stats, r.log)
	started := false
	err := v.driver.Run(ctx, v.cfg.window(), func() {
		if started {
			return
		}
		started = true
		v.state.Store(int32(Running))
		close(r.ready)
	}, loop.safeTick)
	if !started {
		v.state.Store(int32(Stopped))
		r.exited <- err
		return
	}

	fatal := err != nil && !errors.Is(err, context.Canceled)
	if fatal {
		v.setFatal(fmt.Errorf("%w: %w", ErrRenderFatal, err))
	}
	v.state.Store(int32(Stopped))

	st := v.stats.snapshot()
	if fatal {
		var pe *PanicError
		if errors.As(err, &pe) {
			r.log.Error("render loop panicked", "panic", pe.Value, "stack", string(pe.Stack))
		} else {
			r.log.Error("render loop failed", "err", err)
		}
	} else {
		r.log.Info("viewer stopped", "ticks", st.Ticks, "tick_rate", st.TickRate)
	}
	r.log.Debug("tick statistics",
		"interval", st.Interval, "interval_stddev", st.IntervalStdDev, "render", st.Render, "lines", st.Lines)
	r.exited <- err
}

// reap forgets a render goroutine that already ended on its own.
func (v *Viewer) reap() {
	if v.done == nil {
		return
	}
	<-v.done
	v.cancel()
	v.cancel, v.done = nil, nil
}

func (v *Viewer) setFatal(err error) {
	v.errMu.Lock()
	v.fatal = err
	v.errMu.Unlock()
}

func (v *Viewer) takeFatal() error {
	v.errMu.Lock()
	defer v.errMu.Unlock()
	err := v.fatal
	v.fatal = nil
	return err
}
