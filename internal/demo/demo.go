// Package demo contains scripted frame producers used by the CLI to show
// off the viewer without an external data source.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"framesviewer/xform"
)

// ErrUnknown reports an unknown demo name.
var ErrUnknown = errors.New("demo: unknown scenario")

// Sink receives frames. *viewer.Viewer implements it.
type Sink interface {
	PushFrame(t xform.Transform, name string) error
}

// Options tunes a demo run.
type Options struct {
	// Period is the time between updates. Zero selects 10ms.
	Period time.Duration
	// GridSize is the stress grid side; the grid holds GridSize^2 frames.
	// Zero selects 32.
	GridSize int
	// Workers is the number of stress producer goroutines. Zero selects 4.
	Workers int
	Log     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Period <= 0 {
		o.Period = 10 * time.Millisecond
	}
	if o.GridSize <= 0 {
		o.GridSize = 32
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Log == nil {
		o.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Scene computes every frame of a demo at time t (seconds).
type Scene func(t float64) (map[string]xform.Transform, error)

var scenes = map[string]Scene{
	"basic": Basic,
	"utils": Utils,
}

// Names lists the available demos.
func Names() []string {
	names := []string{"stress"}
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run drives the named demo until ctx is done. It returns nil when ctx is
// cancelled and the first push error otherwise.
func Run(ctx context.Context, name string, sink Sink, opts Options) error {
	opts = opts.withDefaults()
	if name == "stress" {
		return runStress(ctx, sink, opts)
	}
	scene, ok := scenes[name]
	if !ok {
		return fmt.Errorf("%w: %q (have %v)", ErrUnknown, name, Names())
	}
	opts.Log.Info("demo started", "demo", name, "period", opts.Period)
	return animate(ctx, opts.Period, func(t float64) error {
		frames, err := scene(t)
		if err != nil {
			return err
		}
		for _, n := range sortedNames(frames) {
			if err := sink.PushFrame(frames[n], n); err != nil {
				return err
			}
		}
		return nil
	})
}

// animate calls step every period with the elapsed time in seconds.
func animate(ctx context.Context, period time.Duration, step func(t float64) error) error {
	start := time.Now()
	tick := time.NewTicker(period)
	defer tick.Stop()
	for {
		if err := step(time.Since(start).Seconds()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

// Basic is a single frame sliding back and forth along X at 1 Hz.
func Basic(t float64) (map[string]xform.Transform, error) {
	f, err := xform.MakePose([]float64{0.1 * math.Sin(2*math.Pi*t), 0.1, 0.1}, []float64{0, 0, 0}, false)
	if err != nil {
		return nil, err
	}
	return map[string]xform.Transform{"frame1": f}, nil
}

// Utils animates one frame per transform helper.
func Utils(t float64) (map[string]xform.Transform, error) {
	out := make(map[string]xform.Transform, 5)
	var err error
	add := func(name string, build func() (xform.Transform, error)) {
		if err != nil {
			return
		}
		var f xform.Transform
		f, err = build()
		if err == nil {
			out[name] = f
		}
	}

	base := []float64{0.3, 0.2, 0.1}
	add("base", func() (xform.Transform, error) {
		return xform.MakePose(base, []float64{0, 0, 0}, true)
	})
	add("rotating", func() (xform.Transform, error) {
		return xform.MakePose([]float64{0.5, 0, 0}, []float64{0, 0, t * 90}, true)
	})
	add("orbiting", func() (xform.Transform, error) {
		f, err := xform.MakePose([]float64{0.2, 0, 0}, []float64{0, 0, 0}, true)
		if err != nil {
			return f, err
		}
		return xform.RotateAbout(f, []float64{0, t * 90, 0}, base, true)
	})
	add("oscillating", func() (xform.Transform, error) {
		f, err := xform.MakePose([]float64{0, 0, 0}, []float64{45, 0, 45}, true)
		if err != nil {
			return f, err
		}
		return xform.TranslateAbsolute(f, []float64{0.3 + 0.2*math.Sin(t*2), 0.4, 0.2})
	})
	add("self_rotating", func() (xform.Transform, error) {
		f, err := xform.MakePose([]float64{0, 0.5, 0}, []float64{0, 0, 0}, true)
		if err != nil {
			return f, err
		}
		return xform.RotateInSelf(f, []float64{t * 90, t * 45, 0}, true)
	})
	add("swapped", func() (xform.Transform, error) {
		f, err := xform.MakePose([]float64{0.5, 0.5, 0}, []float64{0, 0, t * 45}, true)
		if err != nil {
			return f, err
		}
		return xform.SwapAxes(f, "x", "z")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WaveParams shapes the stress grid animation.
type WaveParams struct {
	Amplitude        float64 // meters
	Frequency        float64 // rad/s
	SpatialFrequency float64 // rad per grid cell
	RotSpeed         float64 // rad/s
	RotAmplitude     float64 // rad
	Spacing          float64 // meters
}

// DefaultWave is the stress grid animation.
var DefaultWave = WaveParams{
	Amplitude:        0.1,
	Frequency:        2,
	SpatialFrequency: 0.3,
	RotSpeed:         1,
	RotAmplitude:     0.2,
	Spacing:          0.2,
}

// Wave returns the pose of grid cell (x, y) at time t.
func Wave(x, y, t float64, p WaveParams) (xform.Transform, error) {
	z := p.Amplitude * math.Sin(p.Frequency*t+math.Hypot(x, y)*p.SpatialFrequency)
	rx := math.Sin(t*p.RotSpeed+x*0.1) * p.RotAmplitude
	ry := math.Cos(t*p.RotSpeed+y*0.1) * p.RotAmplitude
	rz := math.Sin(t*p.RotSpeed+(x+y)*0.1) * p.RotAmplitude
	return xform.MakePose([]float64{x * p.Spacing, y * p.Spacing, z}, []float64{rx, ry, rz}, false)
}

// runStress animates a GridSize x GridSize wave. The grid rows are split
// between Workers goroutines that push concurrently.
func runStress(ctx context.Context, sink Sink, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := opts.GridSize
	half := float64(n) / 2
	opts.Log.Info("demo started", "demo", "stress", "frames", n*n, "workers", opts.Workers)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			err := animate(ctx, opts.Period, func(t float64) error {
				for x := w; x < n; x += opts.Workers {
					for y := 0; y < n; y++ {
						f, err := Wave(float64(x)-half, float64(y)-half, t, DefaultWave)
						if err != nil {
							return err
						}
						if err := sink.PushFrame(f, fmt.Sprintf("frame_%d_%d", x, y)); err != nil {
							return err
						}
					}
				}
				return nil
			})
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(w)
	}
	wg.Wait()
	return firstErr
}

func sortedNames(m map[string]xform.Transform) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
