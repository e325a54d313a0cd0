package demo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesviewer/framestore"
	"framesviewer/xform"
)

type storeSink struct{ *framestore.Store }

func (s storeSink) PushFrame(t xform.Transform, name string) error { return s.Push(name, t) }

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"basic", "stress", "utils"}, Names())
}

func TestBasic(t *testing.T) {
	frames, err := Basic(0.25)
	require.NoError(t, err)
	p := xform.Translation(frames["frame1"])
	assert.InDeltaSlice(t, []float64{0.1, 0.1, 0.1}, p[:], 1e-12)
}

func TestUtilsFramesAreValid(t *testing.T) {
	for _, ts := range []float64{0, 0.5, 3.7} {
		frames, err := Utils(ts)
		require.NoError(t, err)
		assert.Len(t, frames, 6)
		for name, f := range frames {
			assert.NoError(t, xform.Validate(f), name)
		}
	}
}

func TestUtilsOrbitingKeepsDistance(t *testing.T) {
	center := mgl64.Vec3{0.3, 0.2, 0.1}
	for _, ts := range []float64{0, 0.3, 1.1} {
		frames, err := Utils(ts)
		require.NoError(t, err)
		d := xform.Translation(frames["orbiting"]).Sub(center).Len()
		want := mgl64.Vec3{0.2, 0, 0}.Sub(center).Len()
		assert.InDelta(t, want, d, 1e-9)
	}
}

func TestWave(t *testing.T) {
	f, err := Wave(0, 0, 0, DefaultWave)
	require.NoError(t, err)
	assert.NoError(t, xform.Validate(f))
	assert.InDelta(t, 0, xform.Translation(f)[2], 1e-12)

	f, err = Wave(2, -1, 0, DefaultWave)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, xform.Translation(f)[0], 1e-12)
	assert.InDelta(t, -0.2, xform.Translation(f)[1], 1e-12)
}

func TestRunUnknown(t *testing.T) {
	err := Run(context.Background(), "nope", storeSink{framestore.New()}, Options{})
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestRunPushesUntilCancelled(t *testing.T) {
	store := framestore.New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := Run(ctx, "utils", storeSink{store}, Options{Period: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 6, store.Len())
}

func TestStressFillsGrid(t *testing.T) {
	store := framestore.New()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Run(ctx, "stress", storeSink{store}, Options{GridSize: 8, Workers: 3, Period: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 64, store.Len())
}

type failingSink struct {
	mu    sync.Mutex
	calls int
}

func (s *failingSink) PushFrame(xform.Transform, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("sink closed")
}

func TestStressStopsOnError(t *testing.T) {
	err := Run(context.Background(), "stress", &failingSink{}, Options{GridSize: 4, Workers: 2})
	assert.ErrorContains(t, err, "sink closed")
}
