package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesviewer/framestore"
	"framesviewer/xform"
)

// storeSink adapts a framestore.Store to Sink.
type storeSink struct{ *framestore.Store }

func (s storeSink) PushFrame(t xform.Transform, name string) error { return s.Push(name, t) }
func (s storeSink) RemoveFrame(name string) bool                   { return s.Remove(name) }
func (s storeSink) ClearFrames()                                   { s.Clear() }

func TestParseLinePush(t *testing.T) {
	want := mgl64.Translate3D(1, 2, 3)
	cmd, ok, err := ParseLine("  tool " + strings.TrimPrefix(Format("x", want), "x") + "  ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpPush, cmd.Op)
	assert.Equal(t, "tool", cmd.Name)
	assert.Equal(t, want, cmd.Transform)
}

func TestParseLineRowMajor(t *testing.T) {
	cmd, ok, err := ParseLine("a 1 0 0 5  0 1 0 6  0 0 1 7  0 0 0 1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{5, 6, 7}, xform.Translation(cmd.Transform))
}

func TestParseLinePose(t *testing.T) {
	cmd, ok, err := ParseLine("pose arm 0.1 0.2 0.3 0 0 90")
	require.NoError(t, err)
	require.True(t, ok)
	want, err := xform.MakePose([]float64{0.1, 0.2, 0.3}, []float64{0, 0, 90}, true)
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqual(want, cmd.Transform, 1e-12))
	assert.Equal(t, "arm", cmd.Name)
}

func TestParseLineCommands(t *testing.T) {
	cmd, ok, err := ParseLine("clear")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, OpClear, cmd.Op)

	cmd, ok, err = ParseLine("remove tool")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Command{Op: OpRemove, Name: "tool"}, cmd)

	// A frame may be called "clear".
	cmd, ok, err = ParseLine(Format("clear", xform.Identity()))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, OpPush, cmd.Op)
	assert.Equal(t, "clear", cmd.Name)
}

func TestParseLineSkips(t *testing.T) {
	for _, line := range []string{"", "   ", "# comment", "  # indented"} {
		_, ok, err := ParseLine(line)
		assert.NoError(t, err, "%q", line)
		assert.False(t, ok, "%q", line)
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"tool 1 2 3", ErrSyntax},
		{"clear now", ErrSyntax},
		{"a 1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 x", ErrSyntax},
		{"a 1 0 0 0 0 1 0 0 0 0 1 0 0 0 1 1", xform.ErrInvalidTransform},
		{"a NaN 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1", xform.ErrInvalidTransform},
		{"pose a 0 0 0 0 0 Inf", xform.ErrInvalidArgument},
	}
	for _, tt := range tests {
		_, _, err := ParseLine(tt.line)
		assert.ErrorIs(t, err, tt.want, "%q", tt.line)
	}
}

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		"# frames",
		Format("a", mgl64.Translate3D(1, 0, 0)),
		Format("b", mgl64.Translate3D(0, 1, 0)),
		"garbage",
		"remove a",
		"remove missing",
		Format("c", xform.Identity()),
	}, "\n")

	store := framestore.New()
	c, err := Run(context.Background(), strings.NewReader(input), storeSink{store}, nil)
	require.NoError(t, err)
	assert.Equal(t, Counts{Lines: 7, Pushed: 3, Removed: 1, Errors: 1}, c)
	assert.Equal(t, []string{"b", "c"}, store.Snapshot().Names())
}

func TestRunClear(t *testing.T) {
	store := framestore.New()
	input := Format("a", xform.Identity()) + "\nclear\n" + Format("b", xform.Identity()) + "\n"
	c, err := Run(context.Background(), strings.NewReader(input), storeSink{store}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Cleared)
	assert.Equal(t, []string{"b"}, store.Snapshot().Names())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, strings.NewReader("clear\n"), storeSink{framestore.New()}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("pipe broke") }

func TestRunReadError(t *testing.T) {
	_, err := Run(context.Background(), errReader{}, storeSink{framestore.New()}, nil)
	assert.ErrorContains(t, err, "pipe broke")
}

func TestRunSkipsOverlongLine(t *testing.T) {
	long := "# " + strings.Repeat("x", 70*1024)
	input := long + "\n" + Format("a", xform.Identity()) + "\r\n" + strings.Repeat("y", MaxLineLength+10)

	store := framestore.New()
	c, err := Run(context.Background(), strings.NewReader(input), storeSink{store}, nil)
	require.NoError(t, err)
	assert.Equal(t, Counts{Lines: 3, Pushed: 1, Errors: 2}, c)
	assert.Equal(t, []string{"a"}, store.Snapshot().Names())
}
