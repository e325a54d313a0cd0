// Package ingest reads frame updates from a line-oriented text stream.
//
// Each line is one command:
//
//	<name> <m00> <m01> ... <m33>   push a frame, 16 values in row-major order
//	pose <name> tx ty tz rx ry rz  push a frame from a translation and XYZ Euler angles in degrees
//	remove <name>                  delete one frame
//	clear                          delete every frame
//
// Blank lines and lines starting with # are ignored. Commands are told
// apart by their field count, so a frame may be called "clear".
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"framesviewer/xform"
)

// ErrSyntax reports a line that is not a valid command.
var ErrSyntax = errors.New("ingest: syntax error")

// Op is a command kind.
type Op int

const (
	OpPush Op = iota + 1
	OpRemove
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpPush:
		return "push"
	case OpRemove:
		return "remove"
	case OpClear:
		return "clear"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Command is one parsed line.
type Command struct {
	Op        Op
	Name      string
	Transform xform.Transform
}

// ParseLine parses one line. ok is false for blank and comment lines.
func ParseLine(line string) (cmd Command, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, false, nil
	}
	fields := strings.Fields(line)

	switch {
	case len(fields) == 1 && fields[0] == "clear":
		return Command{Op: OpClear}, true, nil
	case len(fields) == 2 && fields[0] == "remove":
		return Command{Op: OpRemove, Name: fields[1]}, true, nil
	case len(fields) == 8 && fields[0] == "pose":
		vals, err := parseFloats(fields[2:])
		if err != nil {
			return Command{}, false, err
		}
		t, err := xform.MakePose(vals[:3], vals[3:], true)
		if err != nil {
			return Command{}, false, err
		}
		return Command{Op: OpPush, Name: fields[1], Transform: t}, true, nil
	case len(fields) == 17:
		vals, err := parseFloats(fields[1:])
		if err != nil {
			return Command{}, false, err
		}
		t, err := xform.FromRowMajor(vals)
		if err != nil {
			return Command{}, false, err
		}
		return Command{Op: OpPush, Name: fields[0], Transform: t}, true, nil
	default:
		return Command{}, false, fmt.Errorf("%w: unrecognized command with %d fields", ErrSyntax, len(fields))
	}
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %q is not a number", ErrSyntax, i+1, f)
		}
		out[i] = v
	}
	return out, nil
}

// Sink receives parsed commands. *viewer.Viewer implements it.
type Sink interface {
	PushFrame(t xform.Transform, name string) error
	RemoveFrame(name string) bool
	ClearFrames()
}

// Counts summarizes a Run.
type Counts struct {
	Lines   int
	Pushed  int
	Removed int
	Cleared int
	Errors  int
}

// MaxLineLength is the longest accepted line, terminator excluded. Longer
// lines are skipped and counted as errors.
const MaxLineLength = 64 * 1024

var errLineTooLong = fmt.Errorf("%w: line longer than %d bytes", ErrSyntax, MaxLineLength)

// Run applies every command read from r to sink until EOF or ctx is done.
// Bad lines are logged and counted but do not stop the stream. The
// returned error is ctx.Err() or a read error; EOF is not an error.
func Run(ctx context.Context, r io.Reader, sink Sink, log *slog.Logger) (Counts, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var c Counts
	br := bufio.NewReaderSize(r, MaxLineLength+2)
	for {
		line, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c, fmt.Errorf("ingest: read: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return c, err
		}
		c.Lines++
		if tooLong {
			err = errLineTooLong
		} else {
			var cmd Command
			var ok bool
			cmd, ok, err = ParseLine(string(line))
			if err == nil && ok {
				err = apply(sink, cmd, &c)
			}
		}
		if err != nil {
			c.Errors++
			log.Warn("ingest: skipping line", "line", c.Lines, "err", err)
		}
	}
	log.Info("ingest: end of input", "lines", c.Lines, "pushed", c.Pushed, "errors", c.Errors)
	return c, nil
}

// readLine returns the next line without its terminator. A line that does
// not fit the reader's buffer is consumed to its end and reported as
// tooLong. The final line may lack a newline.
func readLine(br *bufio.Reader) ([]byte, bool, error) {
	tooLong := false
	for {
		frag, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			tooLong = true
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, false, err
		}
		if err != nil && len(frag) == 0 && !tooLong {
			return nil, false, io.EOF
		}
		if tooLong {
			return nil, true, nil
		}
		frag = bytes.TrimSuffix(frag, []byte("\n"))
		return bytes.TrimSuffix(frag, []byte("\r")), false, nil
	}
}

func apply(sink Sink, cmd Command, c *Counts) error {
	switch cmd.Op {
	case OpPush:
		if err := sink.PushFrame(cmd.Transform, cmd.Name); err != nil {
			return err
		}
		c.Pushed++
	case OpRemove:
		if sink.RemoveFrame(cmd.Name) {
			c.Removed++
		}
	case OpClear:
		sink.ClearFrames()
		c.Cleared++
	}
	return nil
}

// Format renders a push command for t, the inverse of ParseLine.
func Format(name string, t xform.Transform) string {
	var b strings.Builder
	b.WriteString(name)
	for _, v := range xform.RowMajor(t) {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
