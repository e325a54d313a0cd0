package xform

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the canonical 4x4 homogeneous transform.
type Transform = mgl64.Mat4

var (
	// ErrInvalidArgument reports malformed input to a math helper.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidTransform reports a matrix that is not a finite 4x4
	// homogeneous transform.
	ErrInvalidTransform = errors.New("invalid transform")
)

// BottomRowTolerance is the largest deviation from [0 0 0 1] accepted in the
// bottom row by Validate.
const BottomRowTolerance = 1e-6

// Identity returns the identity transform.
func Identity() Transform { return mgl64.Ident4() }

// Validate reports ErrInvalidTransform if t has a non-finite entry or a
// bottom row other than [0 0 0 1].
func Validate(t Transform) error {
	for i, v := range t {
		if !finite(v) {
			return fmt.Errorf("%w: entry (%d,%d) is %v", ErrInvalidTransform, i%4, i/4, v)
		}
	}
	want := [4]float64{0, 0, 0, 1}
	for col := 0; col < 4; col++ {
		if d := math.Abs(t.At(3, col) - want[col]); d > BottomRowTolerance {
			return fmt.Errorf("%w: bottom row is [%g %g %g %g], want [0 0 0 1]",
				ErrInvalidTransform, t.At(3, 0), t.At(3, 1), t.At(3, 2), t.At(3, 3))
		}
	}
	return nil
}

// FromRows converts a row-major nested slice into a Transform. It is the
// entry point for callers holding loosely shaped matrix data.
func FromRows(rows [][]float64) (Transform, error) {
	if len(rows) != 4 {
		return Transform{}, fmt.Errorf("%w: got %d rows, want 4", ErrInvalidTransform, len(rows))
	}
	var t Transform
	for r, row := range rows {
		if len(row) != 4 {
			return Transform{}, fmt.Errorf("%w: row %d has %d columns, want 4", ErrInvalidTransform, r, len(row))
		}
		for c, v := range row {
			t.Set(r, c, v)
		}
	}
	if err := Validate(t); err != nil {
		return Transform{}, err
	}
	return t, nil
}

// FromRowMajor converts 16 row-major values into a Transform.
func FromRowMajor(vals []float64) (Transform, error) {
	if len(vals) != 16 {
		return Transform{}, fmt.Errorf("%w: got %d values, want 16", ErrInvalidTransform, len(vals))
	}
	var t Transform
	for i, v := range vals {
		t.Set(i/4, i%4, v)
	}
	if err := Validate(t); err != nil {
		return Transform{}, err
	}
	return t, nil
}

// RowMajor returns the 16 entries of t in row-major order.
func RowMajor(t Transform) [16]float64 {
	var out [16]float64
	for i := range out {
		out[i] = t.At(i/4, i%4)
	}
	return out
}

// Translation returns the translation column of t.
func Translation(t Transform) mgl64.Vec3 {
	return mgl64.Vec3{t[12], t[13], t[14]}
}

// Rotation returns the 3x3 rotation block of t.
func Rotation(t Transform) mgl64.Mat3 {
	return t.Mat3()
}

// Axis returns the local axis column (0=x, 1=y, 2=z) of t.
func Axis(t Transform, i int) mgl64.Vec3 {
	return t.Col(i).Vec3()
}

// orthonormalTolerance bounds |R^T*R - I| for the rigid fast path of Inverse.
const orthonormalTolerance = 1e-9

// Inverse returns the inverse of t. Rigid transforms use R^T and -R^T*p;
// anything with scale or shear goes through a general 4x4 inverse. A
// singular t gives ErrInvalidArgument.
func Inverse(t Transform) (Transform, error) {
	if err := checkFrame(t); err != nil {
		return Transform{}, err
	}
	r := t.Mat3()
	rt := r.Transpose()
	if rt.Mul3(r).ApproxEqualThreshold(mgl64.Ident3(), orthonormalTolerance) {
		p := rt.Mul3x1(Translation(t)).Mul(-1)
		out := rt.Mat4()
		out[12], out[13], out[14] = p[0], p[1], p[2]
		return checkResult(out)
	}
	det := t.Det()
	if det == 0 || !finite(det) {
		return Transform{}, fmt.Errorf("%w: frame is singular (det %g)", ErrInvalidArgument, det)
	}
	return checkResult(t.Inv())
}

// ApproxEqual reports whether every entry of a and b differs by at most eps.
func ApproxEqual(a, b Transform, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkResult rejects a computed transform that overflowed or lost its
// homogeneous bottom row.
func checkResult(t Transform) (Transform, error) {
	if err := Validate(t); err != nil {
		return Transform{}, fmt.Errorf("%w: result: %v", ErrInvalidArgument, err)
	}
	return t, nil
}

// checkFrame validates a transform argument and reports it as a bad argument.
func checkFrame(t Transform) error {
	if err := Validate(t); err != nil {
		return fmt.Errorf("%w: frame: %v", ErrInvalidArgument, err)
	}
	return nil
}

func vec3(name string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s must have 3 components, got %d", ErrInvalidArgument, name, len(v))
	}
	for i, x := range v {
		if !finite(x) {
			return mgl64.Vec3{}, fmt.Errorf("%w: %s[%d] is %v", ErrInvalidArgument, name, i, x)
		}
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
