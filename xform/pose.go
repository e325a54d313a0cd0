package xform

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// MakePose builds a transform from a translation and an X, Y, Z Euler
// triple.
func MakePose(translation, rotationXYZ []float64, degrees bool) (Transform, error) {
	p, err := vec3("translation", translation)
	if err != nil {
		return Transform{}, err
	}
	r, err := eulerMatrix(rotationXYZ, degrees)
	if err != nil {
		return Transform{}, err
	}
	r[12], r[13], r[14] = p[0], p[1], p[2]
	return checkResult(r)
}

// RotateInSelf rotates frame about its own origin, with the rotation
// expressed in the frame's local basis: frame * R.
func RotateInSelf(frame Transform, rotationXYZ []float64, degrees bool) (Transform, error) {
	if err := checkFrame(frame); err != nil {
		return Transform{}, err
	}
	r, err := eulerMatrix(rotationXYZ, degrees)
	if err != nil {
		return Transform{}, err
	}
	return checkResult(frame.Mul4(r))
}

// RotateAbout rotates frame about the world-space point center:
// T(center) * R * T(-center) * frame.
func RotateAbout(frame Transform, rotationXYZ, center []float64, degrees bool) (Transform, error) {
	if err := checkFrame(frame); err != nil {
		return Transform{}, err
	}
	r, err := eulerMatrix(rotationXYZ, degrees)
	if err != nil {
		return Transform{}, err
	}
	c, err := vec3("center", center)
	if err != nil {
		return Transform{}, err
	}
	to := mgl64.Translate3D(c[0], c[1], c[2])
	from := mgl64.Translate3D(-c[0], -c[1], -c[2])
	return checkResult(to.Mul4(r).Mul4(from).Mul4(frame))
}

// TranslateInSelf moves frame along its own axes: frame * T.
func TranslateInSelf(frame Transform, translation []float64) (Transform, error) {
	if err := checkFrame(frame); err != nil {
		return Transform{}, err
	}
	p, err := vec3("translation", translation)
	if err != nil {
		return Transform{}, err
	}
	return checkResult(frame.Mul4(mgl64.Translate3D(p[0], p[1], p[2])))
}

// TranslateAbsolute moves frame in world space. Only the translation column
// changes; the rotation block is copied as is.
func TranslateAbsolute(frame Transform, translation []float64) (Transform, error) {
	if err := checkFrame(frame); err != nil {
		return Transform{}, err
	}
	p, err := vec3("translation", translation)
	if err != nil {
		return Transform{}, err
	}
	out := frame
	out[12] += p[0]
	out[13] += p[1]
	out[14] += p[2]
	return checkResult(out)
}

// SwapAxes exchanges two local axes (rotation-block columns) of frame.
// Axis names are "x", "y" or "z" in any case. Swapping an axis with itself
// returns frame unchanged.
func SwapAxes(frame Transform, axis1, axis2 string) (Transform, error) {
	if err := checkFrame(frame); err != nil {
		return Transform{}, err
	}
	i, err := axisIndex(axis1)
	if err != nil {
		return Transform{}, err
	}
	j, err := axisIndex(axis2)
	if err != nil {
		return Transform{}, err
	}
	out := frame
	if i == j {
		return out, nil
	}
	for row := 0; row < 3; row++ {
		out[i*4+row], out[j*4+row] = frame[j*4+row], frame[i*4+row]
	}
	return out, nil
}

func axisIndex(name string) (int, error) {
	switch strings.ToLower(name) {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("%w: axis %q is not one of x, y, z", ErrInvalidArgument, name)
}

func eulerMatrix(rotationXYZ []float64, degrees bool) (Transform, error) {
	a, err := vec3("rotation", rotationXYZ)
	if err != nil {
		return Transform{}, err
	}
	if degrees {
		a = mgl64.Vec3{mgl64.DegToRad(a[0]), mgl64.DegToRad(a[1]), mgl64.DegToRad(a[2])}
	}
	return mgl64.HomogRotate3DX(a[0]).
		Mul4(mgl64.HomogRotate3DY(a[1])).
		Mul4(mgl64.HomogRotate3DZ(a[2])), nil
}
