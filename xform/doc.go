// Package xform builds and edits 4x4 homogeneous transforms.
//
// A Transform is a column-major mgl64.Mat4: the upper-left 3x3 block is the
// rotation, column 3 holds the translation in meters and the bottom row is
// [0 0 0 1]. All functions are pure and return a new value; none of them
// accept non-finite input.
//
// Angles are given as X, Y, Z Euler triples applied intrinsically in that
// order (R = Rx * Ry * Rz). The degrees flag selects the unit; values are
// converted to radians before use.
package xform
