// Package linegl is a small software 3D line renderer.
//
// It draws line lists (grids, axis triads) into a caller-provided Target:
//
//	model → view-projection → clip-space clipping → viewport → Bresenham.
//
// An optional depth buffer keeps nearer lines on top. Translucent colors are
// composited by the target. The renderer is not safe for concurrent use and
// reuses its buffers between frames.
package linegl
