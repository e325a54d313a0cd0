package hal

import (
	"image"
	"sync"
)

// Framebuffer is a double-buffered RGBA surface.
//
// The back buffer belongs to the render thread. Swap publishes it to the
// front buffer, which the presenting side reads with CopyFront.
type Framebuffer struct {
	back *image.RGBA

	mu     sync.Mutex
	front  *image.RGBA
	swaps  uint64
	closed bool
}

// NewFramebuffer allocates a w x h framebuffer.
func NewFramebuffer(w, h int) *Framebuffer {
	w, h = max(w, 1), max(h, 1)
	return &Framebuffer{
		back:  image.NewRGBA(image.Rect(0, 0, w, h)),
		front: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Back returns the buffer to draw into.
func (f *Framebuffer) Back() *image.RGBA { return f.back }

// Size returns the back buffer dimensions.
func (f *Framebuffer) Size() (w, h int) {
	b := f.back.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the back buffer when the size changed and reports
// whether it did. Non-positive sizes are ignored.
func (f *Framebuffer) Resize(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	if cw, ch := f.Size(); cw == w && ch == h {
		return false
	}
	f.back = image.NewRGBA(image.Rect(0, 0, w, h))
	return true
}

// Swap publishes the back buffer. It fails with ErrContextLost once the
// framebuffer has been closed.
func (f *Framebuffer) Swap() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrContextLost
	}
	if !f.front.Bounds().Eq(f.back.Bounds()) {
		f.front = image.NewRGBA(f.back.Bounds())
	}
	copy(f.front.Pix, f.back.Pix)
	f.swaps++
	return nil
}

// CopyFront copies the last published frame into dst, reallocating dst
// when its size does not match, and returns it.
func (f *Framebuffer) CopyFront(dst *image.RGBA) *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	if dst == nil || !dst.Bounds().Eq(f.front.Bounds()) {
		dst = image.NewRGBA(f.front.Bounds())
	}
	copy(dst.Pix, f.front.Pix)
	return dst
}

// Swaps returns the number of published frames.
func (f *Framebuffer) Swaps() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.swaps
}

// Close releases the surface; later swaps fail.
func (f *Framebuffer) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}
