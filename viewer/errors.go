package viewer

import (
	"errors"
	"fmt"
)

var (
	// ErrStartup reports that Start could not bring up a drawing surface.
	// The viewer stays Stopped.
	ErrStartup = errors.New("viewer: startup failed")
	// ErrRenderFatal reports that a running render loop died on its own.
	ErrRenderFatal = errors.New("viewer: render loop failed")
	// ErrInvalidConfig reports a Config that fails validation.
	ErrInvalidConfig = errors.New("viewer: invalid config")
)

// PanicError is a panic recovered from a render tick.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in render tick: %v", e.Value)
}
