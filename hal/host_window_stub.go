//go:build !cgo

package hal

import (
	"context"
	"fmt"
)

// Window is unavailable without cgo.
type Window struct{}

func (Window) Run(context.Context, WindowConfig, func(), TickFunc) error {
	return fmt.Errorf("%w: window mode requires cgo (build/run with CGO_ENABLED=1)", ErrWindowUnavailable)
}
