package hal

import (
	"context"
	"fmt"
	"sync/atomic"
)

type mainLoop struct {
	calls chan func()
	done  chan struct{}
}

var activeMain atomic.Pointer[mainLoop]

// Main runs f on a new goroutine while the calling goroutine serves
// window requests until f returns. Call it from the main goroutine: the
// desktop window backend accepts calls only from the main OS thread.
//
// A nested Main runs f directly.
func Main(f func()) {
	m := &mainLoop{calls: make(chan func()), done: make(chan struct{})}
	if !activeMain.CompareAndSwap(nil, m) {
		f()
		return
	}
	defer activeMain.CompareAndSwap(m, nil)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		f()
	}()
	for {
		select {
		case fn := <-m.calls:
			fn()
		case <-finished:
			close(m.done)
			return
		}
	}
}

// onMain runs fn on the goroutine serving Main and waits for it to return.
func onMain(ctx context.Context, fn func()) error {
	m := activeMain.Load()
	if m == nil {
		return fmt.Errorf("%w: hal.Main is not running", ErrWindowUnavailable)
	}
	ran := make(chan struct{})
	call := func() {
		defer close(ran)
		fn()
	}
	select {
	case m.calls <- call:
	case <-m.done:
		return fmt.Errorf("%w: hal.Main has returned", ErrWindowUnavailable)
	case <-ctx.Done():
		return ctx.Err()
	}
	<-ran
	return nil
}
