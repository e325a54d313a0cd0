// Package framestore holds the set of named frames shared between producer
// goroutines and the render loop.
//
// Writers take a short exclusive lock to insert one entry. Readers take
// snapshots: immutable copies tagged with the mutation sequence number they
// were copied at. A snapshot is rebuilt only when the store changed since
// the previous one, so a render loop polling an idle store does no copying
// and takes no lock.
package framestore

import (
	"sort"
	"sync"
	"sync/atomic"

	"framesviewer/xform"
)

// Store is a concurrency-safe map from frame name to transform.
// The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	frames map[string]xform.Transform

	// seq is bumped after every committed mutation while mu is held.
	seq    atomic.Uint64
	cached atomic.Pointer[Snapshot]
}

// New returns an empty store.
func New() *Store {
	return &Store{frames: make(map[string]xform.Transform)}
}

// Push inserts or overwrites the frame called name. An invalid transform is
// rejected with xform.ErrInvalidTransform and the store is left untouched.
func (s *Store) Push(name string, t xform.Transform) error {
	if err := xform.Validate(t); err != nil {
		return err
	}
	s.mu.Lock()
	s.frames[name] = t
	s.seq.Add(1)
	s.mu.Unlock()
	return nil
}

// PushMany inserts a batch of frames as one mutation. Either every frame is
// valid and all are stored, or nothing changes.
func (s *Store) PushMany(batch map[string]xform.Transform) error {
	for name, t := range batch {
		if err := xform.Validate(t); err != nil {
			return &FrameError{Name: name, Err: err}
		}
	}
	if len(batch) == 0 {
		return nil
	}
	s.mu.Lock()
	for name, t := range batch {
		s.frames[name] = t
	}
	s.seq.Add(1)
	s.mu.Unlock()
	return nil
}

// Remove deletes one frame and reports whether it existed.
func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.frames[name]; !ok {
		return false
	}
	delete(s.frames, name)
	s.seq.Add(1)
	return true
}

// Clear removes every frame.
func (s *Store) Clear() {
	s.mu.Lock()
	s.frames = make(map[string]xform.Transform)
	s.seq.Add(1)
	s.mu.Unlock()
}

// Len returns the current number of frames.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Get returns the current transform for name.
func (s *Store) Get(name string) (xform.Transform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.frames[name]
	return t, ok
}

// Snapshot returns the contents of the store at a single instant. The
// result never changes afterwards and is safe to share between goroutines.
func (s *Store) Snapshot() *Snapshot {
	if c := s.cached.Load(); c != nil && c.seq == s.seq.Load() {
		return c
	}

	s.mu.RLock()
	seq := s.seq.Load()
	frames := make(map[string]xform.Transform, len(s.frames))
	for name, t := range s.frames {
		frames[name] = t
	}
	s.mu.RUnlock()

	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := &Snapshot{seq: seq, names: names, frames: frames}
	for {
		old := s.cached.Load()
		if old != nil && old.seq >= seq {
			break
		}
		if s.cached.CompareAndSwap(old, snap) {
			break
		}
	}
	return snap
}

// FrameError names the frame that failed validation in a batch.
type FrameError struct {
	Name string
	Err  error
}

func (e *FrameError) Error() string { return "frame " + e.Name + ": " + e.Err.Error() }

func (e *FrameError) Unwrap() error { return e.Err }
