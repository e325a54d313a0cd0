package framestore

import "framesviewer/xform"

// Snapshot is an immutable copy of a Store. Iteration is in name order.
type Snapshot struct {
	seq    uint64
	names  []string
	frames map[string]xform.Transform
}

// Seq returns the store mutation count the snapshot was taken at. Two
// snapshots with the same Seq have identical contents.
func (s *Snapshot) Seq() uint64 { return s.seq }

// Len returns the number of frames.
func (s *Snapshot) Len() int { return len(s.names) }

// Get returns the transform stored for name.
func (s *Snapshot) Get(name string) (xform.Transform, bool) {
	t, ok := s.frames[name]
	return t, ok
}

// Names returns the frame names in sorted order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Each calls fn for every frame in name order.
func (s *Snapshot) Each(fn func(name string, t xform.Transform)) {
	for _, name := range s.names {
		fn(name, s.frames[name])
	}
}

// Map returns a copy of the snapshot contents.
func (s *Snapshot) Map() map[string]xform.Transform {
	out := make(map[string]xform.Transform, len(s.frames))
	for name, t := range s.frames {
		out[name] = t
	}
	return out
}
