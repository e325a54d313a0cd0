package viewer

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the most recent render ticks.
type Stats struct {
	// Ticks counts completed ticks since the viewer was created.
	Ticks uint64
	// Frames and Lines describe the last tick.
	Frames int
	Lines  int

	// TickRate is the measured ticks per second.
	TickRate float64
	// Interval is the mean time between ticks and IntervalStdDev its
	// standard deviation.
	Interval       time.Duration
	IntervalStdDev time.Duration
	// Render is the mean time spent drawing one tick.
	Render time.Duration
}

// statsWindow is the number of ticks averaged over.
const statsWindow = 120

type tickStats struct {
	mu        sync.Mutex
	intervals ring // seconds
	render    ring // seconds
	last      time.Time
	ticks     uint64
	frames    int
	lines     int
}

func (s *tickStats) record(start, end time.Time, frames, lines int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.last.IsZero() {
		s.intervals.add(start.Sub(s.last).Seconds())
	}
	s.render.add(end.Sub(start).Seconds())
	s.last = start
	s.ticks++
	s.frames = frames
	s.lines = lines
}

// restart forgets the tick timing so a pause between runs is not counted.
func (s *tickStats) restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = time.Time{}
	s.intervals.reset()
	s.render.reset()
}

func (s *tickStats) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Stats{Ticks: s.ticks, Frames: s.frames, Lines: s.lines}
	if len(s.render.vals) > 0 {
		out.Render = seconds(stat.Mean(s.render.vals, nil))
	}
	switch iv := s.intervals.vals; {
	case len(iv) >= 2:
		mean, std := stat.MeanStdDev(iv, nil)
		out.Interval = seconds(mean)
		out.IntervalStdDev = seconds(std)
	case len(iv) == 1:
		out.Interval = seconds(iv[0])
	}
	if out.Interval > 0 {
		out.TickRate = float64(time.Second) / float64(out.Interval)
	}
	return out
}

// ring keeps the last statsWindow samples; order does not matter.
type ring struct {
	vals []float64
	next int
}

func (r *ring) add(v float64) {
	if len(r.vals) < statsWindow {
		r.vals = append(r.vals, v)
	} else {
		r.vals[r.next] = v
	}
	r.next = (r.next + 1) % statsWindow
}

func (r *ring) reset() {
	r.vals = r.vals[:0]
	r.next = 0
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
