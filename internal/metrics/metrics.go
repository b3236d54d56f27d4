// Package metrics tracks frame cadence for the live players: achieved frame
// rate, interval jitter and the share of frames delivered on time.
package metrics

import "time"

// Metric accumulates one statistic over observed frame intervals.
type Metric interface {
	Name() string
	Observe(interval time.Duration)
	Value() float64
	Reset()
}

// Frames turns frame timestamps into intervals, keeps a rolling window of
// them for plotting and feeds every interval to its metrics.
type Frames struct {
	window    int
	last      time.Time
	intervals []float64
	metrics   []Metric
}

func NewFrames(window int, ms ...Metric) *Frames {
	if window <= 0 {
		window = 1
	}
	return &Frames{window: window, metrics: ms}
}

// Default tracks rate, jitter and smoothness against a target fps.
func Default(window, fps int) *Frames {
	return NewFrames(window, NewFrameRate(), NewJitter(), NewSmoothness(fps))
}

// Tick records a frame painted at now. The first tick only sets the
// reference time.
func (f *Frames) Tick(now time.Time) {
	if !f.last.IsZero() {
		d := now.Sub(f.last)
		f.intervals = append(f.intervals, d.Seconds()*1000)
		if len(f.intervals) > f.window {
			f.intervals = f.intervals[1:]
		}
		for _, m := range f.metrics {
			m.Observe(d)
		}
	}
	f.last = now
}

// Intervals returns the windowed frame intervals in milliseconds, oldest
// first.
func (f *Frames) Intervals() []float64 {
	return f.intervals
}

// FPS is the frame rate over the current window.
func (f *Frames) FPS() float64 {
	if len(f.intervals) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range f.intervals {
		total += v
	}
	if total == 0 {
		return 0
	}
	return 1000 / (total / float64(len(f.intervals)))
}

// Values reports every metric by name.
func (f *Frames) Values() map[string]float64 {
	out := make(map[string]float64, len(f.metrics))
	for _, m := range f.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Reset clears the window and all metrics, e.g. after a pause.
func (f *Frames) Reset() {
	f.last = time.Time{}
	f.intervals = f.intervals[:0]
	for _, m := range f.metrics {
		m.Reset()
	}
}
