package metrics

import (
	"math"
	"time"
)

// lateFactor marks a frame late when its interval exceeds the target by half.
const lateFactor = 1.5

type FrameRate struct {
	name    string
	sum     float64
	samples int
}

func NewFrameRate() *FrameRate {
	return &FrameRate{name: "fps"}
}

func (r *FrameRate) Name() string {
	return r.name
}

func (r *FrameRate) Observe(interval time.Duration) {
	r.sum += interval.Seconds()
	r.samples++
}

func (r *FrameRate) Value() float64 {
	if r.sum == 0 {
		return 0
	}
	return float64(r.samples) / r.sum
}

func (r *FrameRate) Reset() {
	r.sum = 0
	r.samples = 0
}

// Jitter is the standard deviation of frame intervals in milliseconds.
type Jitter struct {
	name    string
	mean    float64
	m2      float64
	samples int
}

func NewJitter() *Jitter {
	return &Jitter{name: "jitter_ms"}
}

func (j *Jitter) Name() string {
	return j.name
}

func (j *Jitter) Observe(interval time.Duration) {
	ms := interval.Seconds() * 1000
	j.samples++
	delta := ms - j.mean
	j.mean += delta / float64(j.samples)
	j.m2 += delta * (ms - j.mean)
}

func (j *Jitter) Value() float64 {
	if j.samples < 2 {
		return 0
	}
	return math.Sqrt(j.m2 / float64(j.samples))
}

func (j *Jitter) Reset() {
	j.mean = 0
	j.m2 = 0
	j.samples = 0
}

// Smoothness is the fraction of frames that arrived on time for the target
// rate.
type Smoothness struct {
	name      string
	threshold time.Duration
	late      int
	samples   int
}

func NewSmoothness(fps int) *Smoothness {
	if fps <= 0 {
		fps = 60
	}
	target := time.Second / time.Duration(fps)
	return &Smoothness{
		name:      "smoothness",
		threshold: time.Duration(float64(target) * lateFactor),
	}
}

func (s *Smoothness) Name() string {
	return s.name
}

func (s *Smoothness) Observe(interval time.Duration) {
	s.samples++
	if interval > s.threshold {
		s.late++
	}
}

func (s *Smoothness) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.late)/float64(s.samples)
}

func (s *Smoothness) Reset() {
	s.late = 0
	s.samples = 0
}
