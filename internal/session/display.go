package session

import (
	"sync"
	"time"
)

// Display delivers refresh callbacks. RequestFrame schedules fn to run once on
// a later refresh and returns a function that withdraws the request if it has
// not fired. Implementations must not call fn synchronously from
// RequestFrame.
type Display interface {
	RequestFrame(fn func(now time.Time)) (cancel func())
}

type request struct {
	fn func(time.Time)
}

// PumpDisplay holds at most one pending request and fires it when the host
// loop calls Pump.
type PumpDisplay struct {
	mu      sync.Mutex
	pending *request
}

func NewPumpDisplay() *PumpDisplay {
	return &PumpDisplay{}
}

func (d *PumpDisplay) RequestFrame(fn func(now time.Time)) func() {
	r := &request{fn: fn}
	d.mu.Lock()
	d.pending = r
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		if d.pending == r {
			d.pending = nil
		}
		d.mu.Unlock()
	}
}

// Pump fires the pending request, if any, and reports whether one fired.
func (d *PumpDisplay) Pump(now time.Time) bool {
	d.mu.Lock()
	r := d.pending
	d.pending = nil
	d.mu.Unlock()

	if r == nil {
		return false
	}
	r.fn(now)
	return true
}

// Pending reports whether a request is waiting.
func (d *PumpDisplay) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// TickerDisplay fires each request one interval after it was made.
type TickerDisplay struct {
	Interval time.Duration
}

// NewTickerDisplay returns a display refreshing fps times per second.
func NewTickerDisplay(fps int) *TickerDisplay {
	if fps <= 0 {
		fps = 60
	}
	return &TickerDisplay{Interval: time.Second / time.Duration(fps)}
}

func (d *TickerDisplay) RequestFrame(fn func(now time.Time)) func() {
	t := time.AfterFunc(d.Interval, func() { fn(time.Now()) })
	return func() { t.Stop() }
}
