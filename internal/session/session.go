package session

import (
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fogleman/gg"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/render"
	"github.com/san-kum/moodcanvas/internal/scene"
)

// ErrNoFrame is returned when exporting before any frame was painted.
var ErrNoFrame = errors.New("session: no frame painted yet")

// ResizePolicy selects what a viewport change does to the element layout.
type ResizePolicy uint8

const (
	// KeepLayout keeps generated element positions and only moves the
	// viewport-wide bounds (gradient, wave width). No visible jump.
	KeepLayout ResizePolicy = iota
	// Regenerate rebuilds elements against the new viewport from the same
	// seed, keeping layouts proportional.
	Regenerate
)

// Frame describes a painted frame. Image aliases the session surface and is
// only valid for the duration of the OnFrame callback.
type Frame struct {
	Number  uint64
	Elapsed float64
	Scene   *scene.Scene
	Image   *image.RGBA
}

// Options configure a session.
type Options struct {
	Mood     string
	Seed     uint32
	Viewport scene.Viewport
	Resolver *mood.Resolver
	Policy   ResizePolicy
	// Now defaults to time.Now.
	Now func() time.Time
	// OnFrame, if set, runs after each frame is painted and before the
	// next one is requested.
	OnFrame func(Frame)
}

type state struct {
	scene *scene.Scene
	start time.Time
}

// Session is the handle for one activation.
type Session struct {
	display  Display
	resolver *mood.Resolver
	policy   ResizePolicy
	now      func() time.Time
	onFrame  func(Frame)

	current atomic.Pointer[state]

	mu     sync.Mutex // guards active and cancel
	active bool
	cancel func()

	paintMu sync.Mutex // guards the surface and frame bookkeeping
	surface *gg.Context
	frames  uint64
	painted bool
	elapsed float64
}

// New builds the scene for opts and returns an inactive session.
func New(d Display, opts Options) *Session {
	r := opts.Resolver
	if r == nil {
		r = mood.Default
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		display:  d,
		resolver: r,
		policy:   opts.Policy,
		now:      now,
		onFrame:  opts.OnFrame,
	}
	s.current.Store(&state{
		scene: scene.NewWith(r, opts.Mood, opts.Seed, opts.Viewport),
		start: now(),
	})
	return s
}

// Start records the start time and requests the first frame.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	st := s.current.Load()
	s.current.Store(&state{scene: st.scene, start: s.now()})
	s.active = true
	s.cancel = s.display.RequestFrame(s.frame)
}

// Stop cancels the pending frame. A frame already in flight is allowed to
// finish; no frame is requested afterwards. Stop may be called from OnFrame.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Active reports whether frames are being scheduled.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) frame(now time.Time) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.cancel = nil
	s.mu.Unlock()

	s.paintMu.Lock()
	st := s.current.Load()
	elapsed := now.Sub(st.start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	if s.paint(st.scene, elapsed) && s.onFrame != nil {
		s.onFrame(Frame{
			Number:  s.frames,
			Elapsed: elapsed,
			Scene:   st.scene,
			Image:   render.RGBA(s.surface),
		})
	}
	s.paintMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active && s.cancel == nil {
		s.cancel = s.display.RequestFrame(s.frame)
	}
}

// paint draws one frame and reports whether anything was painted. An empty
// viewport drops the surface.
func (s *Session) paint(sc *scene.Scene, elapsed float64) bool {
	vp := sc.Viewport
	if vp.Empty() {
		s.surface = nil
		return false
	}
	if s.surface == nil || s.surface.Width() != vp.Width || s.surface.Height() != vp.Height {
		s.surface = render.NewSurface(vp)
	}
	render.Frame(s.surface, sc, elapsed)
	s.frames++
	s.painted = true
	s.elapsed = elapsed
	return true
}

// Rebuild replaces the scene for a new mood or seed and restarts the clock.
// The swap is atomic with respect to frames.
func (s *Session) Rebuild(text string, explicit uint32) *scene.Scene {
	vp := s.current.Load().scene.Viewport
	sc := scene.NewWith(s.resolver, text, explicit, vp)
	s.current.Store(&state{scene: sc, start: s.now()})
	return sc
}

// Resize applies a viewport change according to the resize policy. The
// animation clock keeps running.
func (s *Session) Resize(vp scene.Viewport) {
	st := s.current.Load()
	if st.scene.Viewport == vp {
		return
	}
	var sc *scene.Scene
	switch s.policy {
	case Regenerate:
		sc = st.scene.Rebuild(vp)
	default:
		sc = st.scene.WithViewport(vp)
	}
	s.current.Store(&state{scene: sc, start: st.start})
}

// Scene returns the scene the next frame will draw.
func (s *Session) Scene() *scene.Scene {
	return s.current.Load().scene
}

// Elapsed returns seconds since the current scene started.
func (s *Session) Elapsed() float64 {
	return s.now().Sub(s.current.Load().start).Seconds()
}

// Frames returns how many frames have been painted.
func (s *Session) Frames() uint64 {
	s.paintMu.Lock()
	defer s.paintMu.Unlock()
	return s.frames
}

// Snapshot copies the most recently painted frame and reports the elapsed
// time it was painted at.
func (s *Session) Snapshot() (*image.RGBA, float64, error) {
	s.paintMu.Lock()
	defer s.paintMu.Unlock()
	src := render.RGBA(s.surface)
	if !s.painted || src == nil {
		return nil, 0, ErrNoFrame
	}
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst, s.elapsed, nil
}

// WritePNG encodes the most recently painted frame.
func (s *Session) WritePNG(w io.Writer) error {
	im, _, err := s.Snapshot()
	if err != nil {
		return err
	}
	return png.Encode(w, im)
}
