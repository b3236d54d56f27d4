package session_test

import (
	"bytes"
	"image/png"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/moodcanvas/internal/render"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/session"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

var _ = Describe("Session", func() {
	var (
		display *session.PumpDisplay
		clk     *clock
		frames  []session.Frame
		s       *session.Session
		vp      = scene.Viewport{Width: 160, Height: 120}
	)

	BeforeEach(func() {
		display = session.NewPumpDisplay()
		clk = &clock{now: time.Unix(1700000000, 0)}
		frames = nil
		s = session.New(display, session.Options{
			Mood:     "Calm",
			Seed:     42,
			Viewport: vp,
			Now:      clk.Now,
			OnFrame: func(f session.Frame) {
				frames = append(frames, session.Frame{Number: f.Number, Elapsed: f.Elapsed, Scene: f.Scene})
			},
		})
	})

	Describe("scheduling", func() {
		It("requests nothing until started", func() {
			Expect(display.Pending()).To(BeFalse())
			Expect(s.Active()).To(BeFalse())
		})

		It("keeps exactly one request pending while active", func() {
			s.Start()
			Expect(display.Pending()).To(BeTrue())

			Expect(display.Pump(clk.Advance(16 * time.Millisecond))).To(BeTrue())
			Expect(display.Pending()).To(BeTrue())
			Expect(s.Frames()).To(Equal(uint64(1)))
		})

		It("paints at the time elapsed since start", func() {
			s.Start()
			display.Pump(clk.Advance(500 * time.Millisecond))
			display.Pump(clk.Advance(1500 * time.Millisecond))

			Expect(frames).To(HaveLen(2))
			Expect(frames[0].Elapsed).To(BeNumerically("~", 0.5, 1e-9))
			Expect(frames[1].Elapsed).To(BeNumerically("~", 2.0, 1e-9))
			Expect(frames[1].Number).To(Equal(uint64(2)))
		})

		It("matches a standalone render of the same instant", func() {
			s.Start()
			display.Pump(clk.Advance(750 * time.Millisecond))

			got, at, err := s.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(at).To(BeNumerically("~", 0.75, 1e-9))

			want := render.Image(s.Scene(), 0.75)
			Expect(got.Pix).To(Equal(want.Pix))
		})

		It("ignores a second Start", func() {
			s.Start()
			clk.Advance(time.Second)
			s.Start()
			display.Pump(clk.Advance(time.Second))
			Expect(frames[0].Elapsed).To(BeNumerically("~", 2.0, 1e-9))
		})
	})

	Describe("teardown", func() {
		It("cancels the pending request", func() {
			s.Start()
			display.Pump(clk.Advance(time.Second))
			s.Stop()

			Expect(display.Pending()).To(BeFalse())
			Expect(display.Pump(clk.Advance(time.Second))).To(BeFalse())
			Expect(s.Frames()).To(Equal(uint64(1)))
		})

		It("does not paint from a request captured before Stop", func() {
			var stale func(time.Time)
			d := &capture{fire: func(fn func(time.Time)) { stale = fn }}
			s2 := session.New(d, session.Options{Mood: "Calm", Seed: 42, Viewport: vp, Now: clk.Now})
			s2.Start()
			s2.Stop()

			stale(clk.Advance(time.Second))
			Expect(s2.Frames()).To(BeZero())
		})

		It("stops from inside a frame without re-arming", func() {
			var s3 *session.Session
			s3 = session.New(display, session.Options{
				Mood: "Calm", Seed: 42, Viewport: vp, Now: clk.Now,
				OnFrame: func(session.Frame) { s3.Stop() },
			})
			s3.Start()
			Expect(display.Pump(clk.Advance(time.Second))).To(BeTrue())

			Expect(s3.Active()).To(BeFalse())
			Expect(s3.Frames()).To(Equal(uint64(1)))
			Expect(display.Pending()).To(BeFalse())
		})
	})

	Describe("rebuild", func() {
		It("swaps the scene and restarts the clock", func() {
			s.Start()
			display.Pump(clk.Advance(3 * time.Second))

			sc := s.Rebuild("happy", 7)
			Expect(sc.Seed).To(Equal(uint32(7)))
			Expect(sc.Spec.Name).To(Equal("happy"))
			Expect(s.Scene()).To(BeIdenticalTo(sc))

			display.Pump(clk.Advance(250 * time.Millisecond))
			last := frames[len(frames)-1]
			Expect(last.Scene).To(BeIdenticalTo(sc))
			Expect(last.Elapsed).To(BeNumerically("~", 0.25, 1e-9))
		})

		It("falls back to the mood hash when the seed is zero", func() {
			sc := s.Rebuild("Calm", 0)
			Expect(sc.Seed).To(Equal(uint32(857591606)))
		})
	})

	Describe("resize", func() {
		It("keeps element positions by default", func() {
			before := s.Scene()
			s.Resize(scene.Viewport{Width: 320, Height: 240})
			after := s.Scene()

			Expect(after.Viewport).To(Equal(scene.Viewport{Width: 320, Height: 240}))
			Expect(after.Elements).To(Equal(before.Elements))
		})

		It("regenerates against the new viewport when asked", func() {
			s = session.New(display, session.Options{
				Mood: "Calm", Seed: 42, Viewport: vp, Now: clk.Now, Policy: session.Regenerate,
			})
			big := scene.Viewport{Width: 1600, Height: 1200}
			s.Resize(big)
			Expect(s.Scene().Elements).To(Equal(scene.New("Calm", 42, big).Elements))
		})

		It("paints the next frame at the new size without resetting the clock", func() {
			s.Start()
			display.Pump(clk.Advance(time.Second))
			s.Resize(scene.Viewport{Width: 64, Height: 48})
			display.Pump(clk.Advance(time.Second))

			im, at, err := s.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(im.Bounds().Dx()).To(Equal(64))
			Expect(im.Bounds().Dy()).To(Equal(48))
			Expect(at).To(BeNumerically("~", 2.0, 1e-9))
		})

		It("paints nothing into an empty viewport but keeps running", func() {
			s.Start()
			s.Resize(scene.Viewport{})
			display.Pump(clk.Advance(time.Second))

			Expect(s.Frames()).To(BeZero())
			Expect(display.Pending()).To(BeTrue())
		})
	})

	Describe("export", func() {
		It("fails before the first frame", func() {
			var buf bytes.Buffer
			Expect(s.WritePNG(&buf)).To(MatchError(session.ErrNoFrame))
		})

		It("encodes the last painted frame", func() {
			s.Start()
			display.Pump(clk.Advance(time.Second))

			var buf bytes.Buffer
			Expect(s.WritePNG(&buf)).To(Succeed())
			im, err := png.Decode(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(im.Bounds().Dx()).To(Equal(vp.Width))
		})

		It("returns a copy that later frames do not touch", func() {
			s.Start()
			display.Pump(clk.Advance(time.Second))
			first, _, err := s.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			kept := append([]byte(nil), first.Pix...)

			display.Pump(clk.Advance(time.Second))
			Expect(first.Pix).To(Equal(kept))
		})
	})
})

var _ = Describe("TickerDisplay", func() {
	It("drives frames on its own clock", func() {
		s := session.New(session.NewTickerDisplay(200), session.Options{
			Mood: "energetic", Viewport: scene.Viewport{Width: 32, Height: 32},
		})
		s.Start()
		defer s.Stop()

		Eventually(s.Frames).WithTimeout(2 * time.Second).Should(BeNumerically(">=", 3))
	})

	It("stays quiet after Stop", func() {
		s := session.New(session.NewTickerDisplay(200), session.Options{
			Mood: "tense", Viewport: scene.Viewport{Width: 32, Height: 32},
		})
		s.Start()
		Eventually(s.Frames).WithTimeout(2 * time.Second).Should(BeNumerically(">=", 1))
		s.Stop()
		Expect(s.Active()).To(BeFalse())

		// A frame already painting when Stop ran may still land; nothing after it.
		n := s.Frames()
		Consistently(s.Frames).WithTimeout(50 * time.Millisecond).Should(BeNumerically("<=", n+1))
	})
})

type capture struct {
	fire func(fn func(time.Time))
}

func (c *capture) RequestFrame(fn func(time.Time)) func() {
	c.fire(fn)
	return func() {}
}
