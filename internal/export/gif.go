package export

import (
	"image"
	"image/color/palette"
	"image/gif"
	"io"

	"golang.org/x/image/draw"

	"github.com/san-kum/moodcanvas/internal/render"
	"github.com/san-kum/moodcanvas/internal/scene"
)

// GIFOptions describe a clip. Zero values select 48 frames at 24 FPS from
// t = 0.
type GIFOptions struct {
	Frames int
	FPS    int
	Start  float64
}

func (o GIFOptions) withDefaults() GIFOptions {
	if o.Frames <= 0 {
		o.Frames = 48
	}
	if o.FPS <= 0 {
		o.FPS = 24
	}
	return o
}

// Delay is the per-frame delay in hundredths of a second.
func (o GIFOptions) Delay() int {
	o = o.withDefaults()
	d := 100 / o.FPS
	if d < 1 {
		d = 1
	}
	return d
}

var surfaces = render.NewSurfacePool()

// Clip rasterizes the frames of a clip. Frames do not depend on each other,
// so they are painted in parallel.
func Clip(sc *scene.Scene, opts GIFOptions) []*image.Paletted {
	opts = opts.withDefaults()
	if sc == nil || sc.Viewport.Empty() {
		return nil
	}
	frames := make([]*image.Paletted, opts.Frames)
	step := 1 / float64(opts.FPS)

	parallelFor(opts.Frames, 4, func(start, end int) {
		dc := surfaces.Get(sc.Viewport)
		defer surfaces.Put(dc)
		for i := start; i < end; i++ {
			render.Frame(dc, sc, opts.Start+float64(i)*step)
			src := render.RGBA(dc)
			dst := image.NewPaletted(src.Bounds(), palette.Plan9)
			draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
			frames[i] = dst
		}
	})
	return frames
}

// GIF encodes a looping animation of sc.
func GIF(w io.Writer, sc *scene.Scene, opts GIFOptions) error {
	frames := Clip(sc, opts)
	if len(frames) == 0 {
		return ErrEmptyViewport
	}
	anim := gif.GIF{LoopCount: 0}
	delay := opts.Delay()
	for _, f := range frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
