package render

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
)

// Neutral is the dark start color of every background gradient.
var Neutral = mood.MustHex("#0B0B0C")

// NewSurface allocates a drawing context for vp, or nil when vp is empty.
func NewSurface(vp scene.Viewport) *gg.Context {
	if vp.Empty() {
		return nil
	}
	return gg.NewContext(vp.Width, vp.Height)
}

// Frame paints one complete frame of sc at elapsed seconds t onto dc. The
// previous contents are fully overwritten. A nil surface, nil scene or empty
// viewport makes this a no-op.
func Frame(dc *gg.Context, sc *scene.Scene, t float64) {
	if dc == nil || sc == nil || sc.Viewport.Empty() {
		return
	}
	if dc.Width() <= 0 || dc.Height() <= 0 {
		return
	}

	dc.Identity()
	dc.ResetClip()
	dc.ClearPath()
	Background(dc, sc)

	for _, m := range Marks(sc, t) {
		Paint(dc, m)
	}
}

// Background fills the viewport with the diagonal gradient from Neutral to the
// spec background.
func Background(dc *gg.Context, sc *scene.Scene) {
	w, h := float64(sc.Viewport.Width), float64(sc.Viewport.Height)
	grad := gg.NewLinearGradient(0, 0, w, h)
	grad.AddColorStop(0, Neutral.NRGBA(1))
	grad.AddColorStop(1, sc.Spec.Background.NRGBA(1))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

// Paint draws a single mark.
func Paint(dc *gg.Context, m Mark) {
	if len(m.Path) == 0 {
		return
	}
	for _, seg := range m.Path {
		switch seg.Op {
		case OpMove:
			dc.MoveTo(seg.P[0].X, seg.P[0].Y)
		case OpLine:
			dc.LineTo(seg.P[0].X, seg.P[0].Y)
		case OpCubic:
			dc.CubicTo(seg.P[0].X, seg.P[0].Y, seg.P[1].X, seg.P[1].Y, seg.P[2].X, seg.P[2].Y)
		case OpClose:
			dc.ClosePath()
		case OpEllipse:
			dc.DrawEllipse(seg.P[0].X, seg.P[0].Y, seg.P[1].X, seg.P[1].Y)
		}
	}

	dc.SetColor(m.Color.NRGBA(m.Alpha))
	if m.Stroke {
		dc.SetLineWidth(m.LineWidth)
		dc.SetLineCapButt()
		dc.Stroke()
		return
	}
	dc.Fill()
}

// RGBA returns the pixels behind dc.
func RGBA(dc *gg.Context) *image.RGBA {
	if dc == nil {
		return nil
	}
	if im, ok := dc.Image().(*image.RGBA); ok {
		return im
	}
	return nil
}

// Image renders sc at t onto a fresh surface and returns its pixels.
func Image(sc *scene.Scene, t float64) *image.RGBA {
	if sc == nil {
		return nil
	}
	dc := NewSurface(sc.Viewport)
	Frame(dc, sc, t)
	return RGBA(dc)
}
