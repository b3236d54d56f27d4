package render

import (
	"math"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
)

const (
	waveStep = 12.0
	tau      = 2 * math.Pi
)

// Op identifies a path segment.
type Op uint8

const (
	OpMove Op = iota
	OpLine
	OpCubic
	OpClose
	// OpEllipse is a closed ellipse; P[0] is the center and P[1] holds the
	// x and y radii.
	OpEllipse
)

// Point is a position in viewport pixels.
type Point struct {
	X, Y float64
}

// Segment is one path command. Only the points the op needs are set; a cubic
// uses P[0] and P[1] as control points and P[2] as the end point.
type Segment struct {
	Op Op
	P  [3]Point
}

// Path is a sequence of segments in absolute viewport coordinates.
type Path []Segment

func (p *Path) moveTo(x, y float64) { *p = append(*p, Segment{Op: OpMove, P: [3]Point{{x, y}}}) }
func (p *Path) lineTo(x, y float64) { *p = append(*p, Segment{Op: OpLine, P: [3]Point{{x, y}}}) }
func (p *Path) close()              { *p = append(*p, Segment{Op: OpClose}) }

func (p *Path) cubicTo(x1, y1, x2, y2, x3, y3 float64) {
	*p = append(*p, Segment{Op: OpCubic, P: [3]Point{{x1, y1}, {x2, y2}, {x3, y3}}})
}

func (p *Path) ellipse(cx, cy, rx, ry float64) {
	*p = append(*p, Segment{Op: OpEllipse, P: [3]Point{{cx, cy}, {rx, ry}}})
}

// Mark is an element evaluated at one instant.
type Mark struct {
	Index     int
	Shape     mood.ShapeKind
	Color     mood.Color
	Alpha     float64
	Stroke    bool
	LineWidth float64
	Path      Path
}

// Phase is the breathing value in [0, 1] for el at elapsed seconds t.
func Phase(el scene.Element, t float64) float64 {
	return (math.Sin(t*(0.5+math.Abs(el.Drift)*0.01)+float64(el.Index)) + 1) * 0.5
}

// Offset is the displacement of el from its origin at t under motion.
func Offset(el scene.Element, motion mood.MotionStyle, t float64) (dx, dy float64) {
	mx, my := motion.Multipliers()
	i := float64(el.Index)
	dx = math.Cos(t*0.7+i) * el.Drift * mx
	dy = math.Sin(t*0.9+i*0.7) * el.Drift * my
	return dx, dy
}

// Marks evaluates every element of sc at t, in generation order.
func Marks(sc *scene.Scene, t float64) []Mark {
	if sc == nil {
		return nil
	}
	marks := make([]Mark, 0, len(sc.Elements))
	for _, el := range sc.Elements {
		marks = append(marks, Evaluate(el, sc.Spec.Motion, sc.Viewport, t))
	}
	return marks
}

// Evaluate resolves the geometry and paint of a single element.
func Evaluate(el scene.Element, motion mood.MotionStyle, vp scene.Viewport, t float64) Mark {
	j := Phase(el, t)
	dx, dy := Offset(el, motion, t)
	x, y := el.X+dx, el.Y+dy
	s := el.Size
	i := float64(el.Index)

	m := Mark{
		Index: el.Index,
		Shape: el.Shape,
		Color: el.Color,
		Alpha: 0.5 + j*0.5,
	}

	switch el.Shape {
	case mood.Circle:
		r := s * (0.6 + 0.4*j)
		m.Path.ellipse(x, y, r, r)

	case mood.Ellipse:
		m.Path.ellipse(x, y, s*0.6, s*(0.9+j*0.4))

	case mood.Square:
		h := s / 2
		rotated(&m.Path, x, y, math.Mod(i*0.2+t*0.5, tau),
			Point{-h, -h}, Point{h, -h}, Point{h, h}, Point{-h, h})

	case mood.Triangle:
		k := s * 0.6
		rotated(&m.Path, x, y, (t+i)*0.7,
			Point{0, -k}, Point{k, k}, Point{-k, k})

	case mood.Burst:
		spikes := 5 + el.Index%6
		outer := s * (0.6 + j*0.5)
		inner := outer * 0.5
		n := spikes * 2
		for k := 0; k < n; k++ {
			r := outer
			if k%2 == 1 {
				r = inner
			}
			a := float64(k)/float64(n)*tau + t
			px, py := x+math.Cos(a)*r, y+math.Sin(a)*r
			if k == 0 {
				m.Path.moveTo(px, py)
			} else {
				m.Path.lineTo(px, py)
			}
		}
		m.Path.close()

	case mood.Line:
		m.Alpha = 0.3 + j*0.7
		m.Stroke = true
		m.LineWidth = math.Max(1, s*0.05)
		m.Path.moveTo(x-s, y-s*0.5)
		m.Path.lineTo(x+s, y+s*0.5)

	case mood.Wave:
		m.Alpha = 0.25 + j*0.35
		m.Stroke = true
		m.LineWidth = 2 + s*0.03
		amp := s * (0.2 + j*0.3)
		freq := 0.008 + float64(el.Index%5)*0.002
		w := float64(vp.Width)
		for xx := 0.0; xx <= w; xx += waveStep {
			yy := y + math.Sin(xx*freq+t*2)*amp
			if xx == 0 {
				m.Path.moveTo(xx, yy)
			} else {
				m.Path.lineTo(xx, yy)
			}
		}

	case mood.Drip:
		m.Path.moveTo(x, y-s*0.5)
		m.Path.cubicTo(x-s*0.3, y-s*0.2, x-s*0.2, y+s*0.2, x, y+s*0.7)
		m.Path.cubicTo(x+s*0.2, y+s*0.3, x+s*0.3, y-s*0.2, x, y-s*0.5)

	default:
		// Unknown kinds have no geometry and paint nothing.
	}
	return m
}

// rotated appends a closed polygon whose vertices are given relative to
// (x, y) and rotated by angle radians.
func rotated(p *Path, x, y, angle float64, pts ...Point) {
	sin, cos := math.Sincos(angle)
	for k, v := range pts {
		px := x + v.X*cos - v.Y*sin
		py := y + v.X*sin + v.Y*cos
		if k == 0 {
			p.moveTo(px, py)
		} else {
			p.lineTo(px, py)
		}
	}
	p.close()
}
