// Package scene generates the element sequence for a (mood, seed, viewport)
// triple. A Scene is the complete, time-independent description of what to
// draw; time enters only at render time.
package scene

import (
	"math"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/rng"
	"github.com/san-kum/moodcanvas/internal/seed"
)

const (
	// MinElements and MaxElements bound the generated element count.
	MinElements = 60
	MaxElements = 150

	countSpan = 90

	minSize   = 10.0
	sizeSpan  = 120.0
	driftGain = 40.0
)

// Viewport is the drawing area in device pixels.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// Element holds the fixed generative parameters of one visual element.
type Element struct {
	Index      int            `json:"index"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Size       float64        `json:"size"`
	Drift      float64        `json:"drift"`
	Angle      float64        `json:"angle"`
	ColorIndex int            `json:"color_index"`
	Color      mood.Color     `json:"color"`
	Shape      mood.ShapeKind `json:"shape"`
}

// Scene is a visual spec, its generated elements and the viewport they are
// drawn into. Scenes are immutable once built; resizing produces a new value.
type Scene struct {
	Mood     string          `json:"mood"`
	Seed     uint32          `json:"seed"`
	Spec     mood.VisualSpec `json:"spec"`
	Elements []Element       `json:"elements"`
	Viewport Viewport        `json:"viewport"`
}

// New resolves mood with the built-in table and builds its scene. A zero seed
// falls back to the hash of mood.
func New(text string, explicit uint32, vp Viewport) *Scene {
	return NewWith(mood.Default, text, explicit, vp)
}

// NewWith is New with a caller-supplied resolver.
func NewWith(r *mood.Resolver, text string, explicit uint32, vp Viewport) *Scene {
	s := seed.Resolve(text, explicit)
	spec := r.Resolve(text)
	return &Scene{
		Mood:     text,
		Seed:     s,
		Spec:     spec,
		Elements: Build(spec, s, vp),
		Viewport: vp,
	}
}

// Build draws the element sequence for spec from a stream seeded with s.
//
// One draw picks the count, then each element consumes exactly seven draws in
// a fixed order: x, y, size, drift, angle, palette index, shape index. The
// angle is not read by any draw rule but is still taken so the stream stays
// aligned for fields that follow it.
func Build(spec mood.VisualSpec, s uint32, vp Viewport) []Element {
	if len(spec.Palette) == 0 || len(spec.Shapes) == 0 {
		return nil
	}
	src := rng.New(s)
	w, h := float64(vp.Width), float64(vp.Height)

	count := MinElements + src.Intn(countSpan)
	elements := make([]Element, count)
	for i := range elements {
		el := Element{Index: i}
		el.X = src.Next() * w
		el.Y = src.Next() * h
		el.Size = minSize + src.Next()*sizeSpan
		el.Drift = (src.Next() - 0.5) * spec.Speed * driftGain
		el.Angle = src.Next() * 2 * math.Pi
		el.ColorIndex = src.Intn(len(spec.Palette))
		el.Color = spec.Palette[el.ColorIndex]
		el.Shape = spec.Shapes[src.Intn(len(spec.Shapes))]
		elements[i] = el
	}
	return elements
}

// WithViewport returns a copy of the scene drawn into vp. Elements keep the
// coordinates they were generated with; only viewport-wide bounds (background
// gradient, wave width) follow the new size.
func (s *Scene) WithViewport(vp Viewport) *Scene {
	c := *s
	c.Viewport = vp
	return &c
}

// Rebuild regenerates the elements against vp, as a fresh activation would.
func (s *Scene) Rebuild(vp Viewport) *Scene {
	c := *s
	c.Viewport = vp
	c.Elements = Build(s.Spec, s.Seed, vp)
	return &c
}

// Count returns the number of elements.
func (s *Scene) Count() int { return len(s.Elements) }

// ShapeCounts tallies elements per shape kind.
func (s *Scene) ShapeCounts() map[mood.ShapeKind]int {
	counts := make(map[mood.ShapeKind]int)
	for _, el := range s.Elements {
		counts[el.Shape]++
	}
	return counts
}
