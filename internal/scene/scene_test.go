package scene

import (
	"reflect"
	"testing"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/seed"
)

var reference = Viewport{Width: 800, Height: 600}

func TestDeterministicBuild(t *testing.T) {
	moods := []string{"Calm", "happy", "ENERGETIC", "tense", "melancholic", "", "ΩZ9", "rainy tuesday"}
	seeds := []uint32{0, 1, 42, 12345, 1 << 31, ^uint32(0)}

	for _, m := range moods {
		for _, s := range seeds {
			a := New(m, s, reference)
			b := New(m, s, reference)
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("mood %q seed %d: builds differ", m, s)
			}
		}
	}
}

func TestCalmScenario(t *testing.T) {
	sc := New("Calm", 42, reference)

	if sc.Seed != 42 {
		t.Errorf("expected seed 42, got %d", sc.Seed)
	}
	if sc.Spec.Name != "calm" {
		t.Errorf("expected calm preset, got %q", sc.Spec.Name)
	}
	if sc.Count() != 114 {
		t.Fatalf("expected 114 elements, got %d", sc.Count())
	}

	first := sc.Elements[0]
	if first.ColorIndex != 1 || first.Shape != mood.Circle {
		t.Errorf("first element: color %d shape %v", first.ColorIndex, first.Shape)
	}
	if first.X < 358.63 || first.X > 358.64 {
		t.Errorf("first element x: %v", first.X)
	}
	if first.Color.Hex() != "#219ebc" {
		t.Errorf("first element color: %s", first.Color.Hex())
	}

	last := sc.Elements[len(sc.Elements)-1]
	if last.Index != 113 || last.Shape != mood.Wave || last.ColorIndex != 0 {
		t.Errorf("last element: %+v", last)
	}
}

func TestCountBound(t *testing.T) {
	spec := mood.Resolve("calm")
	for s := uint32(0); s < 5000; s++ {
		n := len(Build(spec, s*2654435761, reference))
		if n < MinElements || n > MaxElements {
			t.Fatalf("seed %d: count %d out of [%d, %d]", s, n, MinElements, MaxElements)
		}
	}
}

func TestShapeClosure(t *testing.T) {
	for _, m := range append(mood.Presets(), "", "unknown feeling") {
		spec := mood.Resolve(m)
		allowed := make(map[mood.ShapeKind]bool)
		for _, k := range spec.Shapes {
			allowed[k] = true
		}
		for s := uint32(1); s < 200; s++ {
			for _, el := range Build(spec, s, reference) {
				if !el.Shape.Valid() || !allowed[el.Shape] {
					t.Fatalf("mood %q seed %d: unexpected shape %v", m, s, el.Shape)
				}
			}
		}
	}
}

func TestElementRanges(t *testing.T) {
	spec := mood.Resolve("energetic")
	limit := spec.Speed * 20

	for _, el := range Build(spec, 7, reference) {
		if el.X < 0 || el.X >= 800 || el.Y < 0 || el.Y >= 600 {
			t.Errorf("element %d outside viewport: (%v, %v)", el.Index, el.X, el.Y)
		}
		if el.Size < 10 || el.Size >= 130 {
			t.Errorf("element %d size %v", el.Index, el.Size)
		}
		if el.Drift < -limit || el.Drift >= limit {
			t.Errorf("element %d drift %v", el.Index, el.Drift)
		}
		if el.Color != spec.Palette[el.ColorIndex] {
			t.Errorf("element %d color does not match palette index", el.Index)
		}
	}
}

func TestEmptyMoodFallback(t *testing.T) {
	sc := New("", 0, reference)

	if sc.Seed != seed.Hash("") {
		t.Errorf("expected fallback seed %d, got %d", seed.Hash(""), sc.Seed)
	}
	if !sc.Spec.Generated {
		t.Error("expected generated spec")
	}
	if sc.Seed != 2166136261 {
		t.Errorf("expected the unfolded offset basis as seed, got %d", sc.Seed)
	}
	if sc.Count() != 115 {
		t.Errorf("expected 115 elements, got %d", sc.Count())
	}
}

func TestWithViewportKeepsElements(t *testing.T) {
	sc := New("calm", 42, reference)
	resized := sc.WithViewport(Viewport{Width: 1920, Height: 1080})

	if !reflect.DeepEqual(sc.Elements, resized.Elements) {
		t.Error("resize should keep element coordinates")
	}
	if resized.Viewport.Width != 1920 || sc.Viewport.Width != 800 {
		t.Error("viewport not replaced on the copy only")
	}

	rebuilt := sc.Rebuild(Viewport{Width: 1920, Height: 1080})
	if rebuilt.Count() != sc.Count() {
		t.Error("rebuild should keep the count")
	}
	if rebuilt.Elements[0].X == sc.Elements[0].X {
		t.Error("rebuild should rescale positions")
	}
}

func TestZeroViewport(t *testing.T) {
	sc := New("calm", 42, Viewport{})
	for _, el := range sc.Elements {
		if el.X != 0 || el.Y != 0 {
			t.Fatalf("expected elements at origin, got (%v, %v)", el.X, el.Y)
		}
	}
	if !sc.Viewport.Empty() {
		t.Error("expected empty viewport")
	}
}
