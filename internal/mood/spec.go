package mood

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidSpec reports a visual spec that cannot be rendered.
var ErrInvalidSpec = errors.New("mood: invalid visual spec")

// VisualSpec is the resolved theme for a mood. Resolvers hand out copies, so
// callers may not observe each other's mutations.
type VisualSpec struct {
	Name       string      `json:"name" yaml:"-"`
	Palette    []Color     `json:"palette" yaml:"palette"`
	Shapes     []ShapeKind `json:"shapes" yaml:"shapes"`
	Speed      float64     `json:"speed" yaml:"speed"`
	Background Color       `json:"background" yaml:"background"`
	Motion     MotionStyle `json:"motion" yaml:"motion"`
	Generated  bool        `json:"generated" yaml:"-"`
}

// Validate checks the invariants every renderable spec must hold.
func (v VisualSpec) Validate() error {
	if len(v.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidSpec)
	}
	if len(v.Shapes) == 0 {
		return fmt.Errorf("%w: no shapes", ErrInvalidSpec)
	}
	for _, k := range v.Shapes {
		if !k.Valid() {
			return fmt.Errorf("%w: shape %d", ErrInvalidSpec, uint8(k))
		}
	}
	if !(v.Speed > 0) {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidSpec, v.Speed)
	}
	if !v.Motion.Valid() {
		return fmt.Errorf("%w: motion %d", ErrInvalidSpec, uint8(v.Motion))
	}
	return nil
}

// Clone returns a deep copy of v.
func (v VisualSpec) Clone() VisualSpec {
	v.Palette = slices.Clone(v.Palette)
	v.Shapes = slices.Clone(v.Shapes)
	return v
}
