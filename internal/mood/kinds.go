package mood

import (
	"fmt"
	"strings"
)

// ShapeKind is the closed set of element shapes the renderer knows how to draw.
type ShapeKind uint8

const (
	Circle ShapeKind = iota
	Ellipse
	Square
	Triangle
	Burst
	Line
	Wave
	Drip

	numShapeKinds
)

var shapeNames = [numShapeKinds]string{
	Circle:   "circle",
	Ellipse:  "ellipse",
	Square:   "square",
	Triangle: "triangle",
	Burst:    "burst",
	Line:     "line",
	Wave:     "wave",
	Drip:     "drip",
}

// ShapeKinds returns every shape kind in declaration order.
func ShapeKinds() []ShapeKind {
	kinds := make([]ShapeKind, numShapeKinds)
	for i := range kinds {
		kinds[i] = ShapeKind(i)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k ShapeKind) Valid() bool { return k < numShapeKinds }

func (k ShapeKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("shape(%d)", uint8(k))
	}
	return shapeNames[k]
}

// ParseShapeKind parses a shape name case-insensitively.
func ParseShapeKind(s string) (ShapeKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range shapeNames {
		if n == name {
			return ShapeKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalidSpec, s)
}

func (k ShapeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: shape %d", ErrInvalidSpec, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *ShapeKind) UnmarshalText(text []byte) error {
	v, err := ParseShapeKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MotionStyle modulates per-element oscillation at render time.
type MotionStyle uint8

const (
	Gentle MotionStyle = iota
	Slow
	Fast
	Twitch
	Fade

	numMotionStyles
)

var motionNames = [numMotionStyles]string{
	Gentle: "gentle",
	Slow:   "slow",
	Fast:   "fast",
	Twitch: "twitch",
	Fade:   "fade",
}

// Valid reports whether m is one of the declared styles.
func (m MotionStyle) Valid() bool { return m < numMotionStyles }

func (m MotionStyle) String() string {
	if !m.Valid() {
		return fmt.Sprintf("motion(%d)", uint8(m))
	}
	return motionNames[m]
}

// Multipliers returns the horizontal and vertical offset multipliers.
// Fast triples horizontal sway, twitch damps vertical sway to 0.7.
func (m MotionStyle) Multipliers() (mx, my float64) {
	switch m {
	case Fast:
		return 3, 1
	case Twitch:
		return 1, 0.7
	default:
		return 1, 1
	}
}

// ParseMotionStyle parses a motion style name case-insensitively.
func ParseMotionStyle(s string) (MotionStyle, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range motionNames {
		if n == name {
			return MotionStyle(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown motion %q", ErrInvalidSpec, s)
}

func (m MotionStyle) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: motion %d", ErrInvalidSpec, uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *MotionStyle) UnmarshalText(text []byte) error {
	v, err := ParseMotionStyle(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
