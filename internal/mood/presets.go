package mood

import (
	"strings"

	"github.com/san-kum/moodcanvas/internal/seed"
)

const (
	DefaultSpeed = 0.5

	generatedSaturation = 0.7
	generatedLightness  = 0.6
)

// DefaultBackground is the background of generated specs and the dark start of
// every frame gradient.
var DefaultBackground = MustHex("#0B0B0C")

// Offsets applied to the base hue of a generated palette.
var hueOffsets = [...]int{0, 20, -20, 40, -40}

var defaultShapes = []ShapeKind{Circle, Wave}

func palette(hex ...string) []Color {
	p := make([]Color, len(hex))
	for i, h := range hex {
		p[i] = MustHex(h)
	}
	return p
}

var presets = map[string]VisualSpec{
	"happy": {
		Palette:    palette("#FFD166", "#FF9F1C", "#FFE66D", "#FF7F50", "#FFB703"),
		Shapes:     []ShapeKind{Circle},
		Speed:      0.6,
		Background: MustHex("#0B0B0C"),
		Motion:     Gentle,
	},
	"calm": {
		Palette:    palette("#8ECAE6", "#219EBC", "#90E0EF", "#A8DADC", "#48BFE3"),
		Shapes:     []ShapeKind{Wave, Circle},
		Speed:      0.25,
		Background: MustHex("#081018"),
		Motion:     Slow,
	},
	"energetic": {
		Palette:    palette("#EF476F", "#D90429", "#8B5CF6", "#F72585", "#FE4A49"),
		Shapes:     []ShapeKind{Triangle, Square, Burst},
		Speed:      1.1,
		Background: MustHex("#0B080A"),
		Motion:     Fast,
	},
	"tense": {
		Palette:    palette("#4B5563", "#1F2937", "#F59E0B", "#9CA3AF", "#EF4444"),
		Shapes:     []ShapeKind{Line, Square},
		Speed:      0.9,
		Background: MustHex("#0A0A0B"),
		Motion:     Twitch,
	},
	"melancholic": {
		Palette:    palette("#94A3B8", "#64748B", "#475569", "#1F2937", "#6B7280"),
		Shapes:     []ShapeKind{Ellipse, Drip},
		Speed:      0.2,
		Background: MustHex("#0A0F14"),
		Motion:     Fade,
	},
}

// Generate builds the fallback spec for text that names no preset. The base
// hue comes from the hash of the text as typed.
func Generate(text string) VisualSpec {
	hue := seed.Hue(text)
	p := make([]Color, len(hueOffsets))
	for i, d := range hueOffsets {
		h := (hue + d + 360) % 360
		p[i] = HSL(float64(h), generatedSaturation, generatedLightness)
	}
	return VisualSpec{
		Palette:    p,
		Shapes:     append([]ShapeKind(nil), defaultShapes...),
		Speed:      DefaultSpeed,
		Background: DefaultBackground,
		Motion:     Gentle,
		Generated:  true,
	}
}

// Key normalizes a mood label for table lookup.
func Key(text string) string {
	return strings.ToLower(text)
}
