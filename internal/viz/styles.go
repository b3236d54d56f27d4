package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/moodcanvas/internal/mood"
)

// Swatch renders one colored block per palette entry.
func Swatch(palette []mood.Color) string {
	var sb strings.Builder
	for _, c := range palette {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██"))
	}
	return sb.String()
}

// GradientText colors text along a blend from start to end.
func GradientText(text string, start, end mood.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := start.BlendLab(end.Color, t).Clamped()
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return sb.String()
}

// SparklineChart renders a mini sparkline of the last width values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		sb.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return sb.String()
}
