package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/moodcanvas/internal/render"
	"github.com/san-kum/moodcanvas/internal/scene"
)

// SVG writes the frame of sc at t as an SVG document. Every element becomes
// one <path> carrying the same geometry the raster backend fills.
func SVG(w io.Writer, sc *scene.Scene, t float64) error {
	if sc == nil || sc.Viewport.Empty() {
		return ErrEmptyViewport
	}
	bw := bufio.NewWriter(w)
	width, height := sc.Viewport.Width, sc.Viewport.Height

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs>
<linearGradient id="bg" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="%d" y2="%d">
<stop offset="0" stop-color="%s"/>
<stop offset="1" stop-color="%s"/>
</linearGradient>
</defs>
<rect width="%d" height="%d" fill="url(#bg)"/>
`, width, height, width, height, width, height,
		render.Neutral.Hex(), sc.Spec.Background.Hex(), width, height)

	for _, m := range render.Marks(sc, t) {
		if len(m.Path) == 0 {
			continue
		}
		if m.Stroke {
			fmt.Fprintf(bw, `<path d="%s" fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"/>`+"\n",
				pathData(m.Path), m.Color.Hex(), m.Alpha, m.LineWidth)
			continue
		}
		fmt.Fprintf(bw, `<path d="%s" fill="%s" fill-opacity="%.3f"/>`+"\n",
			pathData(m.Path), m.Color.Hex(), m.Alpha)
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// pathData converts a path into SVG path syntax. Ellipses become two arcs.
func pathData(p render.Path) string {
	var buf []byte
	for _, seg := range p {
		a, b, c := seg.P[0], seg.P[1], seg.P[2]
		switch seg.Op {
		case render.OpMove:
			buf = fmt.Appendf(buf, "M%.2f %.2f", a.X, a.Y)
		case render.OpLine:
			buf = fmt.Appendf(buf, "L%.2f %.2f", a.X, a.Y)
		case render.OpCubic:
			buf = fmt.Appendf(buf, "C%.2f %.2f %.2f %.2f %.2f %.2f", a.X, a.Y, b.X, b.Y, c.X, c.Y)
		case render.OpClose:
			buf = append(buf, 'Z')
		case render.OpEllipse:
			rx, ry := math.Abs(b.X), math.Abs(b.Y)
			buf = fmt.Appendf(buf, "M%.2f %.2fA%.2f %.2f 0 1 0 %.2f %.2fA%.2f %.2f 0 1 0 %.2f %.2fZ",
				a.X-rx, a.Y, rx, ry, a.X+rx, a.Y, rx, ry, a.X-rx, a.Y)
		}
	}
	return string(buf)
}
