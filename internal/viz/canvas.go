package viz

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// Canvas is a grid of half-block cells. Each cell shows two vertically
// stacked pixels: the upper one as foreground of '▀', the lower one as
// background.
type Canvas struct {
	Width, Height int
	pixels        *image.RGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize changes the grid size in cells and clears it.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 0), max(h, 0)
	c.pixels = image.NewRGBA(image.Rect(0, 0, c.Width, c.Height*2))
}

// Draw scales src onto the canvas.
func (c *Canvas) Draw(src image.Image) {
	if src == nil || c.Width == 0 || c.Height == 0 {
		return
	}
	draw.ApproxBiLinear.Scale(c.pixels, c.pixels.Bounds(), src, src.Bounds(), draw.Src, nil)
}

// At returns the pixel at (x, y) in sub-cell coordinates.
func (c *Canvas) At(x, y int) color.RGBA {
	return c.pixels.RGBAAt(x, y)
}

func (c *Canvas) String() string {
	var sb strings.Builder
	cache := make(map[[2]color.RGBA]lipgloss.Style)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			key := [2]color.RGBA{c.pixels.RGBAAt(col, row*2), c.pixels.RGBAAt(col, row*2+1)}
			st, ok := cache[key]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(hexRGBA(key[0]))).
					Background(lipgloss.Color(hexRGBA(key[1])))
				cache[key] = st
			}
			sb.WriteString(st.Render("▀"))
		}
		if row < c.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexRGBA(c color.RGBA) string {
	const hex = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = hex[v>>4]
		b[2+i*2] = hex[v&0x0f]
	}
	return string(b)
}
