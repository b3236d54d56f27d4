// Package export writes rendered frames to files: PNG stills, looping GIFs
// and SVG documents built from the same marks as the raster frames.
package export

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/moodcanvas/internal/render"
	"github.com/san-kum/moodcanvas/internal/scene"
)

// ErrEmptyViewport is returned when there is no area to rasterize.
var ErrEmptyViewport = errors.New("export: empty viewport")

// Format names an output encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatGIF Format = "gif"
	FormatSVG Format = "svg"
)

// FormatOf picks the format from a file extension, defaulting to PNG.
func FormatOf(path string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "gif":
		return FormatGIF
	case "svg":
		return FormatSVG
	default:
		return FormatPNG
	}
}

// PNG encodes the frame of sc at elapsed seconds t.
func PNG(w io.Writer, sc *scene.Scene, t float64) error {
	im := render.Image(sc, t)
	if im == nil {
		return ErrEmptyViewport
	}
	return png.Encode(w, im)
}

// WriteFile renders sc into path, choosing the encoding from the extension.
// For GIFs, opts sets the clip; t is used as its start.
func WriteFile(path string, sc *scene.Scene, t float64, opts GIFOptions) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	switch FormatOf(path) {
	case FormatGIF:
		opts.Start = t
		err = GIF(f, sc, opts)
	case FormatSVG:
		err = SVG(f, sc, t)
	default:
		err = PNG(f, sc, t)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// FileName is the download name for a render: MoodCanvas-<mood>-<seed>.<ext>.
func FileName(mood string, seed uint32, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = string(FormatPNG)
	}
	return "MoodCanvas-" + sanitizeLabel(mood) + "-" + strconv.FormatUint(uint64(seed), 10) + "." + ext
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "untitled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "untitled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
