package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/moodcanvas/internal/scene"
)

var ErrUnknownPreset = errors.New("unknown viewport preset")

const DefaultViewport = "reference"

var Viewports = map[string]scene.Viewport{
	"reference": {Width: 800, Height: 600},
	"hd":        {Width: 1280, Height: 720},
	"fullhd":    {Width: 1920, Height: 1080},
	"square":    {Width: 1080, Height: 1080},
	"story":     {Width: 1080, Height: 1920},
	"thumb":     {Width: 320, Height: 240},
}

func GetViewport(name string) (scene.Viewport, error) {
	vp, ok := Viewports[strings.ToLower(name)]
	if !ok {
		return scene.Viewport{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return vp, nil
}

func ListViewports() []string {
	names := make([]string, 0, len(Viewports))
	for name := range Viewports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseViewport accepts a preset name or WIDTHxHEIGHT.
func ParseViewport(s string) (scene.Viewport, error) {
	s = strings.TrimSpace(s)
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return GetViewport(s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return GetViewport(s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return scene.Viewport{}, fmt.Errorf("viewport %q: %w", s, err)
	}
	vp := scene.Viewport{Width: width, Height: height}
	if vp.Empty() || width > MaxDimension || height > MaxDimension {
		return scene.Viewport{}, fmt.Errorf("viewport %q out of range", s)
	}
	return vp, nil
}

// Clamp limits a requested dimension to [1, MaxDimension], using def for
// non-positive input.
func Clamp(n, def int) int {
	if n <= 0 {
		n = def
	}
	return max(1, min(n, MaxDimension))
}
