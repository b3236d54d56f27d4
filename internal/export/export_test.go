package export

import (
	"bytes"
	"encoding/xml"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/san-kum/moodcanvas/internal/render"
	"github.com/san-kum/moodcanvas/internal/scene"
)

var small = scene.Viewport{Width: 96, Height: 72}

func TestFileName(t *testing.T) {
	tests := []struct {
		mood string
		seed uint32
		ext  string
		want string
	}{
		{"Calm", 42, "png", "MoodCanvas-Calm-42.png"},
		{"quiet rain", 7, ".svg", "MoodCanvas-quiet_rain-7.svg"},
		{"a/b\\c", 1, "", "MoodCanvas-a_b_c-1.png"},
		{"  ", 3, "gif", "MoodCanvas-untitled-3.gif"},
	}
	for _, tt := range tests {
		if got := FileName(tt.mood, tt.seed, tt.ext); got != tt.want {
			t.Errorf("FileName(%q, %d, %q) = %q, want %q", tt.mood, tt.seed, tt.ext, got, tt.want)
		}
	}
}

func TestFormatOf(t *testing.T) {
	cases := map[string]Format{
		"out.png":    FormatPNG,
		"out.GIF":    FormatGIF,
		"dir/a.svg":  FormatSVG,
		"noext":      FormatPNG,
		"frame.jpeg": FormatPNG,
	}
	for path, want := range cases {
		if got := FormatOf(path); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestPNGMatchesRender(t *testing.T) {
	sc := scene.New("happy", 5, small)
	var buf bytes.Buffer
	if err := PNG(&buf, sc, 1.5); err != nil {
		t.Fatal(err)
	}
	im, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := render.Image(sc, 1.5)
	for _, p := range [][2]int{{0, 0}, {48, 36}, {95, 71}} {
		if im.At(p[0], p[1]) != want.At(p[0], p[1]) {
			t.Errorf("pixel %v = %v, want %v", p, im.At(p[0], p[1]), want.At(p[0], p[1]))
		}
	}
}

func TestPNGEmptyViewport(t *testing.T) {
	sc := scene.New("calm", 1, scene.Viewport{})
	if err := PNG(&bytes.Buffer{}, sc, 0); err != ErrEmptyViewport {
		t.Errorf("err = %v, want ErrEmptyViewport", err)
	}
}

func TestSVGEmptyViewport(t *testing.T) {
	var buf bytes.Buffer
	for _, vp := range []scene.Viewport{{}, {Width: 0, Height: 40}, {Width: 40, Height: -1}} {
		sc := scene.New("calm", 1, vp)
		if err := SVG(&buf, sc, 0); err != ErrEmptyViewport {
			t.Errorf("%+v: err = %v, want ErrEmptyViewport", vp, err)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for an empty viewport", buf.Len())
	}
}

func TestGIF(t *testing.T) {
	sc := scene.New("energetic", 9, small)
	var buf bytes.Buffer
	if err := GIF(&buf, sc, GIFOptions{Frames: 6, FPS: 10}); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 6 {
		t.Fatalf("frames = %d, want 6", len(anim.Image))
	}
	for i, d := range anim.Delay {
		if d != 10 {
			t.Errorf("delay[%d] = %d, want 10", i, d)
		}
	}
	if anim.Image[0].Bounds().Dx() != small.Width {
		t.Errorf("width = %d", anim.Image[0].Bounds().Dx())
	}
}

func TestClipIsDeterministic(t *testing.T) {
	sc := scene.New("tense", 11, small)
	a := Clip(sc, GIFOptions{Frames: 5, FPS: 20, Start: 2})
	b := Clip(sc, GIFOptions{Frames: 5, FPS: 20, Start: 2})
	for i := range a {
		if !bytes.Equal(a[i].Pix, b[i].Pix) {
			t.Fatalf("frame %d differs between runs", i)
		}
	}
	if bytes.Equal(a[0].Pix, a[4].Pix) {
		t.Error("clip frames are all identical")
	}
}

func TestGIFDefaults(t *testing.T) {
	o := GIFOptions{}.withDefaults()
	if o.Frames != 48 || o.FPS != 24 {
		t.Errorf("defaults = %+v", o)
	}
	if d := (GIFOptions{FPS: 500}).Delay(); d != 1 {
		t.Errorf("Delay at 500 fps = %d, want 1", d)
	}
}

func TestSVG(t *testing.T) {
	sc := scene.New("Calm", 42, scene.Viewport{Width: 800, Height: 600})
	var buf bytes.Buffer
	if err := SVG(&buf, sc, 0.5); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	var doc struct {
		Width  string `xml:"width,attr"`
		Height string `xml:"height,attr"`
		Paths  []struct {
			D string `xml:"d,attr"`
		} `xml:"path"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid xml: %v", err)
	}
	if doc.Width != "800" || doc.Height != "600" {
		t.Errorf("size = %sx%s", doc.Width, doc.Height)
	}
	if len(doc.Paths) != sc.Count() {
		t.Errorf("paths = %d, want %d", len(doc.Paths), sc.Count())
	}
	if !strings.Contains(out, `stop-color="#0b0b0c"`) {
		t.Error("missing neutral gradient stop")
	}
	if !strings.Contains(out, sc.Spec.Background.Hex()) {
		t.Error("missing background gradient stop")
	}
	for _, c := range sc.Spec.Palette {
		if !strings.Contains(out, c.Hex()) {
			t.Errorf("palette color %s unused", c.Hex())
		}
	}
}

func TestPathData(t *testing.T) {
	var p render.Path
	p = append(p,
		render.Segment{Op: render.OpMove, P: [3]render.Point{{X: 1, Y: 2}}},
		render.Segment{Op: render.OpLine, P: [3]render.Point{{X: 3, Y: 4}}},
		render.Segment{Op: render.OpClose},
	)
	if got := pathData(p); got != "M1.00 2.00L3.00 4.00Z" {
		t.Errorf("pathData = %q", got)
	}

	e := render.Path{{Op: render.OpEllipse, P: [3]render.Point{{X: 10, Y: 10}, {X: 5, Y: 3}}}}
	if got := pathData(e); !strings.HasPrefix(got, "M5.00 10.00A5.00 3.00") {
		t.Errorf("ellipse = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	sc := scene.New("melancholic", 3, small)
	for _, name := range []string{"a.png", "nested/b.svg", "c.gif"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, sc, 0, GIFOptions{Frames: 2}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written", name)
		}
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 3, 17, 100} {
		seen := make([]int32, n)
		var calls int32
		parallelFor(n, 4, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
		if calls == 0 {
			t.Errorf("n=%d: fn never called", n)
		}
	}
}
