package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mood != "Calm" {
		t.Errorf("expected mood Calm, got %s", cfg.Mood)
	}
	if cfg.Viewport != (scene.Viewport{Width: 800, Height: 600}) {
		t.Errorf("expected 800x600, got %+v", cfg.Viewport)
	}
	if cfg.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetViewport(t *testing.T) {
	vp, err := GetViewport("HD")
	if err != nil {
		t.Fatal(err)
	}
	if vp.Width != 1280 || vp.Height != 720 {
		t.Errorf("expected 1280x720, got %+v", vp)
	}
}

func TestGetViewport_NotFound(t *testing.T) {
	_, err := GetViewport("imax")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestListViewports(t *testing.T) {
	names := ListViewports()
	if len(names) != len(Viewports) {
		t.Errorf("expected %d presets, got %d", len(Viewports), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("not sorted: %v", names)
		}
	}
}

func TestParseViewport(t *testing.T) {
	tests := []struct {
		in      string
		want    scene.Viewport
		wantErr bool
	}{
		{"640x480", scene.Viewport{Width: 640, Height: 480}, false},
		{"1920X1080", scene.Viewport{Width: 1920, Height: 1080}, false},
		{"square", scene.Viewport{Width: 1080, Height: 1080}, false},
		{"0x10", scene.Viewport{}, true},
		{"5000x10", scene.Viewport{}, true},
		{"10xabc", scene.Viewport{}, true},
		{"nope", scene.Viewport{}, true},
	}

	for _, tt := range tests {
		got, err := ParseViewport(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(0, 800); got != 800 {
		t.Errorf("Clamp(0) = %d", got)
	}
	if got := Clamp(99999, 800); got != MaxDimension {
		t.Errorf("Clamp(99999) = %d", got)
	}
	if got := Clamp(-5, -5); got != 1 {
		t.Errorf("Clamp(-5, -5) = %d", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodcanvas.yaml")
	data := `
mood: stormy dusk
seed: 42
viewport: {width: 1024, height: 768}
storage: sqlite
moods:
  Stormy:
    palette: ["#112233", "#445566"]
    shapes: [wave, drip]
    background: "#000000"
    motion: twitch
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 || cfg.Mood != "stormy dusk" {
		t.Errorf("unexpected mood/seed: %q %d", cfg.Mood, cfg.Seed)
	}
	if cfg.FPS != DefaultFPS || cfg.DataDir != DefaultDataDir {
		t.Errorf("defaults not kept: %+v", cfg)
	}

	r, err := cfg.Resolver()
	if err != nil {
		t.Fatal(err)
	}
	spec, ok := r.Lookup("stormy")
	if !ok {
		t.Fatal("custom mood not registered")
	}
	if spec.Speed != mood.DefaultSpeed {
		t.Errorf("expected default speed, got %v", spec.Speed)
	}
	if spec.Motion != mood.Twitch || len(spec.Shapes) != 2 {
		t.Errorf("unexpected spec %+v", spec)
	}
}

func TestLoadRejectsInvalidMood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := "moods:\n  empty:\n    palette: []\n    shapes: [circle]\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, mood.ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestLoadRejectsUnknownShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := "moods:\n  odd:\n    palette: [\"#ffffff\"]\n    shapes: [hexagon]\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Viewport = Viewports["story"]
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != 7 || got.Viewport != cfg.Viewport {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MOODCANVAS_MOOD":     "happy",
		"MOODCANVAS_SEED":     "99",
		"MOODCANVAS_VIEWPORT": "hd",
		"MOODCANVAS_FPS":      "30",
		"PORT":                "9000",
		"ENVIRONMENT":         "production",
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Mood != "happy" || cfg.Seed != 99 || cfg.FPS != 30 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Viewport != Viewports["hd"] {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Server.Port != "9000" || !cfg.IsProduction() {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	for key, val := range map[string]string{
		"MOODCANVAS_SEED":     "-3",
		"MOODCANVAS_VIEWPORT": "huge",
		"MOODCANVAS_FPS":      "fast",
		"MOODCANVAS_STORAGE":  "s3",
	} {
		cfg := DefaultConfig()
		err := cfg.ApplyEnv(func(k string) string {
			if k == key {
				return val
			}
			return ""
		})
		if err == nil {
			t.Errorf("%s=%s: expected error", key, val)
		}
	}
}
