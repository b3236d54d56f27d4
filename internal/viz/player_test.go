package viz

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/moodcanvas/internal/export"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(Options{Mood: "Calm", Seed: 42, OutDir: t.TempDir(), Width: 60, Height: 16})
	m.Init()
	t.Cleanup(m.sess.Stop)
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTickPaintsFrame(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Now()))
	if m.sess.Frames() != 1 {
		t.Fatalf("frames = %d, want 1", m.sess.Frames())
	}

	cols, rows := canvasSize(60, 16)
	if m.canvas.Width != cols || m.canvas.Height != rows {
		t.Errorf("canvas = %dx%d, want %dx%d", m.canvas.Width, m.canvas.Height, cols, rows)
	}
	if m.sess.Scene().Viewport != viewportFor(cols, rows) {
		t.Errorf("viewport = %+v", m.sess.Scene().Viewport)
	}
}

func TestPauseStopsPumping(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key(" "))
	if !m.paused {
		t.Fatal("space should pause")
	}
	m = send(m, TickMsg(time.Now()))
	if m.sess.Frames() != 0 {
		t.Errorf("paused player painted %d frames", m.sess.Frames())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}
}

func TestReseedKeepsMood(t *testing.T) {
	m := newTestModel(t)
	before := m.sess.Scene()
	m = send(m, key("n"))
	after := m.sess.Scene()
	if after.Mood != before.Mood {
		t.Errorf("mood changed: %q", after.Mood)
	}
	if !strings.HasPrefix(m.status, "seed ") {
		t.Errorf("status = %q", m.status)
	}
}

func TestResizeKeepsElements(t *testing.T) {
	m := newTestModel(t)
	before := m.sess.Scene().Elements
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	sc := m.sess.Scene()
	cols, rows := canvasSize(120, 40)
	if sc.Viewport != viewportFor(cols, rows) {
		t.Errorf("viewport = %+v", sc.Viewport)
	}
	if &sc.Elements[0] != &before[0] {
		t.Error("resize regenerated elements")
	}
}

func TestSavePNG(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("s"))
	if !strings.HasPrefix(m.status, "save failed") {
		t.Errorf("save before first frame: status = %q", m.status)
	}

	m = send(m, TickMsg(time.Now()))
	m = send(m, key("s"))
	want := filepath.Join(m.opts.OutDir, export.FileName("Calm", 42, "png"))
	if m.status != "saved "+want {
		t.Errorf("status = %q", m.status)
	}
	if _, err := os.Stat(want); err != nil {
		t.Error(err)
	}
}

func TestSaveGallery(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("g"))
	if m.status != "no gallery configured" {
		t.Errorf("status = %q", m.status)
	}

	repo := storage.New(t.TempDir())
	m.opts.Repo = repo
	m = send(m, TickMsg(time.Now()))
	m = send(m, key("g"))
	if !strings.HasPrefix(m.status, "gallery calm_") {
		t.Fatalf("status = %q", m.status)
	}
	renders, err := repo.List(context.Background())
	if err != nil || len(renders) != 1 {
		t.Fatalf("renders = %v, err = %v", renders, err)
	}
}

func TestQuitStopsSession(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).sess.Active() {
		t.Error("session still active after quit")
	}
}

func TestPickerPlaysPreset(t *testing.T) {
	p := NewPicker(Options{OutDir: t.TempDir()})
	if p.names[len(p.names)-1] != customEntry {
		t.Fatal("custom entry missing")
	}
	next, _ := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(Picker).Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("enter should open a player, got %T", next)
	}
	defer m.sess.Stop()
	if cmd == nil {
		t.Error("player should start ticking")
	}
	if m.sess.Scene().Mood != p.names[1] {
		t.Errorf("mood = %q, want %q", m.sess.Scene().Mood, p.names[1])
	}
}

func TestPickerCustomText(t *testing.T) {
	p := NewPicker(Options{Width: 90, Height: 30})
	p.cursor = len(p.names) - 1
	var next tea.Model = p
	for _, msg := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("rainy")},
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("dayz")},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyEnter},
	} {
		next, _ = next.Update(msg)
	}
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("got %T", next)
	}
	defer m.sess.Stop()
	sc := m.sess.Scene()
	if sc.Mood != "rainy day" || !sc.Spec.Generated {
		t.Errorf("scene = %q generated=%v", sc.Mood, sc.Spec.Generated)
	}
	cols, rows := canvasSize(90, 30)
	if sc.Viewport != (scene.Viewport{Width: cols * pixelScale, Height: rows * 2 * pixelScale}) {
		t.Errorf("viewport = %+v", sc.Viewport)
	}
}
