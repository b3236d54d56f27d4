package viz

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/moodcanvas/internal/export"
	"github.com/san-kum/moodcanvas/internal/metrics"
	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/seed"
	"github.com/san-kum/moodcanvas/internal/session"
	"github.com/san-kum/moodcanvas/internal/storage"
)

const (
	panelWidth = 34
	// pixelScale is the number of viewport pixels behind one canvas pixel.
	pixelScale    = 8
	defaultCols   = 80
	defaultRows   = 24
	frameHistory  = 120
	sparkWidth    = panelWidth - 6
	minCanvasCols = 8
	minCanvasRows = 4
)

type TickMsg time.Time

// Options configure a player.
type Options struct {
	Mood     string
	Seed     uint32
	Resolver *mood.Resolver
	// Repo, if set, receives gallery saves.
	Repo   storage.Repository
	OutDir string
	FPS    int
	Theme  string
	// Terminal size in cells; zero uses 80x24 until the first resize.
	Width, Height int
}

// Model is the live terminal player.
type Model struct {
	opts     Options
	display  *session.PumpDisplay
	sess     *session.Session
	canvas   *Canvas
	stats    *metrics.Frames
	interval time.Duration
	theme    Theme
	st       styles
	width    int
	height   int
	paused   bool
	showHelp bool
	status   string
}

// NewModel builds the player and its session. The session starts in Init.
func NewModel(opts Options) Model {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = defaultCols, defaultRows
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}

	m := Model{
		opts:     opts,
		display:  session.NewPumpDisplay(),
		canvas:   NewCanvas(0, 0),
		stats:    metrics.Default(frameHistory, opts.FPS),
		interval: time.Second / time.Duration(opts.FPS),
		theme:    GetTheme(opts.Theme),
	}
	m.st = newStyles(m.theme)
	m.width, m.height = opts.Width, opts.Height
	cols, rows := canvasSize(m.width, m.height)
	m.canvas.Resize(cols, rows)

	canvas, stats := m.canvas, m.stats
	m.sess = session.New(m.display, session.Options{
		Mood:     opts.Mood,
		Seed:     opts.Seed,
		Viewport: viewportFor(cols, rows),
		Resolver: opts.Resolver,
		OnFrame: func(f session.Frame) {
			canvas.Draw(f.Image)
			stats.Tick(time.Now())
		},
	})
	return m
}

func canvasSize(width, height int) (cols, rows int) {
	return max(width-panelWidth-1, minCanvasCols), max(height-1, minCanvasRows)
}

func viewportFor(cols, rows int) scene.Viewport {
	return scene.Viewport{Width: cols * pixelScale, Height: rows * 2 * pixelScale}
}

// Session exposes the running session.
func (m Model) Session() *session.Session { return m.sess }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	m.sess.Start()
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sess.Stop()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused {
				m.stats.Reset()
			}
		case "n":
			sc := m.sess.Rebuild(m.sess.Scene().Mood, seed.Random())
			m.status = fmt.Sprintf("seed %d", sc.Seed)
		case "s":
			m.status = m.savePNG()
		case "g":
			m.status = m.saveGallery()
		case "t":
			m.theme = NextTheme(m.theme)
			m.st = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if !m.paused {
			m.display.Pump(time.Time(msg))
		}
		return m, m.tick()
	}
	return m, nil
}

// resize keeps element positions; the viewport grows or shrinks around them.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols, rows := canvasSize(w, h)
	if cols == m.canvas.Width && rows == m.canvas.Height {
		return
	}
	m.canvas.Resize(cols, rows)
	m.sess.Resize(viewportFor(cols, rows))
}

func (m Model) savePNG() string {
	sc := m.sess.Scene()
	if err := os.MkdirAll(m.opts.OutDir, 0755); err != nil {
		return "save failed: " + err.Error()
	}
	path := filepath.Join(m.opts.OutDir, export.FileName(sc.Mood, sc.Seed, "png"))
	f, err := os.Create(path)
	if err != nil {
		return "save failed: " + err.Error()
	}
	if err := m.sess.WritePNG(f); err != nil {
		f.Close()
		os.Remove(path)
		return "save failed: " + err.Error()
	}
	if err := f.Close(); err != nil {
		return "save failed: " + err.Error()
	}
	return "saved " + path
}

func (m Model) saveGallery() string {
	if m.opts.Repo == nil {
		return "no gallery configured"
	}
	var buf bytes.Buffer
	if err := m.sess.WritePNG(&buf); err != nil {
		return "gallery: " + err.Error()
	}
	_, elapsed, _ := m.sess.Snapshot()
	id, err := m.opts.Repo.Save(context.Background(), storage.NewRender(m.sess.Scene(), elapsed), buf.Bytes())
	if err != nil {
		return "gallery: " + err.Error()
	}
	return "gallery " + id
}

func (m Model) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), " ", m.panel())
}

func (m Model) panel() string {
	sc := m.sess.Scene()
	spec := sc.Spec
	var s strings.Builder

	title := "MOODCANVAS"
	if n := len(spec.Palette); n > 0 {
		title = GradientText(title, spec.Palette[0], spec.Palette[n-1])
	}
	s.WriteString(m.st.title.Render(title) + "\n\n")

	if m.paused {
		s.WriteString(m.st.paused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(m.st.running.Render("PLAYING") + "\n\n")
	}

	preset := spec.Name
	if spec.Generated {
		preset = "generated"
	}
	rows := [][2]string{
		{"mood", truncate(sc.Mood, panelWidth-14)},
		{"seed", fmt.Sprintf("%d", sc.Seed)},
		{"preset", preset},
		{"motion", spec.Motion.String()},
		{"elements", fmt.Sprintf("%d", sc.Count())},
		{"viewport", fmt.Sprintf("%dx%d", sc.Viewport.Width, sc.Viewport.Height)},
		{"time", fmt.Sprintf("%.1fs", m.sess.Elapsed())},
		{"frames", fmt.Sprintf("%d", m.sess.Frames())},
		{"fps", fmt.Sprintf("%.0f", m.stats.FPS())},
		{"smooth", fmt.Sprintf("%.0f%%", m.stats.Values()["smoothness"]*100)},
	}
	for _, r := range rows {
		s.WriteString(m.st.label.Render(r[0]) + m.st.value.Render(r[1]) + "\n")
	}

	s.WriteString("\n" + Swatch(spec.Palette) + "\n")
	s.WriteString(m.st.hint.Render(SparklineChart(m.stats.Intervals(), sparkWidth)) + "\n")

	if m.status != "" {
		s.WriteString("\n" + m.st.value.Render(truncate(m.status, panelWidth-4)) + "\n")
	}
	if m.showHelp {
		s.WriteString("\n" + m.st.hint.Render(strings.Join([]string{
			"space  pause / resume",
			"n      new seed",
			"s      save png",
			"g      save to gallery",
			"t      theme",
			"q      quit",
		}, "\n")))
	} else {
		s.WriteString("\n" + m.st.hint.Render("? help  q quit"))
	}
	return m.st.panel.Render(s.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 2 {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run plays opts in the terminal until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
