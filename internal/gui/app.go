package gui

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/moodcanvas/internal/export"
	"github.com/san-kum/moodcanvas/internal/metrics"
	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/seed"
	"github.com/san-kum/moodcanvas/internal/session"
)

var (
	ColBg      = rl.NewColor(11, 11, 12, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(180, 180, 180, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColShade   = rl.NewColor(0, 0, 0, 120)
	ColAccent  = rl.NewColor(72, 191, 227, 255)
)

const telemetryWindow = 240

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

// Options configure the window player.
type Options struct {
	Mood     string
	Seed     uint32
	Resolver *mood.Resolver
	Viewport scene.Viewport
	FPS      int
	OutDir   string
	// Interactive opens the mood menu first.
	Interactive bool
}

// App is the window player. It is the session's display: each loop
// iteration fires the pending frame request.
type App struct {
	*session.PumpDisplay

	opts    Options
	sess    *session.Session
	menu    *Menu
	InMenu  bool
	Paused  bool
	ShowHUD bool
	Status  string
	Font    rl.Font
	Stats   *metrics.Frames

	tex    rl.Texture2D
	texW   int
	texH   int
	pixels []color.RGBA
	quit   bool
}

func initWindow(vp scene.Viewport, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(vp.Width), int32(vp.Height), "moodcanvas")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(opts Options) *App {
	if opts.Viewport.Empty() {
		opts.Viewport = scene.Viewport{Width: 800, Height: 600}
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	r := opts.Resolver
	if r == nil {
		r = mood.Default
	}

	a := &App{
		PumpDisplay: session.NewPumpDisplay(),
		opts:        opts,
		menu:        NewMenu(r.Names()),
		InMenu:      opts.Interactive,
		ShowHUD:     true,
		Stats:       metrics.Default(telemetryWindow, opts.FPS),
	}
	a.sess = session.New(a, session.Options{
		Mood:     opts.Mood,
		Seed:     opts.Seed,
		Viewport: opts.Viewport,
		Resolver: r,
		OnFrame:  a.upload,
	})
	return a
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) {
	app := NewApp(opts)
	initWindow(app.opts.Viewport, app.opts.FPS)
	defer rl.CloseWindow()
	app.Font = loadFont()
	if !app.InMenu {
		app.sess.Start()
	}
	app.RunLoop()
}

func (a *App) RunLoop() {
	defer a.teardown()
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) teardown() {
	a.sess.Stop()
	if a.texW > 0 {
		rl.UnloadTexture(a.tex)
		a.texW, a.texH = 0, 0
	}
}

// upload copies a painted frame into the window texture. It runs inside
// the frame callback, on the loop goroutine.
func (a *App) upload(f session.Frame) {
	a.Stats.Tick(time.Now())
	im := f.Image
	if im == nil {
		return
	}
	w, h := im.Rect.Dx(), im.Rect.Dy()
	if w != a.texW || h != a.texH {
		if a.texW > 0 {
			rl.UnloadTexture(a.tex)
		}
		img := rl.NewImageFromImage(im)
		a.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		a.texW, a.texH = w, h
		a.pixels = make([]color.RGBA, w*h)
		return
	}
	toRGBA(a.pixels, im)
	rl.UpdateTexture(a.tex, a.pixels)
}

func toRGBA(dst []color.RGBA, im *image.RGBA) {
	w, h := im.Rect.Dx(), im.Rect.Dy()
	for y := 0; y < h; y++ {
		row := im.Pix[y*im.Stride : y*im.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			dst[y*w+x] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.sess.Resize(scene.Viewport{Width: int(rl.GetScreenWidth()), Height: int(rl.GetScreenHeight())})
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEscape), rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
		return
	case rl.IsKeyPressed(rl.KeySpace):
		a.Paused = !a.Paused
		if !a.Paused {
			a.Stats.Reset()
		}
	case rl.IsKeyPressed(rl.KeyN):
		sc := a.sess.Rebuild(a.sess.Scene().Mood, seed.Random())
		a.Status = fmt.Sprintf("seed %d", sc.Seed)
	case rl.IsKeyPressed(rl.KeyS):
		a.Status = a.save()
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyM):
		a.sess.Stop()
		a.Stats.Reset()
		a.InMenu = true
		return
	}

	if !a.Paused {
		a.Pump(time.Now())
	}
}

func (a *App) updateMenu() {
	for c := rl.GetCharPressed(); c > 0; c = rl.GetCharPressed() {
		a.menu.Type(c)
	}
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		if !a.menu.Back() {
			a.quit = true
		}
	case rl.IsKeyPressed(rl.KeyUp):
		a.menu.Up()
	case rl.IsKeyPressed(rl.KeyDown):
		a.menu.Down()
	case rl.IsKeyPressed(rl.KeyBackspace):
		a.menu.Backspace()
	case rl.IsKeyPressed(rl.KeyEnter):
		if text, ok := a.menu.Choose(); ok {
			a.sess.Rebuild(text, a.opts.Seed)
			a.sess.Start()
			a.InMenu = false
		}
	}
}

func (a *App) save() string {
	sc := a.sess.Scene()
	if err := os.MkdirAll(a.opts.OutDir, 0755); err != nil {
		return "save failed: " + err.Error()
	}
	path := filepath.Join(a.opts.OutDir, export.FileName(sc.Mood, sc.Seed, "png"))
	f, err := os.Create(path)
	if err != nil {
		return "save failed: " + err.Error()
	}
	defer f.Close()
	if err := a.sess.WritePNG(f); err != nil {
		return "save failed: " + err.Error()
	}
	return "saved " + path
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		if a.texW > 0 {
			rl.DrawTexture(a.tex, 0, 0, rl.White)
		}
		if a.ShowHUD {
			a.DrawHUD()
		}
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, int32(w), 64, ColShade)

	lines := HUDLines(a.sess.Scene(), a.sess.Elapsed(), a.Paused)
	a.drawText("moodcanvas", 20, 14, 22, ColSelect)
	a.drawText(lines[0], 20, 40, 14, ColText)
	a.drawText(lines[1], w-260, 18, 14, ColText)

	v := a.Stats.Values()
	a.drawText(fmt.Sprintf("%.0f FPS  %.1fms jitter  %.0f%% smooth", a.Stats.FPS(), v["jitter_ms"], v["smoothness"]*100), 20, h-26, 14, ColTextDim)
	if a.Status != "" {
		a.drawText(a.Status, 20, h-110, 14, ColText)
	}
	a.DrawTelemetry(20, h-90, 300, 50)
	a.drawText("[SPACE] PAUSE  [N] NEW  [S] SAVE  [H] HUD  [M] MENU  [ESC] QUIT", w-560, h-26, 14, ColTextDim)
}

// DrawTelemetry plots recent frame intervals as a line strip.
func (a *App) DrawTelemetry(x, y, width, height int) {
	values := a.Stats.Intervals()
	points := TelemetryPoints(values, x, y, width, height)
	if points == nil {
		return
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("%.1fms", values[len(values)-1]), x+width+10, y+height-10, 14, ColText)
}

// TelemetryPoints scales values into the rectangle, min at the bottom edge.
// It returns nil for fewer than two values.
func TelemetryPoints(values []float64, x, y, width, height int) []rl.Vector2 {
	if len(values) < 2 {
		return nil
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(values))
	for i, val := range values {
		px := float32(x) + float32(i)/float32(len(values)-1)*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	return points
}

// HUDLines returns the scene summary and the clock line.
func HUDLines(sc *scene.Scene, elapsed float64, paused bool) [2]string {
	kind := sc.Spec.Name
	if sc.Spec.Generated {
		kind = "generated"
	}
	state := "PLAYING"
	if paused {
		state = "PAUSED"
	}
	return [2]string{
		fmt.Sprintf(":: %s  seed %d  %s  %s  %d elements", sc.Mood, sc.Seed, kind, sc.Spec.Motion, sc.Count()),
		fmt.Sprintf("%s  %6.1fs", state, elapsed),
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("moodcanvas", 50, 50, 40, ColSelect)
	a.drawText("how do you feel?", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.menu.Items() {
		if i == a.menu.Cursor() {
			a.drawText("> "+name, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+name, 50, y, 20, ColText)
		}
		y += 28
	}
	if a.menu.Typing() {
		a.drawText("mood: "+a.menu.Input()+"_", 50, y+20, 20, ColSelect)
	}

	h := int(rl.GetScreenHeight())
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  ESC: BACK", 50, h-40, 14, ColTextDim)
}
