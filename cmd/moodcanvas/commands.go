package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gin-gonic/gin"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/moodcanvas/internal/config"
	"github.com/san-kum/moodcanvas/internal/export"
	"github.com/san-kum/moodcanvas/internal/gui"
	"github.com/san-kum/moodcanvas/internal/logger"
	"github.com/san-kum/moodcanvas/internal/metrics"
	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/render"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/server"
	"github.com/san-kum/moodcanvas/internal/session"
	"github.com/san-kum/moodcanvas/internal/share"
	"github.com/san-kum/moodcanvas/internal/storage"
	"github.com/san-kum/moodcanvas/internal/storage/sqlite"
	"github.com/san-kum/moodcanvas/internal/viz"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// openRepo opens the configured gallery backend. The returned func releases it.
func openRepo(cfg *config.Config) (storage.Repository, func() error, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, err
	}
	switch cfg.Storage {
	case config.StorageSQLite:
		a, err := sqlite.NewAdapter(filepath.Join(cfg.DataDir, "gallery.db"))
		if err != nil {
			return nil, nil, err
		}
		return a, a.Close, nil
	default:
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return nil, nil, err
		}
		return st, func() error { return nil }, nil
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	opts := viz.Options{
		Mood:     text,
		Seed:     cfg.Seed,
		Resolver: r,
		Repo:     repo,
		OutDir:   cfg.DataDir,
		FPS:      cfg.FPS,
		Theme:    theme,
	}
	if len(args) == 0 && !cmd.Flags().Changed("mood") {
		return viz.RunPicker(opts)
	}
	return viz.Run(opts)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	sc := scene.NewWith(r, text, cfg.Seed, cfg.Viewport)

	path := outFile
	if path == "" {
		path = export.FileName(sc.Mood, sc.Seed, "png")
	}
	opts := export.GIFOptions{Frames: frames, FPS: gifFPS, Start: at}

	start := time.Now()
	if err := export.WriteFile(path, sc, at, opts); err != nil {
		return err
	}
	fmt.Printf("rendered %s (seed %d, %d elements) in %v\n", path, sc.Seed, sc.Count(), time.Since(start).Round(time.Millisecond))
	return nil
}

func runSpec(cmd *cobra.Command, args []string) error {
	_, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	spec := r.Resolve(text)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	}

	kind := "preset " + spec.Name
	if spec.Generated {
		kind = "generated"
	}
	shapes := make([]string, len(spec.Shapes))
	for i, s := range spec.Shapes {
		shapes[i] = s.String()
	}
	fmt.Println(titleStyle.Render(text), dimStyle.Render(kind))
	fmt.Printf("  palette     %s\n", viz.Swatch(spec.Palette))
	fmt.Printf("  background  %s %s\n", viz.Swatch([]mood.Color{spec.Background}), spec.Background.Hex())
	fmt.Printf("  shapes      %s\n", strings.Join(shapes, ", "))
	fmt.Printf("  motion      %s\n", spec.Motion)
	fmt.Printf("  speed       %.2f\n", spec.Speed)
	return nil
}

func runMoods(cmd *cobra.Command, args []string) error {
	_, r, _, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MOOD\tPALETTE\tMOTION\tSHAPES")
	for _, name := range r.Names() {
		spec, _ := r.Lookup(name)
		shapes := make([]string, len(spec.Shapes))
		for i, s := range spec.Shapes {
			shapes[i] = s.String()
		}
		label := viz.GradientText(name, spec.Palette[0], spec.Palette[len(spec.Palette)-1])
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", label, viz.Swatch(spec.Palette), spec.Motion, strings.Join(shapes, ","))
	}
	return w.Flush()
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	sc := scene.NewWith(r, text, cfg.Seed, cfg.Viewport)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sc)
	}

	fmt.Printf("mood: %s\n", sc.Mood)
	fmt.Printf("seed: %d\n", sc.Seed)
	fmt.Printf("viewport: %dx%d\n", sc.Viewport.Width, sc.Viewport.Height)
	fmt.Printf("elements: %d\n\n", sc.Count())

	counts := sc.ShapeCounts()
	kinds := make([]mood.ShapeKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Printf("  %-10s %d\n", k, counts[k])
	}
	return nil
}

func runPulse(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	sc := scene.NewWith(r, text, cfg.Seed, cfg.Viewport)
	if element < 0 || element >= sc.Count() {
		return fmt.Errorf("element %d out of range (scene has %d)", element, sc.Count())
	}
	if pulseTime <= 0 {
		return errors.New("time must be positive")
	}
	el := sc.Elements[element]

	const width = 80
	phase := make([]float64, width)
	alpha := make([]float64, width)
	dx := make([]float64, width)
	dy := make([]float64, width)
	for i := range phase {
		t := pulseTime * float64(i) / float64(width-1)
		phase[i] = render.Phase(el, t)
		alpha[i] = render.Evaluate(el, sc.Spec.Motion, sc.Viewport, t).Alpha
		dx[i], dy[i] = render.Offset(el, sc.Spec.Motion, t)
	}

	fmt.Printf("element %d of %s (seed %d): %s, size %.1f, drift %.1f\n\n", element, sc.Mood, sc.Seed, el.Shape, el.Size, el.Drift)
	fmt.Println(asciigraph.PlotMany([][]float64{phase, alpha},
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("phase and alpha over %.0fs", pulseTime)),
	))
	fmt.Println()
	fmt.Println(asciigraph.PlotMany([][]float64{dx, dy},
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("offset x/y (%s motion)", sc.Spec.Motion)),
	))
	return nil
}

func runShare(cmd *cobra.Command, args []string) error {
	cfg, _, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	l := share.New(text)
	if cfg.Seed != 0 {
		l.Seed = cfg.Seed
	}
	if baseURL == "" {
		fmt.Println(l.String())
		return nil
	}
	u, err := l.URL(baseURL)
	if err != nil {
		return err
	}
	fmt.Println(u)
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, r, _, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	l := share.Parse(args[0])
	fmt.Printf("opening %s (seed %d)\n", l.Mood, l.Seed)

	if useGUI {
		gui.Run(gui.Options{
			Mood:     l.Mood,
			Seed:     l.Seed,
			Resolver: r,
			Viewport: cfg.Viewport,
			FPS:      cfg.FPS,
			OutDir:   cfg.DataDir,
		})
		return nil
	}
	return viz.Run(viz.Options{
		Mood:     l.Mood,
		Seed:     l.Seed,
		Resolver: r,
		OutDir:   cfg.DataDir,
		FPS:      cfg.FPS,
	})
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	sc := scene.NewWith(r, text, cfg.Seed, cfg.Viewport)
	saved, err := storage.Capture(context.Background(), repo, sc, at)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s\n", saved.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	renders, err := repo.List(context.Background())
	if err != nil {
		return err
	}
	if len(renders) == 0 {
		fmt.Println("no renders found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMOOD\tSEED\tTIME\tAT\tSIZE\tELEMENTS")
	for _, r := range renders {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.2fs\t%dx%d\t%d\n",
			r.ID,
			r.Mood,
			r.Seed,
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Elapsed,
			r.Viewport.Width, r.Viewport.Height,
			r.Count,
		)
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	ctx := context.Background()
	r, err := repo.Load(ctx, args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	fmt.Println(dimStyle.Render(share.Link{Mood: r.Mood, Seed: r.Seed}.String()))

	if outFile == "" {
		return nil
	}
	data, err := repo.Image(ctx, r.ID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, r, _, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}

	flush, err := logger.Init(cfg.Server.SentryDSN, cfg.Server.Environment, releaseVersion)
	if err != nil {
		logger.Warn("Sentry disabled", logger.Fields{"error": err.Error()})
		cfg.Server.SentryDSN = ""
	}
	defer flush()

	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.New(cfg, r, repo).Router()

	logger.Info("Starting server", logger.Fields{
		"port":        cfg.Server.Port,
		"environment": cfg.Server.Environment,
		"storage":     cfg.Storage,
	})
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("Server stopped", err, nil)
		return err
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	if samples <= 0 {
		return errors.New("n must be positive")
	}

	fmt.Printf("benchmarking %q\n\n", text)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VIEWPORT\tELEMENTS\tBUILD\tFRAME\tFRAMES/SEC")

	for _, name := range []string{"thumb", "reference", "hd", "fullhd"} {
		vp := config.Viewports[name]

		start := time.Now()
		var sc *scene.Scene
		for i := 0; i < samples; i++ {
			sc = scene.NewWith(r, text, cfg.Seed, vp)
		}
		build := time.Since(start) / time.Duration(samples)

		pool := render.NewSurfacePool()
		start = time.Now()
		for i := 0; i < samples; i++ {
			dc := pool.Get(vp)
			render.Frame(dc, sc, float64(i)/float64(cfg.FPS))
			pool.Put(dc)
		}
		frame := time.Since(start) / time.Duration(samples)

		fmt.Fprintf(w, "%s %dx%d\t%d\t%v\t%v\t%.1f\n",
			name, vp.Width, vp.Height, sc.Count(), build, frame, 1/frame.Seconds())
	}
	return w.Flush()
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(recordTime*float64(time.Second)))
	defer cancel()

	var mu sync.Mutex
	stats := metrics.Default(cfg.FPS*4, cfg.FPS)
	sess := session.New(session.NewTickerDisplay(cfg.FPS), session.Options{
		Mood:     text,
		Seed:     cfg.Seed,
		Viewport: cfg.Viewport,
		Resolver: r,
		OnFrame: func(session.Frame) {
			mu.Lock()
			stats.Tick(time.Now())
			mu.Unlock()
		},
	})
	sess.Start()
	<-ctx.Done()
	sess.Stop()

	sc := sess.Scene()
	path := outFile
	if path == "" {
		path = export.FileName(sc.Mood, sc.Seed, "png")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := sess.WritePNG(f); err != nil {
		return err
	}
	mu.Lock()
	v := stats.Values()
	mu.Unlock()
	fmt.Printf("recorded %d frames over %.1fs, last frame in %s\n", sess.Frames(), sess.Elapsed(), path)
	fmt.Printf("  %.1f fps  %.2fms jitter  %.0f%% on time\n", v["fps"], v["jitter_ms"], v["smoothness"]*100)
	return nil
}
