package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/moodcanvas/internal/config"
	"github.com/san-kum/moodcanvas/internal/gui"
	"github.com/san-kum/moodcanvas/internal/mood"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

var (
	configFile  string
	dataDir     string
	storageKind string
	moodText    string
	seedValue   uint32
	viewport    string
	fps         int

	outFile    string
	at         float64
	frames     int
	gifFPS     int
	asJSON     bool
	element    int
	pulseTime  float64
	recordTime float64
	baseURL    string
	useGUI     bool
	theme      string
	port       string
	samples    int
)

// main registers the commands and opens the window player when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "moodcanvas",
		Short:        "generative mood visuals",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "gallery directory")
	pf.StringVar(&storageKind, "storage", config.StorageFile, "gallery backend (file|sqlite)")
	pf.StringVar(&moodText, "mood", config.DefaultMood, "mood text")
	pf.Uint32Var(&seedValue, "seed", 0, "seed (0 derives one from the mood)")
	pf.StringVarP(&viewport, "viewport", "v", config.DefaultViewport, "viewport preset or WIDTHxHEIGHT")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")

	playCmd := &cobra.Command{
		Use:   "play [mood...]",
		Short: "play in the terminal",
		RunE:  runPlay,
	}
	playCmd.Flags().StringVar(&theme, "theme", "midnight", "panel theme")

	guiCmd := &cobra.Command{
		Use:   "gui [mood...]",
		Short: "play in a window",
		RunE:  runGUI,
	}

	renderCmd := &cobra.Command{
		Use:   "render [mood...]",
		Short: "render a frame or clip to png, gif or svg",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (extension picks the format)")
	renderCmd.Flags().Float64Var(&at, "at", 0, "elapsed seconds")
	renderCmd.Flags().IntVar(&frames, "frames", 48, "gif frames")
	renderCmd.Flags().IntVar(&gifFPS, "gif-fps", 24, "gif frame rate")

	specCmd := &cobra.Command{
		Use:   "spec [mood...]",
		Short: "show the visual spec a mood resolves to",
		RunE:  runSpec,
	}
	specCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	moodsCmd := &cobra.Command{
		Use:   "moods",
		Short: "list preset moods",
		RunE:  runMoods,
	}

	sceneCmd := &cobra.Command{
		Use:   "scene [mood...]",
		Short: "show the generated elements",
		RunE:  runScene,
	}
	sceneCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	pulseCmd := &cobra.Command{
		Use:   "pulse [mood...]",
		Short: "plot one element's breathing and drift",
		RunE:  runPulse,
	}
	pulseCmd.Flags().IntVar(&element, "element", 0, "element index")
	pulseCmd.Flags().Float64Var(&pulseTime, "time", 10, "seconds to plot")

	shareCmd := &cobra.Command{
		Use:   "share [mood...]",
		Short: "print a share link",
		RunE:  runShare,
	}
	shareCmd.Flags().StringVar(&baseURL, "base", "", "base URL for the link")

	openCmd := &cobra.Command{
		Use:   "open [link]",
		Short: "play a share link",
		Args:  cobra.ExactArgs(1),
		RunE:  runOpen,
	}
	openCmd.Flags().BoolVar(&useGUI, "gui", false, "open in a window")

	saveCmd := &cobra.Command{
		Use:   "save [mood...]",
		Short: "render a frame into the gallery",
		RunE:  runSave,
	}
	saveCmd.Flags().Float64Var(&at, "at", 0, "elapsed seconds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list gallery renders",
		RunE:  runList,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "show a gallery render",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	showCmd.Flags().StringVarP(&outFile, "out", "o", "", "also write the frame to this file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&port, "port", config.DefaultPort, "listen port")

	benchCmd := &cobra.Command{
		Use:   "bench [mood...]",
		Short: "benchmark scene building and rendering",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&samples, "n", 20, "iterations per viewport")

	recordCmd := &cobra.Command{
		Use:   "record [mood...]",
		Short: "run a live session and save its last frame",
		RunE:  runRecord,
	}
	recordCmd.Flags().Float64Var(&recordTime, "time", 3, "seconds to run")
	recordCmd.Flags().StringVarP(&outFile, "out", "o", "", "output png")

	rootCmd.AddCommand(playCmd, guiCmd, renderCmd, specCmd, moodsCmd, sceneCmd, pulseCmd,
		shareCmd, openCmd, saveCmd, listCmd, showCmd, serveCmd, benchCmd, recordCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file and environment, then applies the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("mood") {
		cfg.Mood = moodText
	}
	if flags.Changed("seed") {
		cfg.Seed = seedValue
	}
	if flags.Changed("viewport") {
		vp, err := config.ParseViewport(viewport)
		if err != nil {
			return nil, err
		}
		cfg.Viewport = vp
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("storage") {
		cfg.Storage = storageKind
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// moodArg joins positional words into the mood text, falling back to the
// configured mood.
func moodArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	return cfg.Mood
}

func setup(cmd *cobra.Command, args []string) (*config.Config, *mood.Resolver, string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, "", err
	}
	r, err := cfg.Resolver()
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, r, moodArg(cfg, args), nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, r, text, err := setup(cmd, args)
	if err != nil {
		return err
	}
	gui.Run(gui.Options{
		Mood:        text,
		Seed:        cfg.Seed,
		Resolver:    r,
		Viewport:    cfg.Viewport,
		FPS:         cfg.FPS,
		OutDir:      cfg.DataDir,
		Interactive: len(args) == 0 && !cmd.Flags().Changed("mood"),
	})
	return nil
}
