package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/perlinflow/config"
	"github.com/pthm-cable/perlinflow/game"
	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
	"github.com/pthm-cable/perlinflow/telemetry"
	"github.com/pthm-cable/perlinflow/tui"
	"github.com/pthm-cable/perlinflow/ui"
)

var (
	configPath string
	seed       int64
	outputDir  string
	locator    string
	stickMode  string

	// render and bench
	width  float64
	height float64
	dpr    float64
	frames int
	outDir string

	// term
	logFile string

	// bench
	ticks int
)

func init() {
	// raylib calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "perlinflow",
		Short: "perlin noise particle field with flow sticks",
		RunE:  runWindow,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "RNG seed for particles and noise (0 = config / time-based)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for CSV telemetry and a config snapshot")
	rootCmd.PersistentFlags().StringVar(&locator, "locator", "", "nearest-particle locator: brute or kdtree")
	rootCmd.PersistentFlags().StringVar(&stickMode, "sticks", "", "stick sizing: interpolated or fixed")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames to PNG files",
		RunE:  runRender,
	}
	renderCmd.Flags().Float64Var(&width, "width", 1024, "viewport width in css px")
	renderCmd.Flags().Float64Var(&height, "height", 768, "viewport height in css px")
	renderCmd.Flags().Float64Var(&dpr, "dpr", 1, "device pixel ratio")
	renderCmd.Flags().IntVar(&frames, "frames", 60, "number of frames")
	renderCmd.Flags().StringVar(&outDir, "out", "frames", "output directory")

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "run in the terminal with braille graphics",
		RunE:  runTerm,
	}
	termCmd.Flags().StringVar(&logFile, "log-file", "perlinflow.log", "log destination while the terminal is in use")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time ticks offscreen and plot the durations",
		RunE:  runBench,
	}
	benchCmd.Flags().Float64Var(&width, "width", 1920, "viewport width in css px")
	benchCmd.Flags().Float64Var(&height, "height", 1080, "viewport height in css px")
	benchCmd.Flags().IntVar(&ticks, "ticks", 300, "number of ticks")

	rootCmd.AddCommand(renderCmd, termCmd, benchCmd)

	// JSON to stdout for structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// loadConfig initialises the global config and applies flag overrides.
func loadConfig() (*config.Config, error) {
	if err := config.Init(configPath); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := config.Cfg()
	if seed != 0 {
		cfg.Simulation.Seed = seed
		cfg.Noise.Seed = seed
	}
	if outputDir != "" {
		cfg.Telemetry.OutputDir = outputDir
	}
	if locator != "" {
		cfg.Flow.Locator = locator
	}
	if stickMode != "" {
		cfg.Flow.StickMode = stickMode
	}
	// re-validate after overrides
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newGame builds a game for vp with telemetry output wired in.
func newGame(cfg *config.Config, vp systems.Viewport) (*game.Game, *telemetry.OutputManager, error) {
	opts, err := game.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	om, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return nil, nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, nil, err
	}
	opts.Output = om

	g, err := game.New(opts, vp)
	if err != nil {
		om.Close()
		return nil, nil, err
	}

	slog.Info("starting",
		"viewport", fmt.Sprintf("%.0fx%.0f@%.2g", vp.Width, vp.Height, vp.DPR),
		"particles", cfg.Simulation.ParticleCount,
		"noise", cfg.Noise.Kind,
		"locator", cfg.Flow.Locator,
		"sticks", cfg.Flow.StickMode,
		"output", om.Dir(),
	)
	return g, om, nil
}

func colorsFrom(cfg *config.Config) renderer.Colors {
	return renderer.Colors{
		Background: cfg.Derived.Background,
		Particle:   cfg.Derived.Particle,
		Stick:      cfg.Derived.Stick,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ui.OpenWindow(ui.WindowOptions{
		Width:     cfg.Screen.Width,
		Height:    cfg.Screen.Height,
		Title:     cfg.Screen.Title,
		TargetFPS: cfg.Screen.TargetFPS,
		Resizable: cfg.Screen.Resizable,
		HighDPI:   cfg.Screen.HighDPI,
	})
	defer rl.CloseWindow()

	g, om, err := newGame(cfg, ui.ScreenViewport())
	if err != nil {
		return err
	}
	defer om.Close()
	defer g.Close()

	loop := game.NewLoop(g, cfg.Derived.TickInterval)
	resize := game.ResizeDebouncer(g, cfg.Derived.Debounce)
	defer resize.Stop()

	ctx, cancel := signalContext()
	defer cancel()

	d := ui.NewWindowDisplay(g, loop, resize, colorsFrom(cfg), cfg.Screen.Title)
	defer d.Close()

	return loop.Run(ctx, d)
}

func runRender(cmd *cobra.Command, args []string) error {
	if frames < 1 {
		return fmt.Errorf("--frames must be at least 1, got %d", frames)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create frame directory: %w", err)
	}

	vp := systems.Viewport{Width: width, Height: height, DPR: dpr}
	g, om, err := newGame(cfg, vp)
	if err != nil {
		return err
	}
	defer om.Close()
	defer g.Close()

	d, err := game.NewFrameDisplay(vp, frames)
	if err != nil {
		return err
	}
	d.ImageSurface().Dir = outDir
	d.ImageSurface().Pattern = "frame_%04d.png"

	ctx, cancel := signalContext()
	defer cancel()

	// offscreen frames need no pacing
	if err := game.NewLoop(g, 0).Run(ctx, d); err != nil {
		return err
	}
	slog.Info("frames written", "count", d.Frames(), "dir", outDir)
	return nil
}

func runTerm(cmd *cobra.Command, args []string) error {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	// keep the terminal clean while bubbletea owns it
	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// bubbletea reports the real size on start; this is replaced after the debounce
	const cols, rows = 80, 22
	g, om, err := newGame(cfg, tui.ViewportFor(cols, rows))
	if err != nil {
		return err
	}
	defer om.Close()
	defer g.Close()

	resize := game.ResizeDebouncer(g, cfg.Derived.Debounce)
	defer resize.Stop()

	d := tui.NewDisplay(g, resize, colorsFrom(cfg), cols, rows, tea.WithAltScreen())
	d.Start()

	ctx, cancel := signalContext()
	defer cancel()

	if err := game.NewLoop(g, cfg.Derived.TickInterval).Run(ctx, d); err != nil {
		return err
	}
	return d.Wait()
}

func runBench(cmd *cobra.Command, args []string) error {
	if ticks < 1 {
		return fmt.Errorf("--ticks must be at least 1, got %d", ticks)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// keep every tick in the perf window
	cfg.Telemetry.PerfWindow = ticks

	vp := systems.Viewport{Width: width, Height: height, DPR: 1}
	g, om, err := newGame(cfg, vp)
	if err != nil {
		return err
	}
	defer om.Close()
	defer g.Close()

	ctx, cancel := signalContext()
	defer cancel()

	d, err := game.NewFrameDisplay(vp, ticks)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := game.NewLoop(g, 0).Run(ctx, d); err != nil {
		return err
	}

	fmt.Print(benchReport(g.Status(), g.PerfDurations(), time.Since(start)))
	return nil
}
