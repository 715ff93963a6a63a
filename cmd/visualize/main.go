package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rio-visualizer/internal/app"
	"rio-visualizer/internal/config"
	"rio-visualizer/internal/detector"
	"rio-visualizer/internal/dolphin"
	"rio-visualizer/internal/event"
	"rio-visualizer/internal/history"
	"rio-visualizer/internal/memory"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/raster"
	"rio-visualizer/internal/render"
	"rio-visualizer/internal/session"
	"rio-visualizer/internal/timeutil"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.yaml file (default: built-in)")
	demo := flag.Bool("demo", false, "Drive a simulated game instead of attaching to Dolphin")
	outputDir := flag.String("output", "", "Directory for the live frame (default: frames)")
	format := flag.String("format", "", "Frame format: png, webp or tga (default: png)")
	fps := flag.Int("fps", 0, "Frames per second (default: 30)")
	archive := flag.String("archive", "", "Record event snapshots to this SQLite archive")
	saveDir := flag.String("save-dir", ".", "Directory for session files written by the save command")
	headless := flag.Bool("headless", false, "Do not write frames")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Format:    *format,
		FPS:       *fps,
		Archive:   *archive,
	})

	if err := run(&cfg, log, *demo, *headless, *saveDir); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, demo, headless bool, saveDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := timeutil.RealClock{}

	var proc memory.Process
	if demo {
		fake := memory.NewFake()
		proc = fake
		go func() {
			if err := app.RunDemo(ctx, fake, clock, 1500*time.Millisecond, 3*time.Second); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("demo stopped", "err", err)
			}
		}()
	} else {
		proc = dolphin.New()
	}

	acc := memory.NewAccessor(proc,
		memory.WithRetry(memory.RetryPolicy{Attempts: 3, Backoff: 20 * time.Millisecond}),
		memory.WithClock(clock),
		memory.WithLogger(log))
	hist := history.New(cfg.AllowForcedRehits)
	b := &event.Builder{
		Calc:       physics.NewBallistic(),
		Roster:     physics.DefaultRoster(),
		Clock:      clock,
		Text:       render.TextOptionsFromConfig(cfg),
		Log:        log,
		Starred:    cfg.Starred,
		Alternates: render.AlternatesFromConfig(cfg),
	}

	opts := []detector.Option{detector.WithLogger(log)}
	if cfg.ArchivePath != "" {
		a, err := session.OpenArchive(ctx, cfg.ArchivePath, clock)
		if err != nil {
			return err
		}
		defer a.Close()
		log.Info("recording session", "archive", cfg.ArchivePath, "session", a.Session())
		opts = append(opts, detector.WithRecorder(a))
	}

	var ttf []byte
	if cfg.FontPath != "" {
		var err error
		if ttf, err = os.ReadFile(cfg.FontPath); err != nil {
			return fmt.Errorf("load font: %w", err)
		}
	}
	faces, err := raster.NewFaceCache(ttf)
	if err != nil {
		return err
	}

	var pres app.Presenter = app.Discard{}
	if !headless {
		fp, err := app.NewFilePresenter(cfg.OutputDir, cfg.Format)
		if err != nil {
			return err
		}
		log.Info("writing frames", "path", fp.Path)
		pres = fp
	}

	state := &app.SessionState{
		Proc:      proc,
		History:   hist,
		Detector:  detector.New(acc, hist, b, opts...),
		Builder:   b,
		Renderer:  render.New(cfg, faces, clock),
		Presenter: pres,
		Clock:     clock,
		Log:       log,
		SaveDir:   saveDir,
		FPS:       cfg.FPS,
	}

	for _, path := range flag.Args() {
		snaps, err := session.Load(path)
		if err != nil {
			log.Warn("skipping session file", "err", err)
			continue
		}
		log.Info("loaded session", "path", path, "events", state.Replay(snaps))
	}

	cmds := make(chan app.Command)
	go func() {
		if err := app.ReadCommands(ctx, os.Stdin, cmds); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("stdin closed", "err", err)
		}
	}()

	log.Info("running", "fps", state.FPS, "demo", demo, "commands", "left right reset force save quit")
	return state.Run(ctx, cmds)
}
