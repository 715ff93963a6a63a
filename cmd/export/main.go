package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"rio-visualizer/internal/batch"
	"rio-visualizer/internal/config"
	"rio-visualizer/internal/event"
	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/physics"
	"rio-visualizer/internal/raster"
	"rio-visualizer/internal/render"
	"rio-visualizer/internal/session"
	"rio-visualizer/internal/timeutil"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.yaml file (default: built-in)")
	archive := flag.String("archive", "", "SQLite archive to read instead of a session file")
	sessionID := flag.String("session", "", "Archive session id (default: latest)")
	list := flag.Bool("list", false, "List archive sessions and exit")
	testN := flag.Int("test", 0, "Export only the first N events")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: frames)")
	format := flag.String("format", "", "Image format: png, webp or tga (default: png)")

	flag.Parse()

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
		Workers:   *workers,
		Archive:   *archive,
	})

	clock := timeutil.RealClock{}
	var (
		snaps []*fields.Snapshot
		src   string
		err   error
	)
	switch {
	case cfg.ArchivePath != "":
		snaps, src, err = fromArchive(cfg.ArchivePath, *sessionID, *list)
	case flag.NArg() == 1:
		src = flag.Arg(0)
		snaps, err = session.Load(src)
	default:
		fmt.Fprintln(os.Stderr, "Usage: export [flags] <session.json> | export -archive <db> [-session id]")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *list {
		return
	}

	b := &event.Builder{
		Calc:       physics.NewBallistic(),
		Roster:     physics.DefaultRoster(),
		Clock:      clock,
		Text:       render.TextOptionsFromConfig(&cfg),
		Starred:    cfg.Starred,
		Alternates: render.AlternatesFromConfig(&cfg),
	}
	events := session.Replay(b, snaps, nil)

	// Limit for testing
	if *testN > 0 && *testN < len(events) {
		events = events[:*testN]
	}
	if len(events) == 0 {
		fmt.Println("No events to export.")
		os.Exit(0)
	}

	var ttf []byte
	if cfg.FontPath != "" {
		if ttf, err = os.ReadFile(cfg.FontPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading font: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Session export → %s\n", cfg.Format)
	fmt.Printf("Source: %s\n", src)
	fmt.Printf("Events: %d, Workers: %d\n", len(events), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Workers:   cfg.Workers,
		NewRenderer: func() (*render.Renderer, error) {
			faces, err := raster.NewFaceCache(ttf)
			if err != nil {
				return nil, err
			}
			return render.New(&cfg, faces, clock), nil
		},
		Progress: os.Stdout,
	}

	results := batch.Run(batchCfg, events)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(events))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(len(errors), 20)] {
			fmt.Printf("  %d %s: %s\n", e.Index, e.Kind, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, events, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func fromArchive(path, id string, list bool) ([]*fields.Snapshot, string, error) {
	ctx := context.Background()
	a, err := session.ReadArchive(ctx, path)
	if err != nil {
		return nil, "", err
	}
	defer a.Close()

	sessions, err := a.Sessions(ctx)
	if err != nil {
		return nil, "", err
	}
	if list {
		for _, s := range sessions {
			fmt.Printf("%s  %s  %d snapshots\n", s.ID, s.StartedAt.Format(time.RFC3339), s.Count)
		}
		return nil, path, nil
	}

	var target uuid.UUID
	if id != "" {
		if target, err = uuid.Parse(id); err != nil {
			return nil, "", fmt.Errorf("bad session id: %w", err)
		}
	} else {
		for _, s := range sessions {
			if s.Count > 0 {
				target = s.ID
			}
		}
		if target == uuid.Nil {
			return nil, "", fmt.Errorf("archive %s holds no snapshots", path)
		}
	}
	snaps, err := a.Snapshots(ctx, target)
	return snaps, fmt.Sprintf("%s (session %s)", path, target), err
}
