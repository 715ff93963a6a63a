package batch

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"rio-visualizer/internal/event"
	"rio-visualizer/internal/raster"
	"rio-visualizer/internal/render"
)

// Config holds all shared resources for an export run.
type Config struct {
	OutputDir string
	Format    string
	Workers   int

	// NewRenderer is called once per worker. Font faces are not safe for
	// concurrent use, so workers never share a renderer.
	NewRenderer func() (*render.Renderer, error)

	// Progress receives a status line every two seconds; nil disables it.
	Progress io.Writer
}

// Result holds the outcome of exporting one event.
type Result struct {
	Index   int
	ID      string
	Kind    string
	Image   string
	Success bool
	Error   string
}

// ImageName is the file name used for the i-th event.
func ImageName(i int, e *event.Event, format string) string {
	return fmt.Sprintf("%03d-%s%s", i, e.Kind, raster.Ext(format))
}

// Run renders every event to its own image file using a worker pool.
// Events are drawn as historical frames: callers should pass invalidated
// events so the fade does not apply.
func Run(cfg Config, events []*event.Event) []Result {
	total := len(events)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f events/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	workers := max(cfg.Workers, 1)
	itemChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := cfg.NewRenderer()
			for idx := range itemChan {
				if err != nil {
					results[idx] = failed(idx, events[idx], fmt.Sprintf("renderer: %v", err))
				} else {
					results[idx] = processEvent(cfg, r, idx, events[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range events {
		itemChan <- i
	}
	close(itemChan)

	wg.Wait()
	close(done)

	return results
}

func failed(i int, e *event.Event, msg string) Result {
	return Result{Index: i, ID: e.ID.String(), Kind: e.Kind.String(), Error: msg}
}

func processEvent(cfg Config, r *render.Renderer, i int, e *event.Event) Result {
	img, err := r.Render(render.Frame{Event: e, Hooked: true})
	if err != nil {
		return failed(i, e, err.Error())
	}

	name := ImageName(i, e, cfg.Format)
	if err := writeImage(filepath.Join(cfg.OutputDir, name), img, cfg.Format); err != nil {
		return failed(i, e, err.Error())
	}

	res := failed(i, e, "")
	res.Image = name
	res.Success = true
	return res
}

func writeImage(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := raster.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
