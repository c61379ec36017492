package batch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"scanline-renderer/internal/output"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/render"
	"scanline-renderer/internal/scene"
)

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Format    output.Format
	Render    render.Options
	Workers   int
	// Progress receives a status line every two seconds. Nil disables it.
	Progress io.Writer
}

// Result holds the outcome of processing one scene.
type Result struct {
	Scene   string // relative to InputDir
	Image   string // relative to OutputDir
	Info    scene.Info
	Elapsed time.Duration
	Success bool
	Error   string
}

// Collect returns the scene files under dir, relative to it, sorted.
func Collect(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !scene.IsScript(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run renders all scenes using a worker pool. Each scene renders on a single
// goroutine; parallelism comes from rendering several scenes at once.
// Cancelling ctx stops handing out scenes; those not started are reported
// as failed.
func Run(ctx context.Context, cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	opts := cfg.Render
	opts.Workers = 1

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
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f scenes/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(ctx, cfg, opts, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
send:
	for i := range files {
		select {
		case sceneChan <- i:
			sent++
		case <-ctx.Done():
			break send
		}
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{Scene: files[i], Error: ctx.Err().Error()}
	}

	raster.Logger().Info("batch: done",
		"scenes", total,
		"failed", len(Failed(results)),
		"elapsed", time.Since(start))
	return results
}

// OutputPath maps a scene file to its image path under the output dir.
func OutputPath(rel string, f output.Format) string {
	return output.SwapExt(rel, f)
}

func processScene(ctx context.Context, cfg Config, opts render.Options, rel string) Result {
	res := Result{Scene: rel, Image: OutputPath(rel, cfg.Format)}
	start := time.Now()

	s, err := scene.Load(ctx, filepath.Join(cfg.InputDir, rel))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Info = s.Info()

	img, err := render.Image(ctx, s, opts)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := output.WriteFile(filepath.Join(cfg.OutputDir, res.Image), img); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Elapsed = time.Since(start)
	res.Success = true
	raster.Logger().Debug("batch: scene rendered", "scene", rel, "elapsed", res.Elapsed)
	return res
}

// Failed returns the unsuccessful results.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
