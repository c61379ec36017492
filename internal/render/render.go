// Package render turns a scene into an image by driving one scanline
// renderer per worker over interleaved rows.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
)

// MaxSupersample bounds the supersampling factor.
const MaxSupersample = 8

// ErrTooLarge reports a supersampled size beyond scene.MaxDim.
var ErrTooLarge = errors.New("render: supersampled image too large")

// Options controls how a scene is rendered.
type Options struct {
	// Supersample renders at k times the scene size and filters down.
	// Zero means 1.
	Supersample int
	// Workers is the number of rows rendered concurrently. Zero means
	// runtime.NumCPU().
	Workers int
	// Blend is the color space for interpolated shading.
	Blend scene.Blend
	// Background fills pixels no triangle covers.
	Background colorful.Color
	// Transparent makes uncovered pixels fully transparent.
	Transparent bool
}

func (o Options) resolve() (Options, error) {
	if o.Supersample == 0 {
		o.Supersample = 1
	}
	if o.Supersample < 1 || o.Supersample > MaxSupersample {
		return o, fmt.Errorf("render: supersample %d out of range [1,%d]", o.Supersample, MaxSupersample)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	blend, err := scene.ParseBlend(string(o.Blend))
	if err != nil {
		return o, err
	}
	o.Blend = blend
	return o, nil
}

// Image renders s. Rows are split across workers; each worker owns its own
// renderer, scanline buffer and depth row, so the output does not depend on
// the worker count. A cancelled ctx stops rendering between rows.
func Image(ctx context.Context, s *scene.Scene, opts Options) (*image.NRGBA, error) {
	opts, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if k := opts.Supersample; s.Width*k > scene.MaxDim || s.Height*k > scene.MaxDim {
		return nil, fmt.Errorf("%w: %dx%d at %dx exceeds %d", ErrTooLarge, s.Width, s.Height, k, scene.MaxDim)
	}

	start := time.Now()
	src := s
	if opts.Supersample > 1 {
		src = s.Scaled(opts.Supersample)
	}

	img := image.NewNRGBA(image.Rect(0, 0, src.Width, src.Height))
	workers := min(opts.Workers, src.Height)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return renderRows(ctx, src, opts, img, w, workers)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Supersample > 1 {
		img = Downsample(img, s.Width, s.Height, opts.Transparent)
	}

	raster.Logger().Debug("render: image done",
		"width", s.Width,
		"height", s.Height,
		"triangles", len(s.Triangles),
		"supersample", opts.Supersample,
		"workers", workers,
		"elapsed", time.Since(start))
	return img, nil
}

// renderRows renders rows first, first+step, ... into img.
func renderRows(ctx context.Context, s *scene.Scene, opts Options, img *image.NRGBA, first, step int) error {
	tg := scene.NewTarget(s, opts.Blend, opts.Background)
	r, err := tg.Renderer()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	depth := r.NewDepthRow()

	for y := first; y < s.Height; y += step {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.RenderScanline(y, depth)

		row := img.Pix[y*img.Stride:]
		for x, p := range tg.Row {
			c := p.NRGBA(opts.Transparent)
			i := x * 4
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
	return nil
}
