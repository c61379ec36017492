package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scanline-renderer/internal/config"
	"scanline-renderer/internal/output"
	"scanline-renderer/internal/render"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/watch"
)

var (
	renderOut   string
	renderWatch bool
)

var renderCmd = &cobra.Command{
	Use:   "render <scene>",
	Short: "Render one scene to an image file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "Output image (default: scene name with --format extension)")
	renderCmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format when -o is not given (default: png)")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render whenever the scene file changes")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src := args[0]
	dst := renderOut
	if dst == "" {
		dst = output.SwapExt(src, cfg.OutputFormat())
		if cfg.OutputDir != "" {
			dst = filepath.Join(cfg.OutputDir, filepath.Base(dst))
		}
	}

	ctx := cmd.Context()
	if err := renderFile(ctx, cfg, src, dst); err != nil {
		if !renderWatch {
			return err
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if !renderWatch {
		return nil
	}

	w, err := watch.New(src)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Printf("Watching %s (Ctrl-C to stop)...\n", src)
	err = w.Run(ctx, func([]string) error {
		return renderFile(ctx, cfg, src, dst)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func renderFile(ctx context.Context, cfg config.Config, src, dst string) error {
	start := time.Now()

	s, err := scene.Load(ctx, src)
	if err != nil {
		return err
	}
	img, err := render.Image(ctx, s, cfg.RenderOptions())
	if err != nil {
		return err
	}
	if err := output.WriteFile(dst, img); err != nil {
		return err
	}

	fmt.Printf("%s → %s (%dx%d, %d triangles, %.1fms)\n",
		src, dst, s.Width, s.Height, len(s.Triangles),
		float64(time.Since(start).Microseconds())/1000)
	return nil
}
