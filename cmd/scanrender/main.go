package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"scanline-renderer/internal/config"
	"scanline-renderer/internal/raster"
)

var (
	configFile string
	verbose    bool
	flags      config.Flags
)

// root command
var rootCmd = &cobra.Command{
	Use:   "scanrender",
	Short: "Render triangle scene scripts with a scanline depth-buffer rasterizer",
	Long: `scanrender renders scenes of projected, depth-tested triangles.

Scenes are text scripts (.dhs) or Lua scripts (.lua). Output format follows
the output file extension: png, webp, tga, bmp or tiff.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to config JSON (default: ./"+config.DefaultFile+" if present)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	pf.IntVarP(&flags.Supersample, "supersample", "s", 0, "Supersampling factor 1-8 (default: 1)")
	pf.IntVarP(&flags.Workers, "workers", "j", 0, "Number of worker goroutines (default: NumCPU)")
	pf.StringVar(&flags.Blend, "blend", "", "Color space for interpolated shading: rgb, linear, lab, luv, hcl")
	pf.StringVar(&flags.Background, "background", "", "Background color as #rrggbb (default: #000000)")
	pf.BoolVar(&flags.Transparent, "transparent", false, "Leave uncovered pixels transparent")

	rootCmd.AddCommand(renderCmd, batchCmd, previewCmd, infoCmd)
}

// loadConfig loads the config file, applies CLI flags and validates.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return cfg, err
	}

	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
