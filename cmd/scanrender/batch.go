package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scanline-renderer/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Render every scene under a directory",
	Long: `batch renders every .dhs and .lua scene under dir, mirroring the directory
layout into the output directory, and writes manifest.json next to the images.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "Output directory (default: <dir>-renders)")
	batchCmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format (default: png)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inDir := filepath.Clean(args[0])
	if cfg.OutputDir == "" {
		cfg.OutputDir = inDir + "-renders"
	}

	files, err := batch.Collect(inDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No scenes to render.")
		return nil
	}

	fmt.Printf("Scanline renderer → %s\n", cfg.OutputFormat())
	fmt.Printf("Scenes: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(cmd.Context(), batch.Config{
		InputDir:  inDir,
		OutputDir: cfg.OutputDir,
		Format:    cfg.OutputFormat(),
		Render:    cfg.RenderOptions(),
		Workers:   cfg.Workers,
		Progress:  os.Stdout,
	}, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	failed := batch.Failed(results)
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", r.Scene, r.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, batch.ManifestName)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d scenes failed", len(failed), len(results))
	}
	return nil
}
