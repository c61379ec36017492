package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scanline-renderer/internal/preview"
	"scanline-renderer/internal/render"
	"scanline-renderer/internal/scene"
)

var previewCmd = &cobra.Command{
	Use:   "preview <scene>",
	Short: "Render a scene straight to the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		profile, force, err := preview.ParseProfile(cfg.ColorProfile)
		if err != nil {
			return err
		}

		s, err := scene.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		img, err := render.Image(cmd.Context(), s, cfg.RenderOptions())
		if err != nil {
			return err
		}

		term := preview.NewTerminal(os.Stdout)
		if force {
			term.SetProfile(profile)
		}
		fmt.Println(term.Render(img, min(cfg.PreviewWidth, s.Width)))
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&flags.PreviewWidth, "width", 0, "Preview width in terminal cells (default: 80)")
	previewCmd.Flags().StringVar(&flags.ColorProfile, "color", "", "Color profile: auto, truecolor, ansi256, ansi, ascii")
}

var infoCmd = &cobra.Command{
	Use:   "info <scene>...",
	Short: "Print scene header information",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, path := range args {
			s, err := scene.Load(cmd.Context(), path)
			if err != nil {
				return err
			}
			if len(args) > 1 {
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("%s:\n", path)
			}
			fmt.Print(s.Info())
		}
		return nil
	},
}
