package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goscene/internal/export"
)

var animateOutDir string

var animateCmd = &cobra.Command{
	Use:   "animate <scene>",
	Short: "Render the animations of a scene to numbered SVG frames",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := export.Animate(cmd.Context(), args[0], animateOutDir, cfg.FPS, exportOptions(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d frames written to %s\n", n, animateOutDir)
		return nil
	},
}

func init() {
	animateCmd.Flags().StringVar(&animateOutDir, "out-dir", "frames", "directory for the frames")
	animateCmd.Flags().Int("fps", 30, "frames per second")
	rootCmd.AddCommand(animateCmd)
}
