package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goscene/internal/export"
)

var (
	renderOutput string
	renderOutDir string
)

var renderCmd = &cobra.Command{
	Use:   "render <scene>...",
	Short: "Render scene files to SVG",
	Long: `Render each scene file to an SVG drawing. By default the drawing is written
next to the scene with an .svg extension. Several scenes render concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (single scene only)")
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", "", "directory for the SVG files")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output takes a single scene, got %d", len(args))
	}
	out := func(scenePath string) string {
		if renderOutput != "" {
			return renderOutput
		}
		return export.OutputPath(scenePath, renderOutDir)
	}
	return export.RenderFiles(cmd.Context(), args, out, exportOptions(cmd))
}
