package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goscene/internal/export"
	"github.com/philipparndt/goscene/pkg/analysis"
	"github.com/philipparndt/goscene/pkg/canvas"
	"github.com/philipparndt/goscene/pkg/stl"
)

var infoEdges int

var infoCmd = &cobra.Command{
	Use:   "info <scene|stl>",
	Short: "Print measurements of a scene or STL file",
	Long: `Print vertex, face and edge counts, bounds, dimensions and surface area
of every shape in a scene, or of a single STL model.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().IntVar(&infoEdges, "edges", 0, "also list the N longest edges of each shape")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	if strings.EqualFold(filepath.Ext(path), ".stl") {
		model, err := stl.Parse(path)
		if err != nil {
			return err
		}
		stats, err := analysis.AnalyzeModel(model)
		if err != nil {
			return err
		}
		printStats(out, []analysis.ShapeStats{stats})
		return nil
	}

	_, engine, err := export.Build(path, canvas.NewRecorder(), exportOptions(cmd))
	if err != nil {
		return err
	}
	summary := analysis.AnalyzeScene(engine.Shapes())
	printStats(out, append(summary.Shapes, summary.Total))
	return nil
}

func printStats(out io.Writer, stats []analysis.ShapeStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHAPE\tKIND\tVERTICES\tFACES\tEDGES\tDIMENSIONS\tAREA\tEDGE MIN/AVG/MAX")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%.3f / %.3f / %.3f\n",
			s.ID, s.Kind, s.Vertices, s.Faces, s.EdgeCount,
			analysis.FormatVector(s.Dimensions()),
			analysis.FormatMeasurement(s.SurfaceArea, "units²"),
			s.MinEdgeLength, s.AvgEdgeLength, s.MaxEdgeLength)
	}
	_ = w.Flush()

	if infoEdges <= 0 {
		return
	}
	for _, s := range stats {
		if len(s.Edges) == 0 {
			continue
		}
		fmt.Fprintf(out, "\nlongest edges of %s:\n", s.ID)
		for _, e := range analysis.FindLongestEdges(s, infoEdges) {
			fmt.Fprintf(out, "  %s -> %s  %s\n",
				analysis.FormatVector(e.Start), analysis.FormatVector(e.End),
				analysis.FormatMeasurement(e.Length, ""))
		}
	}
}
