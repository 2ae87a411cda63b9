package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/goscene/internal/config"
	"github.com/philipparndt/goscene/internal/export"
	"github.com/philipparndt/goscene/internal/logging"
	"github.com/philipparndt/goscene/version"
)

var (
	configFile string
	cfg        config.Config
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "goscene",
	Short: "Render 3D scene files to SVG",
	Long: `goscene renders scene descriptions of cubes, spheres, pyramids and STL
meshes to flat-shaded SVG drawings. Scenes are YAML or JSON files with a
camera, lights, shapes and optional transform animations.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configFile, cmd.Flags()); err != nil {
			return err
		}
		logger, err = logging.Console(cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./goscene.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Float64("width", 800, "viewport width in pixels")
	flags.Float64("height", 600, "viewport height in pixels")
	flags.String("wireframe-color", "#2c3e50", "stroke color of wireframe edges")
	flags.String("background", "#ffffff", `SVG background color, or "none"`)
}

// exportOptions returns the export options for the current command. The
// configured size overrides a scene's own viewport only when it was set on
// the command line.
func exportOptions(cmd *cobra.Command) export.Options {
	return export.Options{
		Config:        cfg,
		ForceViewport: cmd.Flags().Changed("width") || cmd.Flags().Changed("height"),
		Logger:        logger,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
