package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goscene/internal/app"
	"github.com/philipparndt/goscene/internal/config"
	"github.com/philipparndt/goscene/internal/logging"
	"github.com/philipparndt/goscene/version"
)

var (
	configFile string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "goscene-view <scene>",
	Short: "Interactive preview of a 3D scene file",
	Long: `Open a window showing a scene file. Drag to orbit the camera, scroll to
zoom, R resets the camera, A replays the animations and H shows the help.`,
	Version:       version.GetFullVersion(),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger, err := logging.Console(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return app.Run(cmd.Context(), args[0], cfg, logger, watch)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./goscene.yaml)")
	flags.BoolVarP(&watch, "watch", "w", false, "reload the scene when the file changes")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Float64("width", 800, "initial window width")
	flags.Float64("height", 600, "initial window height")
	flags.String("background", "#ffffff", "background color")
	flags.Duration("frame-interval", time.Second/60, "time between frames")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
