package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/goscene/internal/export"
	"github.com/philipparndt/goscene/pkg/scenefile"
	"github.com/philipparndt/goscene/pkg/watcher"
)

var (
	watchOutput   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <scene>",
	Short: "Re-render a scene whenever it or its STL files change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output file (default: scene name with .svg)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "delay before re-rendering after a change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := watchOutput
	if out == "" {
		out = export.OutputPath(path, "")
	}
	opts := exportOptions(cmd)

	doc, err := scenefile.LoadFile(path)
	if err != nil {
		return err
	}
	if _, err := export.RenderFile(path, out, opts); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(watchDebounce, watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	defer fw.Close()

	files := append([]string{path}, doc.Dependencies()...)
	if err := fw.Watch(files...); err != nil {
		return err
	}
	logger.Info("watching", zap.Strings("files", files), zap.String("out", out))

	err = fw.Run(cmd.Context(), func(change watcher.Change) {
		logger.Debug("change detected", zap.String("path", change.Path))
		if _, err := export.RenderFile(path, out, opts); err != nil {
			logger.Error("render failed", zap.String("scene", path), zap.Error(err))
			return
		}
		// a changed scene may reference other STL files now
		if reloaded, err := scenefile.LoadFile(path); err == nil {
			if err := fw.Watch(reloaded.Dependencies()...); err != nil {
				logger.Warn("failed to watch dependencies", zap.Error(err))
			}
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
