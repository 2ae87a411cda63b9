package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/philipparndt/goscene/internal/config"
	"github.com/philipparndt/goscene/pkg/animation"
	"github.com/philipparndt/goscene/pkg/canvas"
	"github.com/philipparndt/goscene/pkg/interaction"
	"github.com/philipparndt/goscene/pkg/scene"
	"github.com/philipparndt/goscene/pkg/scenefile"
	"github.com/philipparndt/goscene/pkg/watcher"
)

// App is the preview window
type App struct {
	Scene     SceneState
	View      ViewSettings
	FileWatch FileWatchState

	cfg    config.Config
	logger *zap.Logger
	ctx    context.Context
}

// Run opens a window showing the scene at path until the window is closed
// or ctx is cancelled. With watch set the scene reloads when the file changes.
func Run(ctx context.Context, path string, cfg config.Config, logger *zap.Logger, watch bool) error {
	doc, err := scenefile.LoadFile(path)
	if err != nil {
		return err
	}

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	app := &App{
		View: ViewSettings{
			width:      int(cfg.Width),
			height:     int(cfg.Height),
			background: bg,
		},
		FileWatch: FileWatchState{
			path:    path,
			reloads: make(chan *scenefile.Document, 1),
		},
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
	}
	if err := app.load(doc); err != nil {
		return err
	}
	if doc.Viewport != nil {
		app.View.width, app.View.height = int(doc.Viewport.Width), int(doc.Viewport.Height)
	}

	if watch {
		stop, err := app.watch(ctx, path)
		if err != nil {
			return err
		}
		defer stop()
	}

	ebiten.SetWindowSize(app.View.width, app.View.height)
	ebiten.SetWindowTitle(fmt.Sprintf("goscene - %s", path))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TicksPerSecond())

	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// load builds an engine for doc and starts its animations
func (app *App) load(doc *scenefile.Document) error {
	opts, err := app.cfg.EngineOptions(false)
	if err != nil {
		return err
	}
	opts = append(opts, scene.WithLogger(app.logger))
	if app.Scene.engine != nil {
		opts = append(opts, scene.WithViewport(app.Scene.engine.Viewport()))
	} else if doc.Viewport == nil {
		opts = append(opts, scene.WithViewport(app.cfg.Viewport()))
	}

	recorder := canvas.NewRecorder()
	engine, err := doc.Build(recorder, opts...)
	if err != nil {
		return err
	}
	frames := animation.NewManualFrames()
	animator := animation.New(engine, frames, animation.WithLogger(app.logger))
	anims, err := doc.Play(engine, animator)
	if err != nil {
		return err
	}
	if _, err := engine.Render(); err != nil {
		return err
	}

	app.Scene = SceneState{
		doc:        doc,
		engine:     engine,
		recorder:   recorder,
		controller: interaction.NewController(engine),
		frames:     frames,
		animator:   animator,
		anims:      anims,
		homeCamera: engine.Camera(),
	}
	return nil
}

// watch reloads the scene file in the background
func (app *App) watch(ctx context.Context, path string) (func(), error) {
	fw, err := watcher.NewFileWatcher(200*time.Millisecond, watcher.WithLogger(app.logger))
	if err != nil {
		return nil, err
	}
	if err := fw.Watch(path); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		_ = fw.Run(ctx, func(watcher.Change) {
			doc, err := scenefile.LoadFile(path)
			if err != nil {
				app.logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			// keep only the newest document
			select {
			case <-app.FileWatch.reloads:
			default:
			}
			app.FileWatch.reloads <- doc
		})
	}()
	return func() {
		cancel()
		fw.Close()
	}, nil
}

// Layout implements ebiten.Game and keeps the engine viewport in sync with
// the window
func (app *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != app.View.width || outsideHeight != app.View.height {
		app.View.width, app.View.height = outsideWidth, outsideHeight
		vp := scene.Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight)}
		if err := app.Scene.engine.SetViewport(vp); err != nil {
			app.logger.Debug("ignoring viewport", zap.Error(err))
		}
	}
	return outsideWidth, outsideHeight
}

// Update implements ebiten.Game
func (app *App) Update() error {
	if app.ctx.Err() != nil {
		return ebiten.Termination
	}

	select {
	case doc := <-app.FileWatch.reloads:
		camera := app.Scene.engine.Camera()
		if err := app.load(doc); err != nil {
			app.FileWatch.lastErr = err
			app.logger.Warn("scene rebuild failed", zap.Error(err))
		} else {
			app.FileWatch.lastErr = nil
			_ = app.Scene.engine.SetCamera(camera)
			app.logger.Info("scene reloaded", zap.String("path", app.FileWatch.path))
		}
	default:
	}

	if err := app.handleInput(); err != nil {
		return err
	}
	app.Scene.frames.Advance(time.Now())
	if err := app.Scene.animator.Err(); err != nil {
		return err
	}
	return nil
}

// Draw implements ebiten.Game
func (app *App) Draw(screen *ebiten.Image) {
	app.drawFrame(screen, app.Scene.recorder.Last())
	if app.View.showHelp || app.FileWatch.lastErr != nil {
		app.drawOverlay(screen)
	}
}
