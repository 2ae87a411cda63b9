package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleInput maps mouse and keyboard to the scene: left drag orbits, the
// wheel zooms, R resets the camera, A replays the animations, H toggles help
func (app *App) handleInput() error {
	ctrl := app.Scene.controller
	x, y := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		ctrl.PointerDown(float64(x), float64(y))
	}
	if ctrl.Dragging() {
		if err := ctrl.PointerMove(float64(x), float64(y)); err != nil {
			return err
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		ctrl.PointerUp()
	}

	// ebiten reports scrolling up as positive, which zooms in
	if _, dy := ebiten.Wheel(); dy != 0 {
		if err := ctrl.Wheel(-dy); err != nil {
			return err
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return app.resetCamera()
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		return app.replay()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		app.View.showHelp = !app.View.showHelp
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}
	return nil
}

func (app *App) resetCamera() error {
	return app.Scene.engine.SetCamera(app.Scene.homeCamera)
}

// replay restarts every animation from its start value
func (app *App) replay() error {
	for _, a := range app.Scene.anims {
		if err := app.Scene.animator.Animate(a.Shape, a.Spec); err != nil {
			return err
		}
	}
	return nil
}
