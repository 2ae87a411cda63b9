package app

import (
	"github.com/philipparndt/goscene/pkg/animation"
	"github.com/philipparndt/goscene/pkg/canvas"
	"github.com/philipparndt/goscene/pkg/interaction"
	"github.com/philipparndt/goscene/pkg/scene"
	"github.com/philipparndt/goscene/pkg/scenefile"
)

// SceneState holds the engine of the scene currently shown
type SceneState struct {
	doc        *scenefile.Document
	engine     *scene.Engine
	recorder   *canvas.Recorder
	controller *interaction.Controller
	frames     *animation.ManualFrames
	animator   *animation.Animator
	anims      []scenefile.Animation
	homeCamera scene.Camera // camera restored by the reset key
}

// ViewSettings holds display settings
type ViewSettings struct {
	width, height int
	background    *scene.Color
	showHelp      bool
}

// FileWatchState holds live reload state
type FileWatchState struct {
	path    string
	reloads chan *scenefile.Document
	lastErr error
}
