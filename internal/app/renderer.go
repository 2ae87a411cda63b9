package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/philipparndt/goscene/pkg/canvas"
	"github.com/philipparndt/goscene/pkg/scene"
)

// whiteImage is the 1x1 source texture for solid triangles
var whiteImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

const helpText = `drag   orbit
wheel  zoom
R      reset camera
A      replay animations
H      toggle help
Esc    quit`

// drawFrame paints a recorded frame in emission order
func (app *App) drawFrame(screen *ebiten.Image, frame canvas.Frame) {
	if bg := app.View.background; bg != nil {
		screen.Fill(bg.RGBA(1))
	}
	for _, op := range frame.Ops {
		switch op.Kind {
		case canvas.OpFill:
			fillConvexPolygon(screen, op.Points, op.Color, op.Opacity)
		case canvas.OpLine:
			a, b := op.Points[0], op.Points[1]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, op.Color.RGBA(1), true)
		}
	}
}

// fillConvexPolygon draws a convex polygon as a triangle fan
func fillConvexPolygon(screen *ebiten.Image, points []scene.Point2, fill scene.Color, opacity float64) {
	if len(points) < 3 {
		return
	}

	indices := make([]uint16, 0, (len(points)-2)*3)
	for i := 2; i < len(points); i++ {
		indices = append(indices, 0, uint16(i-1), uint16(i))
	}

	cr := float32(fill.R) / 255.0
	cg := float32(fill.G) / 255.0
	cb := float32(fill.B) / 255.0
	ca := float32(opacity)

	vertices := make([]ebiten.Vertex, len(points))
	for i, p := range points {
		vertices[i] = ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.FillRule = ebiten.FillAll
	op.AntiAlias = true
	screen.DrawTriangles(vertices, indices, whiteImage, op)
}

func (app *App) drawOverlay(screen *ebiten.Image) {
	msg := helpText
	if err := app.FileWatch.lastErr; err != nil {
		msg = fmt.Sprintf("reload failed: %v", err)
	}
	ebitenutil.DebugPrint(screen, msg)
}
