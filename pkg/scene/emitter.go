package scene

import "fmt"

// Point2 is a position in screen pixels, y pointing down
type Point2 struct {
	X, Y float64
}

// Viewport is the size of the drawing surface in pixels
type Viewport struct {
	Width, Height float64
}

// DefaultViewport is 800x600
func DefaultViewport() Viewport {
	return Viewport{Width: 800, Height: 600}
}

// Validate checks that both sides are positive
func (v Viewport) Validate() error {
	if !(v.Width > 0) || !(v.Height > 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidViewport, v.Width, v.Height)
	}
	return nil
}

// Aspect returns width / height
func (v Viewport) Aspect() float64 {
	return v.Width / v.Height
}

// Emitter receives the 2D drawing instructions of one rendered frame.
// Begin and End bracket a frame; BeginShape starts the instructions of one
// shape in draw order. Implementations keep the first error they hit and
// report it from End.
type Emitter interface {
	Begin(viewport Viewport)
	BeginShape(id string)
	FillPolygon(points []Point2, fill Color, opacity float64)
	Line(a, b Point2, stroke Color)
	End() error
}
