package canvas

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"

	"github.com/philipparndt/goscene/pkg/scene"
)

// SVGOptions controls document styling
type SVGOptions struct {
	Background  *scene.Color // nil leaves the background transparent
	StrokeWidth float64
	Decimals    int
}

// DefaultSVGOptions returns a white background and 1px strokes
func DefaultSVGOptions() SVGOptions {
	white := scene.White
	return SVGOptions{Background: &white, StrokeWidth: 1, Decimals: 2}
}

// WriteSVG writes a frame as a standalone SVG document. Each shape becomes
// a <g> element whose id is the shape id.
func WriteSVG(w io.Writer, f Frame, opts SVGOptions) error {
	ew := &errWriter{w: w}
	doc := svg.New(ew)
	if opts.Decimals > 0 {
		doc.Decimals = opts.Decimals
	}
	doc.Start(f.Viewport.Width, f.Viewport.Height)
	if opts.Background != nil {
		doc.Rect(0, 0, f.Viewport.Width, f.Viewport.Height, "fill:"+opts.Background.Hex())
	}

	open := false
	shape := ""
	for _, op := range f.Ops {
		if !open || op.Shape != shape {
			if open {
				doc.Gend()
			}
			shape, open = op.Shape, true
			doc.Gid(shape)
		}
		switch op.Kind {
		case OpFill:
			xs := make([]float64, len(op.Points))
			ys := make([]float64, len(op.Points))
			for i, p := range op.Points {
				xs[i], ys[i] = p.X, p.Y
			}
			doc.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:%g;stroke:none", op.Color.Hex(), op.Opacity))
		case OpLine:
			a, b := op.Points[0], op.Points[1]
			doc.Line(a.X, a.Y, b.X, b.Y, fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-linecap:round", op.Color.Hex(), opts.StrokeWidth))
		}
	}
	if open {
		doc.Gend()
	}
	doc.End()
	return ew.err
}

// SVG is an Emitter that writes one SVG document per frame to a writer
type SVG struct {
	Recorder
	w    io.Writer
	opts SVGOptions
}

// NewSVG creates an SVG emitter writing to w
func NewSVG(w io.Writer, opts SVGOptions) *SVG {
	return &SVG{w: w, opts: opts}
}

// End completes the frame and writes the document
func (s *SVG) End() error {
	if err := s.Recorder.End(); err != nil {
		return err
	}
	if err := WriteSVG(s.w, s.Last(), s.opts); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// errWriter keeps the first write error; svgo ignores them
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
