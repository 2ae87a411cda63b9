package canvas

import (
	"sync"

	"github.com/philipparndt/goscene/pkg/scene"
)

// OpKind identifies a drawing instruction
type OpKind int

const (
	OpFill OpKind = iota
	OpLine
)

func (k OpKind) String() string {
	switch k {
	case OpFill:
		return "fill"
	case OpLine:
		return "line"
	default:
		return "unknown"
	}
}

// Op is one recorded drawing instruction
type Op struct {
	Kind    OpKind
	Shape   string
	Points  []scene.Point2 // polygon corners, or the two line endpoints
	Color   scene.Color
	Opacity float64
}

// Frame is the display list of one render
type Frame struct {
	Viewport scene.Viewport
	Shapes   []string // shape ids in draw order
	Ops      []Op
}

// Fills returns the filled polygons of the frame
func (f Frame) Fills() []Op {
	return f.filter(OpFill)
}

// Lines returns the line segments of the frame
func (f Frame) Lines() []Op {
	return f.filter(OpLine)
}

// ShapeOps returns the instructions emitted for one shape
func (f Frame) ShapeOps(id string) []Op {
	var out []Op
	for _, op := range f.Ops {
		if op.Shape == id {
			out = append(out, op)
		}
	}
	return out
}

func (f Frame) filter(kind OpKind) []Op {
	var out []Op
	for _, op := range f.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Replay sends the frame to another emitter
func (f Frame) Replay(e scene.Emitter) error {
	e.Begin(f.Viewport)
	shape := ""
	started := false
	for _, op := range f.Ops {
		if !started || op.Shape != shape {
			shape, started = op.Shape, true
			e.BeginShape(shape)
		}
		switch op.Kind {
		case OpFill:
			e.FillPolygon(op.Points, op.Color, op.Opacity)
		case OpLine:
			e.Line(op.Points[0], op.Points[1], op.Color)
		}
	}
	return e.End()
}

// Recorder is an Emitter that keeps the last completed frame in memory
type Recorder struct {
	mu      sync.Mutex
	current Frame
	last    Frame
	shape   string
	frames  int
	onFrame func(Frame)
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnFrame registers a callback that receives every completed frame
func (r *Recorder) OnFrame(fn func(Frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFrame = fn
}

func (r *Recorder) Begin(viewport scene.Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Frame{Viewport: viewport}
	r.shape = ""
}

func (r *Recorder) BeginShape(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shape = id
	r.current.Shapes = append(r.current.Shapes, id)
}

func (r *Recorder) FillPolygon(points []scene.Point2, fill scene.Color, opacity float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.Ops = append(r.current.Ops, Op{
		Kind:    OpFill,
		Shape:   r.shape,
		Points:  append([]scene.Point2(nil), points...),
		Color:   fill,
		Opacity: opacity,
	})
}

func (r *Recorder) Line(a, b scene.Point2, stroke scene.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.Ops = append(r.current.Ops, Op{
		Kind:    OpLine,
		Shape:   r.shape,
		Points:  []scene.Point2{a, b},
		Color:   stroke,
		Opacity: 1,
	})
}

func (r *Recorder) End() error {
	r.mu.Lock()
	r.last = r.current
	r.current = Frame{}
	r.frames++
	fn, frame := r.onFrame, r.last
	r.mu.Unlock()

	if fn != nil {
		fn(frame)
	}
	return nil
}

// Last returns the most recently completed frame
func (r *Recorder) Last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Frames returns how many frames have been completed
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
