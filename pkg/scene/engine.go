package scene

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/philipparndt/goscene/pkg/geometry"
)

// pointSize is the side length in pixels of the square drawn for a point shape
const pointSize = 4.0

// DefaultWireframeColor is the stroke used for wireframe edges
var DefaultWireframeColor = RGB(44, 62, 80)

// Stats summarizes one rendered frame
type Stats struct {
	Shapes  int
	Faces   int // filled polygons emitted
	Culled  int // faces facing away from the camera
	Clipped int // faces touching the near plane
	Lines   int
}

// Option configures an Engine
type Option func(*Engine)

// WithViewport sets the drawing surface size
func WithViewport(v Viewport) Option {
	return func(e *Engine) { e.viewport = v }
}

// WithCamera sets the initial camera
func WithCamera(c Camera) Option {
	return func(e *Engine) { e.camera = c }
}

// WithLights sets the initial light set
func WithLights(lights ...Light) Option {
	return func(e *Engine) { e.lights = append([]Light(nil), lights...) }
}

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWireframeColor sets the stroke color of wireframe edges
func WithWireframeColor(c Color) Option {
	return func(e *Engine) { e.wireframeColor = c }
}

// Engine owns shapes, camera and lights and renders them to an Emitter.
// Every mutation re-renders synchronously.
type Engine struct {
	mu sync.Mutex

	emitter        Emitter
	logger         *zap.Logger
	viewport       Viewport
	camera         Camera
	lights         []Light
	wireframeColor Color

	shapes []*Shape
	index  map[string]*Shape

	view       geometry.Matrix4
	projection geometry.Matrix4
}

// New creates an engine drawing to emitter
func New(emitter Emitter, opts ...Option) (*Engine, error) {
	if emitter == nil {
		return nil, fmt.Errorf("scene: emitter is required")
	}
	e := &Engine{
		emitter:        emitter,
		logger:         zap.NewNop(),
		viewport:       DefaultViewport(),
		camera:         DefaultCamera(),
		lights:         DefaultLights(),
		wireframeColor: DefaultWireframeColor,
		index:          make(map[string]*Shape),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.viewport.Validate(); err != nil {
		return nil, err
	}
	if err := validateLights(e.lights); err != nil {
		return nil, err
	}
	if err := e.updateMatrices(e.camera); err != nil {
		return nil, err
	}
	return e, nil
}

func validateLights(lights []Light) error {
	for i, l := range lights {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

// updateMatrices validates c and derives the view and projection matrices
func (e *Engine) updateMatrices(c Camera) error {
	if err := c.Validate(); err != nil {
		return err
	}
	view, err := c.ViewMatrix()
	if err != nil {
		return err
	}
	e.camera = c
	e.view = view
	e.projection = c.ProjectionMatrix(e.viewport.Aspect())
	return nil
}

// AddShape validates a shape, stores a copy of it and re-renders. Later
// changes to s do not reach the engine.
func (e *Engine) AddShape(s *Shape) error {
	if s == nil {
		return fmt.Errorf("%w: nil shape", ErrInvalidGeometry)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s = s.Clone()
	if !s.hasPivot {
		s.pivot, s.hasPivot = geometry.Centroid(s.Vertices), true
	}
	if s.Transform == (geometry.Transform{}) {
		s.Transform = geometry.IdentityTransform()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.index[s.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateShape, s.ID)
	}
	e.shapes = append(e.shapes, s)
	e.index[s.ID] = s
	e.logger.Debug("added shape", zap.String("id", s.ID), zap.Stringer("kind", s.Kind),
		zap.Int("vertices", len(s.Vertices)), zap.Int("faces", len(s.Faces)))
	_, err := e.render()
	return err
}

// AddCube creates a cube, adds it and returns a copy of it
func (e *Engine) AddCube(center geometry.Vector3, size float64, opts ...ShapeOption) (*Shape, error) {
	s, err := NewCube(center, size, opts...)
	if err != nil {
		return nil, err
	}
	return s, e.AddShape(s)
}

// AddSphere creates a sphere, adds it and returns a copy of it
func (e *Engine) AddSphere(center geometry.Vector3, radius float64, segments int, opts ...ShapeOption) (*Shape, error) {
	s, err := NewSphere(center, radius, segments, opts...)
	if err != nil {
		return nil, err
	}
	return s, e.AddShape(s)
}

// AddPyramid creates a pyramid, adds it and returns a copy of it
func (e *Engine) AddPyramid(base []geometry.Vector3, apex geometry.Vector3, opts ...ShapeOption) (*Shape, error) {
	s, err := NewPyramid(base, apex, opts...)
	if err != nil {
		return nil, err
	}
	return s, e.AddShape(s)
}

// Shape returns a copy of the shape with the given id
func (e *Engine) Shape(id string) (*Shape, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrShapeNotFound, id)
	}
	return s.Clone(), nil
}

// Shapes returns copies of all shapes in insertion order
func (e *Engine) Shapes() []*Shape {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Shape, len(e.shapes))
	for i, s := range e.shapes {
		out[i] = s.Clone()
	}
	return out
}

// SetCamera replaces the camera and re-renders
func (e *Engine) SetCamera(c Camera) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.updateMatrices(c); err != nil {
		return err
	}
	_, err := e.render()
	return err
}

// Camera returns the current camera
func (e *Engine) Camera() Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.camera
}

// OrbitCamera rotates the camera around its target and re-renders
func (e *Engine) OrbitCamera(deltaTheta, deltaPhi float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.updateMatrices(e.camera.Orbit(deltaTheta, deltaPhi)); err != nil {
		return err
	}
	_, err := e.render()
	return err
}

// ZoomCamera scales the camera distance and re-renders
func (e *Engine) ZoomCamera(factor float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.camera.Zoom(factor)
	if err != nil {
		return err
	}
	if err := e.updateMatrices(c); err != nil {
		return err
	}
	_, err = e.render()
	return err
}

// SetLights replaces the light set and re-renders
func (e *Engine) SetLights(lights ...Light) error {
	if err := validateLights(lights); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lights = append([]Light(nil), lights...)
	_, err := e.render()
	return err
}

// AddLight appends a light and re-renders
func (e *Engine) AddLight(l Light) error {
	if err := l.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lights = append(e.lights, l)
	_, err := e.render()
	return err
}

// Lights returns a copy of the light set
func (e *Engine) Lights() []Light {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Light(nil), e.lights...)
}

// SetViewport resizes the drawing surface and re-renders
func (e *Engine) SetViewport(v Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = v
	e.projection = e.camera.ProjectionMatrix(v.Aspect())
	_, err := e.render()
	return err
}

// Viewport returns the drawing surface size
func (e *Engine) Viewport() Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// SetShapeTransform replaces one transform property of a shape and re-renders
func (e *Engine) SetShapeTransform(id string, property TransformProperty, value geometry.Vector3) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrShapeNotFound, id)
	}
	t, err := property.Set(s.Transform, value)
	if err != nil {
		return err
	}
	s.Transform = t
	_, err = e.render()
	return err
}

// SetTransform replaces the whole transform of a shape and re-renders
func (e *Engine) SetTransform(id string, t geometry.Transform) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrShapeNotFound, id)
	}
	s.Transform = t
	_, err := e.render()
	return err
}

// ViewMatrix returns the current world to eye matrix
func (e *Engine) ViewMatrix() geometry.Matrix4 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// ProjectionMatrix returns the current perspective matrix
func (e *Engine) ProjectionMatrix() geometry.Matrix4 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projection
}

// ProjectPoint maps a world point to screen pixels and returns its eye-space
// depth. Points on or behind the near plane return ErrBehindCamera.
func (e *Engine) ProjectPoint(p geometry.Vector3) (Point2, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.project(p)
	if v.clipped {
		return Point2{}, v.depth, fmt.Errorf("%w: %v at depth %v", ErrBehindCamera, p, v.depth)
	}
	return v.screen, v.depth, nil
}

// Render draws the scene to the emitter
func (e *Engine) Render() (Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.render()
}

type projectedVertex struct {
	screen  Point2
	ndc     Point2 // y up
	depth   float64
	clipped bool
}

type projectedShape struct {
	shape    *Shape
	poser    geometry.Poser
	world    []geometry.Vector3
	vertices []projectedVertex
	depth    float64
}

func (e *Engine) project(p geometry.Vector3) projectedVertex {
	eye := e.view.MulPoint(p)
	depth := -eye.Z
	if depth <= e.camera.Near {
		return projectedVertex{depth: depth, clipped: true}
	}
	clip := e.projection.MulVector4(eye)
	ndc := Point2{X: clip.X / clip.W, Y: clip.Y / clip.W}
	return projectedVertex{
		ndc:   ndc,
		depth: depth,
		screen: Point2{
			X: (ndc.X + 1) / 2 * e.viewport.Width,
			Y: (1 - ndc.Y) / 2 * e.viewport.Height,
		},
	}
}

// render runs project, sort, cull, shade and emit; e.mu must be held
func (e *Engine) render() (Stats, error) {
	stats := Stats{Shapes: len(e.shapes)}

	drawList := make([]projectedShape, len(e.shapes))
	for i, s := range e.shapes {
		ps := projectedShape{
			shape:    s,
			poser:    geometry.NewPoser(s.Transform, s.pivot),
			world:    make([]geometry.Vector3, len(s.Vertices)),
			vertices: make([]projectedVertex, len(s.Vertices)),
		}
		for j, v := range s.Vertices {
			ps.world[j] = ps.poser.Point(v)
			ps.vertices[j] = e.project(ps.world[j])
			ps.depth += ps.vertices[j].depth
		}
		ps.depth /= float64(len(s.Vertices))
		drawList[i] = ps
	}

	// painter's algorithm: farthest first
	sort.SliceStable(drawList, func(i, j int) bool {
		return drawList[i].depth > drawList[j].depth
	})

	lighting := Lighting(e.lights)
	e.emitter.Begin(e.viewport)
	for _, ps := range drawList {
		e.emitter.BeginShape(ps.shape.ID)
		switch ps.shape.Kind {
		case KindPoint:
			e.emitPoints(ps, &stats)
		case KindLine:
			e.emitPolyline(ps, &stats)
		case KindPlane, KindCube, KindSphere, KindCylinder, KindCone, KindPyramid, KindMesh:
			e.emitFaces(ps, lighting, &stats)
			if ps.shape.Material.Wireframe {
				e.emitWireframe(ps, &stats)
			}
		default:
			_ = e.emitter.End()
			return stats, fmt.Errorf("%w: shape %q has unknown kind %s", ErrInvalidGeometry, ps.shape.ID, ps.shape.Kind)
		}
	}
	if err := e.emitter.End(); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrEmit, err)
	}

	if stats.Clipped > 0 {
		e.logger.Warn("faces clipped by the near plane", zap.Int("clipped", stats.Clipped))
	}
	e.logger.Debug("rendered frame",
		zap.Int("shapes", stats.Shapes),
		zap.Int("faces", stats.Faces),
		zap.Int("culled", stats.Culled),
		zap.Int("lines", stats.Lines),
	)
	return stats, nil
}

func (e *Engine) emitFaces(ps projectedShape, lighting Lighting, stats *Stats) {
	s := ps.shape
	for _, face := range s.Faces {
		clipped := false
		for _, idx := range face.Indices {
			if ps.vertices[idx].clipped {
				clipped = true
				break
			}
		}
		if clipped {
			stats.Clipped++
			continue
		}

		area := signedArea(ps.vertices, face.Indices)
		if ps.poser.Mirrored() {
			area = -area
		}
		if area <= 0 {
			stats.Culled++
			continue
		}

		points := make([]Point2, len(face.Indices))
		corners := make([]geometry.Vector3, len(face.Indices))
		for i, idx := range face.Indices {
			points[i] = ps.vertices[idx].screen
			corners[i] = ps.world[idx]
		}

		material := s.Material
		if face.Color != nil {
			material.Color = *face.Color
		}
		opacity := material.Opacity
		if face.Opacity != nil {
			opacity = *face.Opacity
		}

		fill := lighting.Illuminate(geometry.Centroid(corners), ps.poser.Normal(face.Normal), material, e.camera.Position)
		e.emitter.FillPolygon(points, fill, opacity)
		stats.Faces++
	}
}

// signedArea returns twice the signed area of a face in y-up NDC space.
// For a triangle this is the cross product of its first two edges; it is
// positive when the face winds counter-clockwise on screen.
func signedArea(vertices []projectedVertex, indices []int) float64 {
	sum := 0.0
	for i, idx := range indices {
		a := vertices[idx].ndc
		b := vertices[indices[(i+1)%len(indices)]].ndc
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

func (e *Engine) emitWireframe(ps projectedShape, stats *Stats) {
	type edge struct{ a, b int }
	drawn := make(map[edge]bool)
	for _, face := range ps.shape.Faces {
		for i, a := range face.Indices {
			b := face.Indices[(i+1)%len(face.Indices)]
			key := edge{min(a, b), max(a, b)}
			if drawn[key] {
				continue
			}
			drawn[key] = true
			if ps.vertices[a].clipped || ps.vertices[b].clipped {
				continue
			}
			e.emitter.Line(ps.vertices[a].screen, ps.vertices[b].screen, e.wireframeColor)
			stats.Lines++
		}
	}
}

func (e *Engine) emitPolyline(ps projectedShape, stats *Stats) {
	for i := 0; i+1 < len(ps.vertices); i++ {
		a, b := ps.vertices[i], ps.vertices[i+1]
		if a.clipped || b.clipped {
			continue
		}
		e.emitter.Line(a.screen, b.screen, ps.shape.Material.Color)
		stats.Lines++
	}
}

func (e *Engine) emitPoints(ps projectedShape, stats *Stats) {
	h := pointSize / 2
	for _, v := range ps.vertices {
		if v.clipped {
			continue
		}
		square := []Point2{
			{X: v.screen.X - h, Y: v.screen.Y - h},
			{X: v.screen.X + h, Y: v.screen.Y - h},
			{X: v.screen.X + h, Y: v.screen.Y + h},
			{X: v.screen.X - h, Y: v.screen.Y + h},
		}
		e.emitter.FillPolygon(square, ps.shape.Material.Color, ps.shape.Material.Opacity)
		stats.Faces++
	}
}
