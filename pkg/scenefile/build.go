package scenefile

import (
	"fmt"
	"time"

	"github.com/philipparndt/goscene/pkg/animation"
	"github.com/philipparndt/goscene/pkg/geometry"
	"github.com/philipparndt/goscene/pkg/scene"
	"github.com/philipparndt/goscene/pkg/stl"
)

// Defaults for shape parameters a scene file leaves out
const (
	DefaultSize     = 1.0
	DefaultSegments = 16
)

// Animation is a resolved animation of one shape
type Animation struct {
	Shape string
	Spec  animation.Spec
}

// Options returns the engine options the document sets. Build applies
// them before the caller's options.
func (d *Document) Options() ([]scene.Option, error) {
	var opts []scene.Option
	if d.Viewport != nil {
		opts = append(opts, scene.WithViewport(scene.Viewport{Width: d.Viewport.Width, Height: d.Viewport.Height}))
	}
	if d.Camera != nil && !d.Camera.Fit {
		opts = append(opts, scene.WithCamera(d.Camera.apply(scene.DefaultCamera())))
	}
	if d.Lights != nil {
		lights := make([]scene.Light, 0, len(d.Lights))
		for i, entry := range d.Lights {
			l, err := entry.light()
			if err != nil {
				return nil, fmt.Errorf("light %d: %w", i, err)
			}
			lights = append(lights, l)
		}
		opts = append(opts, scene.WithLights(lights...))
	}
	return opts, nil
}

// Build creates an engine drawing to emitter and adds every shape. Options
// passed by the caller override the document.
func (d *Document) Build(emitter scene.Emitter, opts ...scene.Option) (*scene.Engine, error) {
	docOpts, err := d.Options()
	if err != nil {
		return nil, err
	}
	engine, err := scene.New(emitter, append(docOpts, opts...)...)
	if err != nil {
		return nil, err
	}

	bounds := geometry.NewBoundingBox()
	for i, entry := range d.Shapes {
		shape, err := d.shape(entry)
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, entry.label(), err)
		}
		if err := engine.AddShape(shape); err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, entry.label(), err)
		}
		bounds.Merge(shape.Bounds())
	}

	if d.Camera != nil && d.Camera.Fit {
		fitted := d.Camera.lens(scene.FrameBounds(bounds))
		if err := engine.SetCamera(fitted); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// ResolveAnimations resolves the animation entries against a built engine. An
// entry without a start value starts from the shape's current pose.
func (d *Document) ResolveAnimations(engine *scene.Engine) ([]Animation, error) {
	out := make([]Animation, 0, len(d.Animations))
	for i, entry := range d.Animations {
		property, err := scene.ParseProperty(entry.Property)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		if _, err := animation.EasingByName(entry.Easing); err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		if entry.Duration < 0 {
			return nil, fmt.Errorf("animation %d: negative duration", i)
		}

		from, err := d.animationStart(engine, entry, property)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		out = append(out, Animation{
			Shape: entry.Shape,
			Spec: animation.Spec{
				Property: property,
				From:     from,
				To:       entry.To.Vector3(),
				Duration: time.Duration(entry.Duration),
				Easing:   entry.Easing,
			},
		})
	}
	return out, nil
}

func (d *Document) animationStart(engine *scene.Engine, entry AnimationEntry, property scene.TransformProperty) (geometry.Vector3, error) {
	if entry.From != nil {
		return entry.From.Vector3(), nil
	}
	shape, err := engine.Shape(entry.Shape)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return property.Get(shape.Transform)
}

// Play starts every animation of the document on animator
func (d *Document) Play(engine *scene.Engine, animator *animation.Animator) ([]Animation, error) {
	anims, err := d.ResolveAnimations(engine)
	if err != nil {
		return nil, err
	}
	for _, a := range anims {
		if err := animator.Animate(a.Shape, a.Spec); err != nil {
			return nil, err
		}
	}
	return anims, nil
}

// Longest returns the duration of the longest animation
func Longest(anims []Animation) time.Duration {
	var longest time.Duration
	for _, a := range anims {
		if a.Spec.Duration > longest {
			longest = a.Spec.Duration
		}
	}
	return longest
}

func (c *CameraEntry) lens(cam scene.Camera) scene.Camera {
	cam.Up = vecOr(c.Up, cam.Up)
	if c.FOV > 0 {
		cam.FOV = c.FOV
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}
	if c.Far > 0 {
		cam.Far = c.Far
	}
	return cam
}

func (c *CameraEntry) apply(cam scene.Camera) scene.Camera {
	cam.Position = vecOr(c.Position, cam.Position)
	cam.Target = vecOr(c.Target, cam.Target)
	return c.lens(cam)
}

func (l LightEntry) light() (scene.Light, error) {
	kind, err := scene.ParseLightKind(l.Kind)
	if err != nil {
		return scene.Light{}, err
	}
	light := scene.Light{
		Kind:      kind,
		Position:  vecOr(l.Position, geometry.Vector3{}),
		Direction: vecOr(l.Direction, geometry.Vector3{}),
		Color:     scene.White,
		Intensity: 1,
		Angle:     l.Angle,
	}
	if l.Intensity != nil {
		light.Intensity = *l.Intensity
	}
	if l.Color != "" {
		if light.Color, err = scene.ParseColor(l.Color); err != nil {
			return scene.Light{}, err
		}
	}
	return light, light.Validate()
}

func (s ShapeEntry) label() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Kind
}

// options converts the id, material and transform of a shape entry
func (s ShapeEntry) options() ([]scene.ShapeOption, error) {
	var opts []scene.ShapeOption
	if s.ID != "" {
		opts = append(opts, scene.WithID(s.ID))
	}
	if m := s.Material; m != nil {
		if m.Color != "" {
			c, err := scene.ParseColor(m.Color)
			if err != nil {
				return nil, err
			}
			opts = append(opts, scene.WithColor(c))
		}
		if m.Opacity != nil {
			opts = append(opts, scene.WithOpacity(*m.Opacity))
		}
		if m.Wireframe {
			opts = append(opts, scene.WithWireframe(true))
		}
		if m.Shininess != nil {
			opts = append(opts, scene.WithShininess(*m.Shininess))
		}
		if m.Reflectivity != nil {
			opts = append(opts, scene.WithReflectivity(*m.Reflectivity))
		}
	}
	if t := s.Transform; t != nil {
		tr := geometry.IdentityTransform()
		tr.Translation = vecOr(t.Translation, tr.Translation)
		tr.Rotation = vecOr(t.Rotation, tr.Rotation)
		tr.Scale = vecOr(t.Scale, tr.Scale)
		opts = append(opts, scene.WithTransform(tr))
	}
	return opts, nil
}

func or(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func vectors(vs []Vec) []geometry.Vector3 {
	out := make([]geometry.Vector3, len(vs))
	for i, v := range vs {
		out[i] = v.Vector3()
	}
	return out
}

// shape builds the shape an entry describes
func (d *Document) shape(s ShapeEntry) (*scene.Shape, error) {
	kind, err := scene.ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}
	opts, err := s.options()
	if err != nil {
		return nil, err
	}
	center := vecOr(s.Center, geometry.Vector3{})
	segments := s.Segments
	if segments == 0 {
		segments = DefaultSegments
	}

	switch kind {
	case scene.KindPoint:
		return scene.NewPoint(center, opts...)
	case scene.KindLine:
		if len(s.Vertices) >= 2 {
			return polyline(vectors(s.Vertices), opts)
		}
		if s.From == nil || s.To == nil {
			return nil, fmt.Errorf("%w: a line needs from and to, or vertices", scene.ErrInvalidGeometry)
		}
		return scene.NewLine(s.From.Vector3(), s.To.Vector3(), opts...)
	case scene.KindCube:
		return scene.NewCube(center, or(s.Size, DefaultSize), opts...)
	case scene.KindSphere:
		return scene.NewSphere(center, or(s.Radius, DefaultSize), segments, opts...)
	case scene.KindPyramid:
		if s.Apex == nil {
			return nil, fmt.Errorf("%w: a pyramid needs an apex", scene.ErrInvalidGeometry)
		}
		return scene.NewPyramid(vectors(s.Base), s.Apex.Vector3(), opts...)
	case scene.KindCylinder:
		return scene.NewCylinder(center, or(s.Radius, DefaultSize), or(s.Height, DefaultSize), segments, opts...)
	case scene.KindCone:
		return scene.NewCone(center, or(s.Radius, DefaultSize), or(s.Height, DefaultSize), segments, opts...)
	case scene.KindPlane:
		return scene.NewPlane(center, or(s.Width, DefaultSize), or(s.Depth, DefaultSize), opts...)
	case scene.KindMesh:
		if s.File != "" {
			return d.meshFile(s.File, opts)
		}
		return scene.NewMesh(vectors(s.Vertices), s.Faces, opts...)
	}
	return nil, fmt.Errorf("%w: unsupported kind %s", scene.ErrInvalidGeometry, kind)
}

// polyline builds a line through several points
func polyline(points []geometry.Vector3, opts []scene.ShapeOption) (*scene.Shape, error) {
	s, err := scene.NewLine(points[0], points[1], opts...)
	if err != nil {
		return nil, err
	}
	line := &scene.Shape{
		ID:        s.ID,
		Kind:      scene.KindLine,
		Vertices:  points,
		Material:  s.Material,
		Transform: s.Transform,
	}
	return line, line.Validate()
}

// meshFile imports an STL file as a mesh shape
func (d *Document) meshFile(file string, opts []scene.ShapeOption) (*scene.Shape, error) {
	model, err := stl.Parse(d.resolve(file))
	if err != nil {
		return nil, err
	}
	vertices, faces := model.Mesh()
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable facets", scene.ErrInvalidGeometry, file)
	}
	return scene.NewMesh(vertices, faces, opts...)
}
