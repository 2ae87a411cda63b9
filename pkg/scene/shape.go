package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/philipparndt/goscene/pkg/geometry"
)

// Kind identifies how a shape was constructed
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPlane
	KindCube
	KindSphere
	KindCylinder
	KindCone
	KindPyramid
	KindMesh
)

var kindNames = [...]string{
	KindPoint:    "point",
	KindLine:     "line",
	KindPlane:    "plane",
	KindCube:     "cube",
	KindSphere:   "sphere",
	KindCylinder: "cylinder",
	KindCone:     "cone",
	KindPyramid:  "pyramid",
	KindMesh:     "mesh",
}

func (k Kind) String() string {
	if k.valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) valid() bool {
	return k >= KindPoint && k <= KindMesh
}

// ParseKind maps a kind name to its Kind
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", name)
}

// Face is a polygon over shape vertices
type Face struct {
	Indices []int
	Normal  geometry.Vector3
	Color   *Color   // overrides the material color when set
	Opacity *float64 // overrides the material opacity when set
}

// Material describes the surface appearance of a shape
type Material struct {
	Color        Color
	Opacity      float64
	Wireframe    bool
	Shininess    float64
	Reflectivity float64
}

// Validate checks the material ranges
func (m Material) Validate() error {
	if math.IsNaN(m.Opacity) || m.Opacity < 0 || m.Opacity > 1 {
		return fmt.Errorf("%w: opacity %v outside [0,1]", ErrInvalidMaterial, m.Opacity)
	}
	if m.Shininess < 0 || m.Reflectivity < 0 {
		return fmt.Errorf("%w: shininess and reflectivity must not be negative", ErrInvalidMaterial)
	}
	return nil
}

// TransformProperty selects one component of a Transform
type TransformProperty int

const (
	PropertyTranslation TransformProperty = iota
	PropertyRotation
	PropertyScale
)

func (p TransformProperty) String() string {
	switch p {
	case PropertyTranslation:
		return "translation"
	case PropertyRotation:
		return "rotation"
	case PropertyScale:
		return "scale"
	default:
		return fmt.Sprintf("property(%d)", int(p))
	}
}

// ParseProperty maps a property name to its TransformProperty
func ParseProperty(name string) (TransformProperty, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "translation", "position":
		return PropertyTranslation, nil
	case "rotation":
		return PropertyRotation, nil
	case "scale":
		return PropertyScale, nil
	default:
		return 0, fmt.Errorf("unknown transform property %q", name)
	}
}

// Get returns the value of one transform property
func (p TransformProperty) Get(t geometry.Transform) (geometry.Vector3, error) {
	switch p {
	case PropertyTranslation:
		return t.Translation, nil
	case PropertyRotation:
		return t.Rotation, nil
	case PropertyScale:
		return t.Scale, nil
	default:
		return geometry.Vector3{}, fmt.Errorf("unknown transform property %s", p)
	}
}

// Set returns t with one property replaced
func (p TransformProperty) Set(t geometry.Transform, v geometry.Vector3) (geometry.Transform, error) {
	switch p {
	case PropertyTranslation:
		t.Translation = v
	case PropertyRotation:
		t.Rotation = v
	case PropertyScale:
		t.Scale = v
	default:
		return t, fmt.Errorf("unknown transform property %s", p)
	}
	return t, nil
}

// Shape is a vertex/face graph with a material and a pose
type Shape struct {
	ID        string
	Kind      Kind
	Vertices  []geometry.Vector3
	Faces     []Face
	Material  Material
	Transform geometry.Transform

	pivot    geometry.Vector3
	hasPivot bool
}

// Validate checks kind closure, the face index invariant and the material
func (s *Shape) Validate() error {
	if !s.Kind.valid() {
		return geometryError(s.ID, "unknown kind %s", s.Kind)
	}
	if len(s.Vertices) == 0 {
		return geometryError(s.ID, "no vertices")
	}
	if s.Kind == KindLine && len(s.Vertices) < 2 {
		return geometryError(s.ID, "a line needs at least 2 vertices")
	}
	for i, v := range s.Vertices {
		if !finite(v) {
			return &GeometryError{ShapeID: s.ID, Face: -1, Index: i, Reason: "vertex is not finite"}
		}
	}
	for f, face := range s.Faces {
		if len(face.Indices) < 3 {
			return &GeometryError{ShapeID: s.ID, Face: f, Index: -1, Reason: fmt.Sprintf("face has %d indices, need at least 3", len(face.Indices))}
		}
		for _, idx := range face.Indices {
			if idx < 0 || idx >= len(s.Vertices) {
				return &GeometryError{ShapeID: s.ID, Face: f, Index: idx, Reason: fmt.Sprintf("out of range [0,%d)", len(s.Vertices))}
			}
		}
		if face.Opacity != nil && (*face.Opacity < 0 || *face.Opacity > 1) {
			return &GeometryError{ShapeID: s.ID, Face: f, Index: -1, Reason: "opacity override outside [0,1]"}
		}
	}
	if err := s.Material.Validate(); err != nil {
		return fmt.Errorf("shape %q: %w", s.ID, err)
	}
	return nil
}

// Pivot returns the point that rotation and scale are applied around
func (s *Shape) Pivot() geometry.Vector3 {
	if !s.hasPivot {
		return geometry.Centroid(s.Vertices)
	}
	return s.pivot
}

// FaceVertices returns the construction-space vertices of one face
func (s *Shape) FaceVertices(face int) []geometry.Vector3 {
	f := s.Faces[face]
	points := make([]geometry.Vector3, len(f.Indices))
	for i, idx := range f.Indices {
		points[i] = s.Vertices[idx]
	}
	return points
}

// WorldVertices returns the vertices with the shape transform applied
func (s *Shape) WorldVertices() []geometry.Vector3 {
	poser := geometry.NewPoser(s.Transform, s.Pivot())
	out := make([]geometry.Vector3, len(s.Vertices))
	for i, v := range s.Vertices {
		out[i] = poser.Point(v)
	}
	return out
}

// Bounds returns the bounding box of the transformed vertices
func (s *Shape) Bounds() geometry.BoundingBox {
	return geometry.BoundsOf(s.WorldVertices()...)
}

// Clone returns a deep copy
func (s *Shape) Clone() *Shape {
	c := *s
	c.Vertices = append([]geometry.Vector3(nil), s.Vertices...)
	c.Faces = make([]Face, len(s.Faces))
	for i, f := range s.Faces {
		c.Faces[i] = f
		c.Faces[i].Indices = append([]int(nil), f.Indices...)
		if f.Color != nil {
			color := *f.Color
			c.Faces[i].Color = &color
		}
		if f.Opacity != nil {
			opacity := *f.Opacity
			c.Faces[i].Opacity = &opacity
		}
	}
	return &c
}

func finite(v geometry.Vector3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
