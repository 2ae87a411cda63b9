package scene

import (
	"math"

	"github.com/google/uuid"

	"github.com/philipparndt/goscene/pkg/geometry"
)

// ShapeOption customizes a shape created by a factory
type ShapeOption func(*Shape)

// WithID sets the shape id
func WithID(id string) ShapeOption {
	return func(s *Shape) { s.ID = id }
}

// WithColor sets the material color
func WithColor(c Color) ShapeOption {
	return func(s *Shape) { s.Material.Color = c }
}

// WithOpacity sets the material opacity
func WithOpacity(opacity float64) ShapeOption {
	return func(s *Shape) { s.Material.Opacity = opacity }
}

// WithWireframe toggles wireframe edges
func WithWireframe(on bool) ShapeOption {
	return func(s *Shape) { s.Material.Wireframe = on }
}

// WithShininess sets the specular exponent
func WithShininess(shininess float64) ShapeOption {
	return func(s *Shape) { s.Material.Shininess = shininess }
}

// WithReflectivity sets the specular weight
func WithReflectivity(reflectivity float64) ShapeOption {
	return func(s *Shape) { s.Material.Reflectivity = reflectivity }
}

// WithMaterial replaces the whole material
func WithMaterial(m Material) ShapeOption {
	return func(s *Shape) { s.Material = m }
}

// WithTransform sets the initial pose
func WithTransform(t geometry.Transform) ShapeOption {
	return func(s *Shape) { s.Transform = t }
}

// DefaultMaterial returns the material a factory uses for a kind
func DefaultMaterial(kind Kind) Material {
	m := Material{Opacity: 1, Shininess: 30}
	switch kind {
	case KindPoint, KindLine:
		m.Color = RGB(52, 73, 94)
	case KindPlane:
		m.Color = RGB(189, 195, 199)
	case KindCube:
		m.Color = RGB(52, 152, 219)
	case KindSphere:
		m.Color = RGB(231, 76, 60)
	case KindCylinder:
		m.Color = RGB(155, 89, 182)
	case KindCone:
		m.Color = RGB(241, 196, 15)
	case KindPyramid:
		m.Color = RGB(46, 204, 113)
	case KindMesh:
		m.Color = RGB(149, 165, 166)
	}
	return m
}

func newShape(kind Kind, vertices []geometry.Vector3, faces []Face, opts []ShapeOption) (*Shape, error) {
	s := &Shape{
		Kind:      kind,
		Vertices:  vertices,
		Faces:     faces,
		Material:  DefaultMaterial(kind),
		Transform: geometry.IdentityTransform(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.pivot, s.hasPivot = geometry.Centroid(s.Vertices), true
	return s, nil
}

// centeredOn returns a wrapper that sets the pivot of a symmetric shape to its
// construction center
func centeredOn(center geometry.Vector3) func(*Shape, error) (*Shape, error) {
	return func(s *Shape, err error) (*Shape, error) {
		if err != nil {
			return nil, err
		}
		s.pivot = center
		return s, nil
	}
}

// polygonFace builds a face whose normal follows its winding
func polygonFace(vertices []geometry.Vector3, indices ...int) Face {
	points := make([]geometry.Vector3, len(indices))
	for i, idx := range indices {
		points[i] = vertices[idx]
	}
	return Face{Indices: indices, Normal: geometry.PolygonNormal(points)}
}

// NewCube creates an axis-aligned cube
func NewCube(center geometry.Vector3, size float64, opts ...ShapeOption) (*Shape, error) {
	if !(size > 0) {
		return nil, geometryError("", "cube size must be positive, got %v", size)
	}
	h := size / 2
	vertices := []geometry.Vector3{
		center.Add(geometry.NewVector3(-h, -h, -h)),
		center.Add(geometry.NewVector3(h, -h, -h)),
		center.Add(geometry.NewVector3(h, h, -h)),
		center.Add(geometry.NewVector3(-h, h, -h)),
		center.Add(geometry.NewVector3(-h, -h, h)),
		center.Add(geometry.NewVector3(h, -h, h)),
		center.Add(geometry.NewVector3(h, h, h)),
		center.Add(geometry.NewVector3(-h, h, h)),
	}
	faces := []Face{
		{Indices: []int{4, 5, 6, 7}, Normal: geometry.NewVector3(0, 0, 1)},  // front
		{Indices: []int{0, 3, 2, 1}, Normal: geometry.NewVector3(0, 0, -1)}, // back
		{Indices: []int{1, 2, 6, 5}, Normal: geometry.NewVector3(1, 0, 0)},  // right
		{Indices: []int{0, 4, 7, 3}, Normal: geometry.NewVector3(-1, 0, 0)}, // left
		{Indices: []int{3, 7, 6, 2}, Normal: geometry.NewVector3(0, 1, 0)},  // top
		{Indices: []int{0, 1, 5, 4}, Normal: geometry.NewVector3(0, -1, 0)}, // bottom
	}
	return centeredOn(center)(newShape(KindCube, vertices, faces, opts))
}

// NewSphere creates a UV sphere with segments latitude and longitude bands
func NewSphere(center geometry.Vector3, radius float64, segments int, opts ...ShapeOption) (*Shape, error) {
	if !(radius > 0) {
		return nil, geometryError("", "sphere radius must be positive, got %v", radius)
	}
	if segments < 3 {
		return nil, geometryError("", "sphere needs at least 3 segments, got %d", segments)
	}

	row := segments + 1
	vertices := make([]geometry.Vector3, 0, row*row)
	for lat := 0; lat <= segments; lat++ {
		theta := float64(lat) * math.Pi / float64(segments)
		for lon := 0; lon <= segments; lon++ {
			phi := float64(lon) * 2 * math.Pi / float64(segments)
			unit := geometry.NewVector3(
				math.Sin(theta)*math.Cos(phi),
				math.Cos(theta),
				math.Sin(theta)*math.Sin(phi),
			)
			vertices = append(vertices, unit.Scale(radius).Add(center))
		}
	}

	faces := make([]Face, 0, 2*segments*segments)
	for lat := 0; lat < segments; lat++ {
		for lon := 0; lon < segments; lon++ {
			a := lat*row + lon
			b := a + row
			c := b + 1
			d := a + 1
			for _, tri := range [2][3]int{{a, d, c}, {a, c, b}} {
				t := geometry.Triangle{V1: vertices[tri[0]], V2: vertices[tri[1]], V3: vertices[tri[2]]}
				// pole cells collapse one triangle to a segment
				if t.Degenerate() {
					continue
				}
				faces = append(faces, Face{Indices: []int{tri[0], tri[1], tri[2]}, Normal: t.CalculateNormal()})
			}
		}
	}
	return centeredOn(center)(newShape(KindSphere, vertices, faces, opts))
}

// NewPyramid creates a pyramid from a base polygon and an apex
func NewPyramid(base []geometry.Vector3, apex geometry.Vector3, opts ...ShapeOption) (*Shape, error) {
	n := len(base)
	if n < 3 {
		return nil, geometryError("", "pyramid base needs at least 3 points, got %d", n)
	}
	baseNormal := geometry.Triangle{V1: base[0], V2: base[1], V3: base[2]}.CalculateNormal()
	if baseNormal.IsZero() {
		return nil, geometryError("", "pyramid base starts with collinear points")
	}
	if math.Abs(baseNormal.Dot(apex.Sub(base[0]))) < 1e-12 {
		return nil, geometryError("", "pyramid apex lies in the base plane")
	}

	vertices := make([]geometry.Vector3, 0, n+1)
	vertices = append(vertices, base...)
	vertices = append(vertices, apex)

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	// the base must face away from the apex
	if baseNormal.Dot(apex.Sub(base[0])) > 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
		baseNormal = baseNormal.Scale(-1)
	}

	faces := make([]Face, 0, n+1)
	faces = append(faces, Face{Indices: indices, Normal: baseNormal})
	for i := 0; i < n; i++ {
		from, to := indices[i], indices[(i+1)%n]
		faces = append(faces, polygonFace(vertices, to, from, n))
	}
	return newShape(KindPyramid, vertices, faces, opts)
}

// ring returns segments points on a horizontal circle
func ring(center geometry.Vector3, radius, y float64, segments int) []geometry.Vector3 {
	points := make([]geometry.Vector3, segments)
	for k := range points {
		a := float64(k) * 2 * math.Pi / float64(segments)
		points[k] = geometry.NewVector3(center.X+radius*math.Cos(a), y, center.Z+radius*math.Sin(a))
	}
	return points
}

// NewCylinder creates a Y-aligned cylinder centered at center
func NewCylinder(center geometry.Vector3, radius, height float64, segments int, opts ...ShapeOption) (*Shape, error) {
	if !(radius > 0) || !(height > 0) {
		return nil, geometryError("", "cylinder radius and height must be positive")
	}
	if segments < 3 {
		return nil, geometryError("", "cylinder needs at least 3 segments, got %d", segments)
	}
	bottom := ring(center, radius, center.Y-height/2, segments)
	top := ring(center, radius, center.Y+height/2, segments)
	vertices := append(bottom, top...)

	faces := make([]Face, 0, segments+2)
	for k := 0; k < segments; k++ {
		next := (k + 1) % segments
		faces = append(faces, polygonFace(vertices, k, segments+k, segments+next, next))
	}
	bottomCap := make([]int, segments)
	topCap := make([]int, segments)
	for k := 0; k < segments; k++ {
		bottomCap[k] = k
		topCap[k] = 2*segments - 1 - k
	}
	faces = append(faces,
		Face{Indices: bottomCap, Normal: geometry.NewVector3(0, -1, 0)},
		Face{Indices: topCap, Normal: geometry.NewVector3(0, 1, 0)},
	)
	return centeredOn(center)(newShape(KindCylinder, vertices, faces, opts))
}

// NewCone creates a Y-aligned cone with its base below and apex above center
func NewCone(center geometry.Vector3, radius, height float64, segments int, opts ...ShapeOption) (*Shape, error) {
	if !(radius > 0) || !(height > 0) {
		return nil, geometryError("", "cone radius and height must be positive")
	}
	if segments < 3 {
		return nil, geometryError("", "cone needs at least 3 segments, got %d", segments)
	}
	vertices := ring(center, radius, center.Y-height/2, segments)
	vertices = append(vertices, geometry.NewVector3(center.X, center.Y+height/2, center.Z))
	apex := segments

	faces := make([]Face, 0, segments+1)
	for k := 0; k < segments; k++ {
		faces = append(faces, polygonFace(vertices, k, apex, (k+1)%segments))
	}
	baseCap := make([]int, segments)
	for k := range baseCap {
		baseCap[k] = k
	}
	faces = append(faces, Face{Indices: baseCap, Normal: geometry.NewVector3(0, -1, 0)})
	return centeredOn(center)(newShape(KindCone, vertices, faces, opts))
}

// NewPlane creates a horizontal quad facing +Y
func NewPlane(center geometry.Vector3, width, depth float64, opts ...ShapeOption) (*Shape, error) {
	if !(width > 0) || !(depth > 0) {
		return nil, geometryError("", "plane width and depth must be positive")
	}
	w, d := width/2, depth/2
	vertices := []geometry.Vector3{
		center.Add(geometry.NewVector3(-w, 0, -d)),
		center.Add(geometry.NewVector3(-w, 0, d)),
		center.Add(geometry.NewVector3(w, 0, d)),
		center.Add(geometry.NewVector3(w, 0, -d)),
	}
	faces := []Face{{Indices: []int{0, 1, 2, 3}, Normal: geometry.NewVector3(0, 1, 0)}}
	return centeredOn(center)(newShape(KindPlane, vertices, faces, opts))
}

// NewLine creates a line segment
func NewLine(from, to geometry.Vector3, opts ...ShapeOption) (*Shape, error) {
	return newShape(KindLine, []geometry.Vector3{from, to}, nil, opts)
}

// NewPoint creates a single point marker
func NewPoint(at geometry.Vector3, opts ...ShapeOption) (*Shape, error) {
	return newShape(KindPoint, []geometry.Vector3{at}, nil, opts)
}

// NewMesh creates a shape from explicit vertices and faces. Face normals
// follow the winding of each face.
func NewMesh(vertices []geometry.Vector3, faces [][]int, opts ...ShapeOption) (*Shape, error) {
	out := make([]Face, len(faces))
	for f, indices := range faces {
		out[f] = Face{Indices: append([]int(nil), indices...)}
		if len(indices) < 3 {
			continue // rejected by Validate
		}
		points := make([]geometry.Vector3, 0, len(indices))
		for _, idx := range indices {
			if idx < 0 || idx >= len(vertices) {
				return nil, &GeometryError{Face: f, Index: idx, Reason: "out of range"}
			}
			points = append(points, vertices[idx])
		}
		out[f].Normal = geometry.PolygonNormal(points)
	}
	return newShape(KindMesh, append([]geometry.Vector3(nil), vertices...), out, opts)
}
