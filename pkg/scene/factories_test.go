package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goscene/pkg/geometry"
)

func TestNewCube(t *testing.T) {
	cube, err := NewCube(geometry.Vector3{}, 2)
	require.NoError(t, err)

	require.Len(t, cube.Vertices, 8)
	for _, v := range cube.Vertices {
		assert.InDelta(t, math.Sqrt(3), v.Length(), 1e-12)
	}
	require.Len(t, cube.Faces, 6)
	for _, f := range cube.Faces {
		assert.Len(t, f.Indices, 4)
	}
	assert.Equal(t, KindCube, cube.Kind)
	assert.Equal(t, DefaultMaterial(KindCube), cube.Material)
	assert.True(t, cube.Transform.IsIdentity())
	assert.NotEmpty(t, cube.ID)
}

func TestNewSphereVerticesOnSurface(t *testing.T) {
	center := geometry.NewVector3(1, -2, 3)
	sphere, err := NewSphere(center, 2.5, 8)
	require.NoError(t, err)

	require.Len(t, sphere.Vertices, 81)
	for _, v := range sphere.Vertices {
		assert.InDelta(t, 2.5, v.Distance(center), 1e-9)
	}
	// two triangles per cell minus one per cell in each polar row
	assert.Len(t, sphere.Faces, 2*8*8-2*8)
	assert.Equal(t, center, sphere.Pivot())
}

func TestNewSphereRejectsTooFewSegments(t *testing.T) {
	_, err := NewSphere(geometry.Vector3{}, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestNewPyramid(t *testing.T) {
	base := []geometry.Vector3{
		geometry.NewVector3(-1, 0, -1),
		geometry.NewVector3(1, 0, -1),
		geometry.NewVector3(1, 0, 1),
		geometry.NewVector3(-1, 0, 1),
	}
	pyramid, err := NewPyramid(base, geometry.NewVector3(0, 2, 0))
	require.NoError(t, err)

	require.Len(t, pyramid.Vertices, 5)
	require.Len(t, pyramid.Faces, 5)
	assert.Equal(t, []int{0, 1, 2, 3}, pyramid.Faces[0].Indices)
	assert.InDelta(t, -1, pyramid.Faces[0].Normal.Y, 1e-12)
	for _, f := range pyramid.Faces[1:] {
		assert.Len(t, f.Indices, 3)
		assert.Equal(t, 4, f.Indices[2])
	}
}

func TestNewPyramidReversesBaseFacingApex(t *testing.T) {
	base := []geometry.Vector3{
		geometry.NewVector3(-1, 0, 1),
		geometry.NewVector3(1, 0, 1),
		geometry.NewVector3(1, 0, -1),
		geometry.NewVector3(-1, 0, -1),
	}
	pyramid, err := NewPyramid(base, geometry.NewVector3(0, 2, 0))
	require.NoError(t, err)

	assert.Equal(t, base, pyramid.Vertices[:4])
	assert.Equal(t, []int{3, 2, 1, 0}, pyramid.Faces[0].Indices)
	assert.InDelta(t, -1, pyramid.Faces[0].Normal.Y, 1e-12)
}

func TestNewPyramidRejectsFlatInput(t *testing.T) {
	_, err := NewPyramid([]geometry.Vector3{{}, geometry.NewVector3(1, 0, 0)}, geometry.NewVector3(0, 1, 0))
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	base := []geometry.Vector3{{}, geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 0, 1)}
	_, err = NewPyramid(base, geometry.NewVector3(1, 0, 1))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

// Every factory face must wind counter-clockwise seen from outside, carry
// the matching unit normal and point away from the shape's pivot.
func TestFactoryWindingIsOutward(t *testing.T) {
	center := geometry.NewVector3(0.5, -1, 2)
	base := []geometry.Vector3{
		geometry.NewVector3(-1, 0, 1),
		geometry.NewVector3(1, 0, 1),
		geometry.NewVector3(1, 0, -1),
		geometry.NewVector3(-1, 0, -1),
	}

	build := map[string]func() (*Shape, error){
		"cube":     func() (*Shape, error) { return NewCube(center, 1.5) },
		"sphere":   func() (*Shape, error) { return NewSphere(center, 2, 12) },
		"sphere-3": func() (*Shape, error) { return NewSphere(center, 1, 3) },
		"pyramid":  func() (*Shape, error) { return NewPyramid(base, geometry.NewVector3(0, 3, 0)) },
		"pyramid-reversed": func() (*Shape, error) {
			reversed := []geometry.Vector3{base[3], base[2], base[1], base[0]}
			return NewPyramid(reversed, geometry.NewVector3(0, 3, 0))
		},
		"cylinder": func() (*Shape, error) { return NewCylinder(center, 1, 3, 16) },
		"cone":     func() (*Shape, error) { return NewCone(center, 1, 3, 16) },
		"plane":    func() (*Shape, error) { return NewPlane(center, 4, 2) },
	}

	for name, fn := range build {
		t.Run(name, func(t *testing.T) {
			s, err := fn()
			require.NoError(t, err)
			for i, face := range s.Faces {
				points := s.FaceVertices(i)
				winding := geometry.PolygonNormal(points)
				assert.InDelta(t, 1, face.Normal.Length(), 1e-9, "face %d normal is not unit length", i)
				assert.Greater(t, winding.Dot(face.Normal), 0.999, "face %d winding disagrees with its normal", i)
				if s.Kind == KindPlane {
					continue
				}
				outward := geometry.Centroid(points).Sub(s.Pivot())
				assert.Greater(t, outward.Dot(face.Normal), 0.0, "face %d points inward", i)
			}
		})
	}
}

func TestNewMesh(t *testing.T) {
	vertices := []geometry.Vector3{{}, geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)}
	mesh, err := NewMesh(vertices, [][]int{{0, 1, 2}}, WithID("tri"))
	require.NoError(t, err)
	assert.Equal(t, "tri", mesh.ID)
	assert.InDelta(t, 1, mesh.Faces[0].Normal.Z, 1e-12)

	_, err = NewMesh(vertices, [][]int{{0, 1, 5}})
	var geomErr *GeometryError
	require.True(t, errors.As(err, &geomErr))
	assert.Equal(t, 0, geomErr.Face)
	assert.Equal(t, 5, geomErr.Index)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewMesh(vertices, [][]int{{0, 1}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestShapeOptions(t *testing.T) {
	tr := geometry.IdentityTransform()
	tr.Translation = geometry.NewVector3(1, 2, 3)

	cube, err := NewCube(geometry.Vector3{}, 1,
		WithID("box"),
		WithColor(RGB(1, 2, 3)),
		WithOpacity(0.5),
		WithWireframe(true),
		WithShininess(12),
		WithReflectivity(0.25),
		WithTransform(tr),
	)
	require.NoError(t, err)
	assert.Equal(t, "box", cube.ID)
	assert.Equal(t, Material{Color: RGB(1, 2, 3), Opacity: 0.5, Wireframe: true, Shininess: 12, Reflectivity: 0.25}, cube.Material)
	assert.Equal(t, tr, cube.Transform)

	bounds := cube.Bounds()
	assert.InDelta(t, 1, bounds.Center().X, 1e-12)
	assert.InDelta(t, 3, bounds.Center().Z, 1e-12)

	_, err = NewCube(geometry.Vector3{}, 1, WithOpacity(1.5))
	assert.ErrorIs(t, err, ErrInvalidMaterial)
}

func TestShapeValidate(t *testing.T) {
	s := &Shape{ID: "bad", Kind: Kind(42), Vertices: []geometry.Vector3{{}}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidGeometry)

	s = &Shape{ID: "line", Kind: KindLine, Vertices: []geometry.Vector3{{}}, Material: DefaultMaterial(KindLine)}
	assert.ErrorIs(t, s.Validate(), ErrInvalidGeometry)

	s = &Shape{ID: "nan", Kind: KindPoint, Vertices: []geometry.Vector3{{X: math.NaN()}}, Material: DefaultMaterial(KindPoint)}
	assert.ErrorIs(t, s.Validate(), ErrInvalidGeometry)
}

func TestParseKind(t *testing.T) {
	for k := KindPoint; k <= KindMesh; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("torus")
	assert.Error(t, err)
}

func TestTransformPropertyGetSet(t *testing.T) {
	v := geometry.NewVector3(1, 2, 3)
	for _, p := range []TransformProperty{PropertyTranslation, PropertyRotation, PropertyScale} {
		tr, err := p.Set(geometry.IdentityTransform(), v)
		require.NoError(t, err)
		got, err := p.Get(tr)
		require.NoError(t, err)
		assert.Equal(t, v, got, p.String())
	}

	p, err := ParseProperty("position")
	require.NoError(t, err)
	assert.Equal(t, PropertyTranslation, p)
	_, err = TransformProperty(9).Set(geometry.IdentityTransform(), v)
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#3498db")
	require.NoError(t, err)
	assert.Equal(t, RGB(0x34, 0x98, 0xdb), c)
	assert.Equal(t, "#3498db", c.Hex())

	c, err = ParseColor("fff")
	require.NoError(t, err)
	assert.Equal(t, White, c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
}
