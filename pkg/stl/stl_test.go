package stl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goscene/pkg/geometry"
)

const twoFacets = `solid wedge
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid wedge
`

func unitCube() *Model {
	c := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0), geometry.NewVector3(0, 1, 0),
		geometry.NewVector3(0, 0, 1), geometry.NewVector3(1, 0, 1),
		geometry.NewVector3(1, 1, 1), geometry.NewVector3(0, 1, 1),
	}
	quads := [][4]int{
		{4, 5, 6, 7}, {0, 3, 2, 1}, {1, 2, 6, 5},
		{0, 4, 7, 3}, {3, 7, 6, 2}, {0, 1, 5, 4},
	}
	m := NewModel("cube")
	for _, q := range quads {
		for _, tri := range [][3]int{{q[0], q[1], q[2]}, {q[0], q[2], q[3]}} {
			t := geometry.NewTriangle(geometry.Vector3{}, c[tri[0]], c[tri[1]], c[tri[2]])
			t.Normal = t.CalculateNormal()
			m.AddTriangle(t)
		}
	}
	return m
}

func TestParseASCII(t *testing.T) {
	m, err := ParseReader(strings.NewReader(twoFacets))
	require.NoError(t, err)
	assert.Equal(t, "wedge", m.Name)
	assert.Equal(t, 2, m.TriangleCount())
	assert.InDelta(t, 1.0, m.SurfaceArea(), 1e-12)

	bbox := m.BoundingBox()
	assert.Equal(t, geometry.NewVector3(1, 1, 0), bbox.Size())
	assert.Equal(t, geometry.NewVector3(0, 0, 1), m.Triangles[1].Normal)
}

func TestParseASCIIMalformed(t *testing.T) {
	bad := strings.Replace(twoFacets, "vertex 1 1 0", "vertex 1 x 0", 1)
	_, err := ParseReader(strings.NewReader(bad))
	assert.ErrorIs(t, err, ErrMalformed)

	short := strings.Replace(twoFacets, "      vertex 1 1 0\n", "", 1)
	_, err = ParseReader(strings.NewReader(short))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBinaryRoundTrip(t *testing.T) {
	cube := unitCube()
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, cube))
	assert.Equal(t, 84+50*12, buf.Len())

	m, err := ParseReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "cube", m.Name)
	require.Equal(t, 12, m.TriangleCount())
	assert.InDelta(t, 6.0, m.SurfaceArea(), 1e-9)
	for i, tri := range m.Triangles {
		assert.Equal(t, cube.Triangles[i].V1, tri.V1)
		assert.Equal(t, cube.Triangles[i].Normal, tri.Normal)
	}
}

func TestBinaryHeaderStartingWithSolid(t *testing.T) {
	cube := unitCube()
	cube.Name = "solid but binary"
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, cube))

	m, err := ParseReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 12, m.TriangleCount())
}

func TestParseBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, unitCube()))
	data := buf.Bytes()[:buf.Len()-10]

	_, err := ParseReader(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseReader(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wedge.stl")
	require.NoError(t, os.WriteFile(path, []byte(twoFacets), 0o644))

	m, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TriangleCount())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestMeshWeldsVertices(t *testing.T) {
	vertices, faces := unitCube().Mesh()
	assert.Len(t, vertices, 8)
	require.Len(t, faces, 12)
	for _, f := range faces {
		n := geometry.PolygonNormal([]geometry.Vector3{vertices[f[0]], vertices[f[1]], vertices[f[2]]})
		outward := vertices[f[0]].Sub(geometry.NewVector3(0.5, 0.5, 0.5))
		assert.Positive(t, n.Dot(outward), "face %v winds inward", f)
	}
}

func TestMeshFixesWindingAndDropsDegenerate(t *testing.T) {
	m := NewModel("")
	a, b, c := geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)
	m.AddTriangle(geometry.NewTriangle(geometry.NewVector3(0, 0, -1), a, b, c))
	m.AddTriangle(geometry.NewTriangle(geometry.Vector3{}, a, a, b))
	m.AddTriangle(geometry.NewTriangle(geometry.Vector3{}, a, b, geometry.NewVector3(2, 0, 0)))

	vertices, faces := m.Mesh()
	require.Len(t, faces, 1)
	assert.Equal(t, []int{0, 2, 1}, faces[0])
	assert.Len(t, vertices, 3)
}
