package analysis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goscene/pkg/geometry"
	"github.com/philipparndt/goscene/pkg/scene"
	"github.com/philipparndt/goscene/pkg/stl"
)

func TestAnalyzeCube(t *testing.T) {
	cube, err := scene.NewCube(geometry.Vector3{}, 2, scene.WithID("cube"))
	require.NoError(t, err)

	stats := AnalyzeShape(cube)
	assert.Equal(t, "cube", stats.ID)
	assert.Equal(t, "cube", stats.Kind)
	assert.Equal(t, 8, stats.Vertices)
	assert.Equal(t, 6, stats.Faces)
	assert.Equal(t, 12, stats.Triangles)
	assert.Equal(t, 12, stats.EdgeCount)
	assert.InDelta(t, 24.0, stats.SurfaceArea, 1e-9)
	assert.InDelta(t, 2.0, stats.MinEdgeLength, 1e-12)
	assert.InDelta(t, 2.0, stats.MaxEdgeLength, 1e-12)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), stats.Dimensions())
}

func TestAnalyzeUsesWorldSpace(t *testing.T) {
	tr := geometry.IdentityTransform()
	tr.Scale = geometry.NewVector3(2, 2, 2)
	tr.Translation = geometry.NewVector3(5, 0, 0)
	cube, err := scene.NewCube(geometry.Vector3{}, 1, scene.WithTransform(tr))
	require.NoError(t, err)

	stats := AnalyzeShape(cube)
	assert.InDelta(t, 24.0, stats.SurfaceArea, 1e-9)
	assert.InDelta(t, 5.0, stats.Bounds.Center().X, 1e-9)
	assert.InDelta(t, 2.0, stats.Dimensions().Y, 1e-9)
}

func TestAnalyzeScene(t *testing.T) {
	cube, err := scene.NewCube(geometry.Vector3{}, 1, scene.WithID("b-cube"))
	require.NoError(t, err)
	line, err := scene.NewLine(geometry.NewVector3(0, 0, 0), geometry.NewVector3(3, 4, 0), scene.WithID("a-line"))
	require.NoError(t, err)
	point, err := scene.NewPoint(geometry.NewVector3(-2, 0, 0), scene.WithID("c-point"))
	require.NoError(t, err)

	summary := AnalyzeScene([]*scene.Shape{cube, line, point})
	require.Len(t, summary.Shapes, 3)
	assert.Equal(t, "a-line", summary.Shapes[0].ID)
	assert.Equal(t, 1, summary.Shapes[0].EdgeCount)
	assert.InDelta(t, 5.0, summary.Shapes[0].AvgEdgeLength, 1e-12)
	assert.Zero(t, summary.Shapes[2].EdgeCount)

	total := summary.Total
	assert.Equal(t, 8+2+1, total.Vertices)
	assert.Equal(t, 13, total.EdgeCount)
	assert.InDelta(t, 6.0, total.SurfaceArea, 1e-9)
	assert.InDelta(t, 1.0, total.MinEdgeLength, 1e-12)
	assert.InDelta(t, 5.0, total.MaxEdgeLength, 1e-12)
	assert.InDelta(t, -2.0, total.Bounds.Min.X, 1e-12)
	assert.InDelta(t, 3.0, total.Bounds.Max.X, 1e-12)

	longest := FindLongestEdges(total, 2)
	require.Len(t, longest, 2)
	assert.Equal(t, "a-line", longest[0].ShapeID)
	assert.Len(t, FindShortestEdges(total, 100), 13)
	assert.Len(t, FindEdgesByLength(total, 0.5, 1.5), 12)
}

func TestAnalyzeEmptyScene(t *testing.T) {
	summary := AnalyzeScene(nil)
	assert.Empty(t, summary.Shapes)
	assert.Zero(t, summary.Total.EdgeCount)
	assert.Equal(t, geometry.Vector3{}, summary.Total.Dimensions())
}

func TestAnalyzeModel(t *testing.T) {
	const wedge = `solid wedge
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
	model, err := stl.ParseReader(bytes.NewBufferString(wedge))
	require.NoError(t, err)

	stats, err := AnalyzeModel(model)
	require.NoError(t, err)
	assert.Equal(t, "wedge", stats.ID)
	assert.Equal(t, 4, stats.Vertices)
	assert.Equal(t, 2, stats.Triangles)
	assert.Equal(t, 5, stats.EdgeCount)
	assert.InDelta(t, 1.0, stats.SurfaceArea, 1e-12)

	_, err = AnalyzeModel(stl.NewModel("empty"))
	assert.ErrorIs(t, err, scene.ErrInvalidGeometry)
}

func TestFindNearestVertex(t *testing.T) {
	cube, err := scene.NewCube(geometry.Vector3{}, 2, scene.WithID("cube"))
	require.NoError(t, err)

	id, v, d := FindNearestVertex([]*scene.Shape{cube}, geometry.NewVector3(3, 3, 3))
	assert.Equal(t, "cube", id)
	assert.InDelta(t, 0, v.Distance(geometry.NewVector3(1, 1, 1)), 1e-12)
	assert.InDelta(t, geometry.NewVector3(2, 2, 2).Length(), d, 1e-12)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.500000 units", FormatMeasurement(1.5, ""))
	assert.Equal(t, "(1.000000, 2.000000, 3.000000)", FormatVector(geometry.NewVector3(1, 2, 3)))
}
