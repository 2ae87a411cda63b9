package stl

import (
	"math"

	"github.com/philipparndt/goscene/pkg/geometry"
)

// weldPrecision is the grid vertices are snapped to when welding
const weldPrecision = 1e-6

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// Mesh welds coincident corners into shared vertices and returns indexed
// triangles. Degenerate facets are dropped. When a facet's stored normal
// disagrees with its winding the winding is flipped, so faces can be culled
// by their order alone.
func (m *Model) Mesh() ([]geometry.Vector3, [][]int) {
	type cell [3]int64
	snap := func(v geometry.Vector3) cell {
		return cell{
			int64(math.Round(v.X / weldPrecision)),
			int64(math.Round(v.Y / weldPrecision)),
			int64(math.Round(v.Z / weldPrecision)),
		}
	}

	index := make(map[cell]int)
	var vertices []geometry.Vector3
	weld := func(v geometry.Vector3) int {
		k := snap(v)
		if i, ok := index[k]; ok {
			return i
		}
		index[k] = len(vertices)
		vertices = append(vertices, v)
		return len(vertices) - 1
	}

	faces := make([][]int, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		if t.Degenerate() {
			continue
		}
		a, b, c := weld(t.V1), weld(t.V2), weld(t.V3)
		if a == b || b == c || a == c {
			continue
		}
		if !t.Normal.IsZero() && t.CalculateNormal().Dot(t.Normal) < 0 {
			b, c = c, b
		}
		faces = append(faces, []int{a, b, c})
	}
	return vertices, faces
}
