package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/goscene/pkg/geometry"
	"github.com/philipparndt/goscene/pkg/scene"
	"github.com/philipparndt/goscene/pkg/stl"
)

// EdgeInfo contains information about an edge of a shape
type EdgeInfo struct {
	ShapeID string
	Start   geometry.Vector3
	End     geometry.Vector3
	Length  float64
}

// ShapeStats contains the measurements of one shape in world space
type ShapeStats struct {
	ID            string
	Kind          string
	Vertices      int
	Faces         int
	Triangles     int
	EdgeCount     int
	SurfaceArea   float64
	Bounds        geometry.BoundingBox
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	Edges         []EdgeInfo
}

// Dimensions returns the size of the shape bounds
func (s ShapeStats) Dimensions() geometry.Vector3 {
	if s.Bounds.Empty() {
		return geometry.Vector3{}
	}
	return s.Bounds.Size()
}

// Summary aggregates the statistics of a whole scene
type Summary struct {
	Shapes []ShapeStats
	Total  ShapeStats
}

type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// shapeEdges lists the unique edges of a shape as vertex index pairs, in
// order of first appearance
func shapeEdges(s *scene.Shape) []edgeKey {
	var edges []edgeKey
	seen := make(map[edgeKey]bool)
	add := func(a, b int) {
		k := newEdgeKey(a, b)
		if a == b || seen[k] {
			return
		}
		seen[k] = true
		edges = append(edges, k)
	}

	if s.Kind == scene.KindLine {
		for i := 0; i+1 < len(s.Vertices); i++ {
			add(i, i+1)
		}
		return edges
	}
	for _, f := range s.Faces {
		for i, idx := range f.Indices {
			add(idx, f.Indices[(i+1)%len(f.Indices)])
		}
	}
	return edges
}

// AnalyzeShape measures a shape after its transform is applied
func AnalyzeShape(s *scene.Shape) ShapeStats {
	world := s.WorldVertices()
	stats := ShapeStats{
		ID:       s.ID,
		Kind:     s.Kind.String(),
		Vertices: len(s.Vertices),
		Faces:    len(s.Faces),
		Bounds:   geometry.BoundsOf(world...),
	}

	for _, f := range s.Faces {
		stats.Triangles += len(f.Indices) - 2
		points := make([]geometry.Vector3, len(f.Indices))
		for i, idx := range f.Indices {
			points[i] = world[idx]
		}
		stats.SurfaceArea += geometry.PolygonArea(points)
	}

	for _, e := range shapeEdges(s) {
		start, end := world[e.a], world[e.b]
		stats.Edges = append(stats.Edges, EdgeInfo{
			ShapeID: s.ID,
			Start:   start,
			End:     end,
			Length:  start.Distance(end),
		})
	}
	summarizeEdges(&stats)
	return stats
}

func summarizeEdges(stats *ShapeStats) {
	stats.EdgeCount = len(stats.Edges)
	if stats.EdgeCount == 0 {
		stats.MinEdgeLength, stats.MaxEdgeLength, stats.AvgEdgeLength = 0, 0, 0
		return
	}
	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, e := range stats.Edges {
		totalLength += e.Length
		minLength = math.Min(minLength, e.Length)
		maxLength = math.Max(maxLength, e.Length)
	}
	stats.MinEdgeLength = minLength
	stats.MaxEdgeLength = maxLength
	stats.AvgEdgeLength = totalLength / float64(stats.EdgeCount)
}

// AnalyzeScene measures every shape and the scene as a whole. Shapes are
// reported sorted by id.
func AnalyzeScene(shapes []*scene.Shape) Summary {
	summary := Summary{
		Total: ShapeStats{ID: "total", Bounds: geometry.NewBoundingBox()},
	}
	for _, s := range shapes {
		stats := AnalyzeShape(s)
		summary.Shapes = append(summary.Shapes, stats)

		t := &summary.Total
		t.Vertices += stats.Vertices
		t.Faces += stats.Faces
		t.Triangles += stats.Triangles
		t.SurfaceArea += stats.SurfaceArea
		t.Bounds.Merge(stats.Bounds)
		t.Edges = append(t.Edges, stats.Edges...)
	}
	sort.Slice(summary.Shapes, func(i, j int) bool {
		return summary.Shapes[i].ID < summary.Shapes[j].ID
	})
	summarizeEdges(&summary.Total)
	return summary
}

// AnalyzeModel measures an STL model as the mesh shape it imports as
func AnalyzeModel(model *stl.Model) (ShapeStats, error) {
	vertices, faces := model.Mesh()
	mesh, err := scene.NewMesh(vertices, faces, scene.WithID(model.Name))
	if err != nil {
		return ShapeStats{}, err
	}
	return AnalyzeShape(mesh), nil
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(stats ShapeStats, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range stats.Edges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(stats ShapeStats, count int) []EdgeInfo {
	return sortedEdges(stats, count, func(a, b float64) bool { return a > b })
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(stats ShapeStats, count int) []EdgeInfo {
	return sortedEdges(stats, count, func(a, b float64) bool { return a < b })
}

func sortedEdges(stats ShapeStats, count int, less func(a, b float64) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(stats.Edges))
	copy(edges, stats.Edges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i].Length, edges[j].Length)
	})

	if count > len(edges) {
		count = len(edges)
	}
	if count < 0 {
		count = 0
	}
	return edges[:count]
}

// FindNearestVertex finds the world-space vertex nearest to a given point
func FindNearestVertex(shapes []*scene.Shape, point geometry.Vector3) (string, geometry.Vector3, float64) {
	var nearestShape string
	var nearestVertex geometry.Vector3
	minDistance := math.MaxFloat64

	for _, s := range shapes {
		for _, vertex := range s.WorldVertices() {
			distance := point.Distance(vertex)
			if distance < minDistance {
				minDistance = distance
				nearestVertex = vertex
				nearestShape = s.ID
			}
		}
	}

	return nearestShape, nearestVertex, minDistance
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
