package geometry

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{
		Normal: normal,
		V1:     v1,
		V2:     v2,
		V3:     v3,
	}
}

// CalculateNormal computes the unit normal from the winding V1 -> V2 -> V3
func (t Triangle) CalculateNormal() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Length() / 2.0
}

// Degenerate reports whether the triangle has (almost) no area
func (t Triangle) Degenerate() bool {
	return t.Area() < 1e-12
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Centroid([]Vector3{t.V1, t.V2, t.V3})
}

// PolygonNormal returns the unit normal of a planar polygon using Newell's
// method, so the result follows the winding of all points rather than only
// the first three.
func PolygonNormal(points []Vector3) Vector3 {
	var n Vector3
	for i, current := range points {
		next := points[(i+1)%len(points)]
		n.X += (current.Y - next.Y) * (current.Z + next.Z)
		n.Y += (current.Z - next.Z) * (current.X + next.X)
		n.Z += (current.X - next.X) * (current.Y + next.Y)
	}
	return n.Normalize()
}

// PolygonArea returns the area of a planar polygon by fanning it into triangles
func PolygonArea(points []Vector3) float64 {
	if len(points) < 3 {
		return 0
	}
	area := 0.0
	for i := 1; i < len(points)-1; i++ {
		area += Triangle{V1: points[0], V2: points[i], V3: points[i+1]}.Area()
	}
	return area
}
