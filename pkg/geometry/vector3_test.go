package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Add(v2)

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Scale(t *testing.T) {
	result := NewVector3(1, -2, 3).Scale(2)

	expected := NewVector3(2, -4, 6)
	if result != expected {
		t.Errorf("Scale failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3Distance(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(3, 4, 0)
	distance := v1.Distance(v2)

	expected := 5.0
	if math.Abs(distance-expected) > 1e-10 {
		t.Errorf("Distance failed: expected %v, got %v", expected, distance)
	}
}

func TestVector3Normalize(t *testing.T) {
	vectors := []Vector3{
		NewVector3(3, 4, 0),
		NewVector3(-1, 2, -7),
		NewVector3(1e-6, 0, 0),
		NewVector3(1e6, -1e6, 5),
	}

	for _, v := range vectors {
		actualLength := v.Normalize().Length()
		if math.Abs(actualLength-1.0) > 1e-10 {
			t.Errorf("Normalize failed for %v: expected length 1, got %v", v, actualLength)
		}
	}
}

func TestVector3NormalizeZero(t *testing.T) {
	result := Vector3{}.Normalize()

	if result != (Vector3{}) {
		t.Errorf("Normalize of zero failed: expected zero vector, got %v", result)
	}
	if math.IsNaN(result.X) || math.IsNaN(result.Y) || math.IsNaN(result.Z) {
		t.Errorf("Normalize of zero produced NaN: %v", result)
	}
}

func TestVector3Cross(t *testing.T) {
	v1 := NewVector3(1, 0, 0)
	v2 := NewVector3(0, 1, 0)
	result := v1.Cross(v2)

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3CrossIsPerpendicular(t *testing.T) {
	pairs := [][2]Vector3{
		{NewVector3(1, 2, 3), NewVector3(4, 5, 6)},
		{NewVector3(-3, 0.5, 2), NewVector3(0, 7, -1)},
		{NewVector3(10, 0, 0), NewVector3(0.1, 0.1, 0)},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		c := a.Cross(b)
		if math.Abs(c.Dot(a)) > 1e-9 {
			t.Errorf("Cross of %v and %v is not perpendicular to a: %v", a, b, c.Dot(a))
		}
		if math.Abs(c.Dot(b)) > 1e-9 {
			t.Errorf("Cross of %v and %v is not perpendicular to b: %v", a, b, c.Dot(b))
		}
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Dot(v2)

	expected := 32.0 // 1*4 + 2*5 + 3*6 = 32
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3LerpEndpoints(t *testing.T) {
	from := NewVector3(0.1, -0.7, 3.3)
	to := NewVector3(2.9, 0.3, -1.1)

	if got := from.Lerp(to, 0); got != from {
		t.Errorf("Lerp at 0 failed: expected %v, got %v", from, got)
	}
	if got := from.Lerp(to, 1); got != to {
		t.Errorf("Lerp at 1 failed: expected %v, got %v", to, got)
	}
}

func TestCentroid(t *testing.T) {
	center := Centroid([]Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 0, 0),
		NewVector3(2, 2, 0),
		NewVector3(0, 2, 0),
	})

	expected := NewVector3(1, 1, 0)
	if center != expected {
		t.Errorf("Centroid failed: expected %v, got %v", expected, center)
	}
}
