package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestPerspectiveRows(t *testing.T) {
	m := Perspective(90, 2, 1, 11)

	// f = 1/tan(45deg) = 1
	if math.Abs(m[0][0]-0.5) > 1e-10 {
		t.Errorf("Perspective [0][0] failed: expected 0.5, got %v", m[0][0])
	}
	if math.Abs(m[1][1]-1) > 1e-10 {
		t.Errorf("Perspective [1][1] failed: expected 1, got %v", m[1][1])
	}
	if math.Abs(m[2][2]-(12.0/-10.0)) > 1e-10 {
		t.Errorf("Perspective [2][2] failed: expected -1.2, got %v", m[2][2])
	}
	if math.Abs(m[2][3]-(22.0/-10.0)) > 1e-10 {
		t.Errorf("Perspective [2][3] failed: expected -2.2, got %v", m[2][3])
	}
	if m[3][2] != -1 || m[3][3] != 0 {
		t.Errorf("Perspective last row failed: got %v", m[3])
	}
}

func TestPerspectiveMapsNearAndFarPlanes(t *testing.T) {
	m := Perspective(60, 1, 0.5, 50)

	near := m.MulPoint(NewVector3(0, 0, -0.5))
	if math.Abs(near.Z/near.W-(-1)) > 1e-10 {
		t.Errorf("Near plane failed: expected NDC z -1, got %v", near.Z/near.W)
	}

	far := m.MulPoint(NewVector3(0, 0, -50))
	if math.Abs(far.Z/far.W-1) > 1e-10 {
		t.Errorf("Far plane failed: expected NDC z 1, got %v", far.Z/far.W)
	}
}

func TestLookAtMovesCameraToOrigin(t *testing.T) {
	position := NewVector3(3, 4, 5)
	view, err := LookAt(position, NewVector3(0, 0, 0), NewVector3(0, 1, 0))
	if err != nil {
		t.Fatalf("LookAt failed: %v", err)
	}

	eye := view.MulPoint(position)
	if eye.XYZ().Length() > 1e-10 {
		t.Errorf("LookAt failed: camera position should map to origin, got %v", eye)
	}

	target := view.MulPoint(NewVector3(0, 0, 0))
	distance := position.Length()
	if math.Abs(target.Z-(-distance)) > 1e-10 || math.Abs(target.X) > 1e-10 || math.Abs(target.Y) > 1e-10 {
		t.Errorf("LookAt failed: target should lie on -Z at distance %v, got %v", distance, target)
	}
}

func TestLookAtTranslationRow(t *testing.T) {
	position := NewVector3(1, 2, 10)
	target := NewVector3(0, 0, 0)
	up := NewVector3(0, 1, 0)

	view, err := LookAt(position, target, up)
	if err != nil {
		t.Fatalf("LookAt failed: %v", err)
	}
	forward, right, actualUp, err := LookAtBasis(position, target, up)
	if err != nil {
		t.Fatalf("LookAtBasis failed: %v", err)
	}

	if math.Abs(view[0][3]+right.Dot(position)) > 1e-10 {
		t.Errorf("Translation x failed: got %v", view[0][3])
	}
	if math.Abs(view[1][3]+actualUp.Dot(position)) > 1e-10 {
		t.Errorf("Translation y failed: got %v", view[1][3])
	}
	if math.Abs(view[2][3]-forward.Dot(position)) > 1e-10 {
		t.Errorf("Translation z failed: got %v", view[2][3])
	}
}

func TestLookAtDegenerate(t *testing.T) {
	_, err := LookAt(NewVector3(0, 5, 0), NewVector3(0, 0, 0), NewVector3(0, 1, 0))
	if !errors.Is(err, ErrDegenerateBasis) {
		t.Errorf("LookAt with up parallel to view failed: expected ErrDegenerateBasis, got %v", err)
	}

	_, err = LookAt(NewVector3(1, 1, 1), NewVector3(1, 1, 1), NewVector3(0, 1, 0))
	if !errors.Is(err, ErrDegenerateBasis) {
		t.Errorf("LookAt with position == target failed: expected ErrDegenerateBasis, got %v", err)
	}
}

func TestMatrixMulIdentity(t *testing.T) {
	m := Perspective(45, 1.5, 0.1, 100)
	if m.Mul(Identity()) != m {
		t.Errorf("Mul by identity failed")
	}
}
