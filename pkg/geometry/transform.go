package geometry

import "github.com/go-gl/mathgl/mgl64"

// Transform is a shape pose: translation, Euler rotation in radians
// (applied around X, then Y, then Z) and per-axis scale.
type Transform struct {
	Translation Vector3
	Rotation    Vector3
	Scale       Vector3
}

// IdentityTransform returns the transform that leaves every point unchanged
func IdentityTransform() Transform {
	return Transform{Scale: NewVector3(1, 1, 1)}
}

// IsIdentity reports whether applying the transform is a no-op
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}

// ModelMatrix composes the transform around a pivot point: scale and
// rotation happen about pivot, translation is applied last.
func (t Transform) ModelMatrix(pivot Vector3) mgl64.Mat4 {
	toOrigin := mgl64.Translate3D(-pivot.X, -pivot.Y, -pivot.Z)
	scale := mgl64.Scale3D(t.Scale.X, t.Scale.Y, t.Scale.Z)
	rotation := mgl64.HomogRotate3DZ(t.Rotation.Z).
		Mul4(mgl64.HomogRotate3DY(t.Rotation.Y)).
		Mul4(mgl64.HomogRotate3DX(t.Rotation.X))
	back := mgl64.Translate3D(
		pivot.X+t.Translation.X,
		pivot.Y+t.Translation.Y,
		pivot.Z+t.Translation.Z,
	)
	return back.Mul4(rotation).Mul4(scale).Mul4(toOrigin)
}

// NormalMatrix returns the inverse-transpose of the model matrix's linear part
func (t Transform) NormalMatrix(pivot Vector3) mgl64.Mat3 {
	return t.ModelMatrix(pivot).Mat3().Inv().Transpose()
}

// Poser applies a transform to points and normals of one shape
type Poser struct {
	model    mgl64.Mat4
	normal   mgl64.Mat3
	ident    bool
	mirrored bool
}

// NewPoser prepares the model and normal matrices for a transform around pivot
func NewPoser(t Transform, pivot Vector3) Poser {
	if t.IsIdentity() {
		return Poser{ident: true}
	}
	model := t.ModelMatrix(pivot)
	return Poser{
		model:    model,
		normal:   model.Mat3().Inv().Transpose(),
		mirrored: model.Mat3().Det() < 0,
	}
}

// Mirrored reports whether the transform flips handedness, which reverses
// the winding of every face
func (p Poser) Mirrored() bool {
	return p.mirrored
}

// Point transforms a position
func (p Poser) Point(v Vector3) Vector3 {
	if p.ident {
		return v
	}
	out := p.model.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 1})
	return Vector3{X: out[0], Y: out[1], Z: out[2]}
}

// Normal transforms a direction with the inverse-transpose and renormalizes it
func (p Poser) Normal(n Vector3) Vector3 {
	if p.ident {
		return n
	}
	out := p.normal.Mul3x1(mgl64.Vec3{n.X, n.Y, n.Z})
	return Vector3{X: out[0], Y: out[1], Z: out[2]}.Normalize()
}
