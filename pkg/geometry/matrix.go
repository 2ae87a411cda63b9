package geometry

import (
	"errors"
	"math"
)

// ErrDegenerateBasis is returned when a look-at basis cannot be built because
// the view direction has zero length or is parallel to the up vector.
var ErrDegenerateBasis = errors.New("degenerate camera basis")

// basisEpsilon is the smallest accepted length of cross(forward, up) for unit inputs
const basisEpsilon = 1e-9

// Matrix4 is a 4x4 transform stored as 4 rows of 4 numbers
type Matrix4 [4][4]float64

// Vector4 is a homogeneous point as produced by Matrix4.MulPoint
type Vector4 struct {
	X, Y, Z, W float64
}

// Identity returns the identity matrix
func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m * other
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var out Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[row][k] * other[k][col]
			}
			out[row][col] = sum
		}
	}
	return out
}

// MulPoint multiplies the column vector (v, 1) by the matrix
func (m Matrix4) MulPoint(v Vector3) Vector4 {
	return Vector4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3],
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3],
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3],
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3],
	}
}

// MulVector4 multiplies a homogeneous column vector by the matrix
func (m Matrix4) MulVector4(v Vector4) Vector4 {
	return Vector4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// XYZ drops the homogeneous coordinate
func (v Vector4) XYZ() Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Perspective builds a symmetric-frustum perspective matrix.
// fovDegrees is the vertical field of view.
func Perspective(fovDegrees, aspect, near, far float64) Matrix4 {
	f := 1.0 / math.Tan(fovDegrees*math.Pi/180.0/2.0)
	return Matrix4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, (far + near) / (near - far), 2 * far * near / (near - far)},
		{0, 0, -1, 0},
	}
}

// LookAt builds a view matrix for a camera at position looking at target.
func LookAt(position, target, up Vector3) (Matrix4, error) {
	forward, right, actualUp, err := LookAtBasis(position, target, up)
	if err != nil {
		return Matrix4{}, err
	}

	return Matrix4{
		{right.X, right.Y, right.Z, -right.Dot(position)},
		{actualUp.X, actualUp.Y, actualUp.Z, -actualUp.Dot(position)},
		{-forward.X, -forward.Y, -forward.Z, forward.Dot(position)},
		{0, 0, 0, 1},
	}, nil
}

// LookAtBasis returns the orthonormal camera basis used by LookAt
func LookAtBasis(position, target, up Vector3) (forward, right, actualUp Vector3, err error) {
	forward = target.Sub(position).Normalize()
	if forward.IsZero() {
		return Vector3{}, Vector3{}, Vector3{}, ErrDegenerateBasis
	}

	side := forward.Cross(up.Normalize())
	if side.Length() < basisEpsilon {
		return Vector3{}, Vector3{}, Vector3{}, ErrDegenerateBasis
	}
	right = side.Normalize()
	actualUp = right.Cross(forward)

	return forward, right, actualUp, nil
}
