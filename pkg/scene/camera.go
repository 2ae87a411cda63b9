package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/goscene/pkg/geometry"
)

// Orbit limits keep the camera away from the poles
const (
	MinPolarAngle = 0.1
	MaxPolarAngle = math.Pi - 0.1
	// MinZoomDistance is the closest the camera can zoom to its target
	MinZoomDistance = 1.0
)

// Camera is a look-at camera with a perspective lens
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // vertical field of view in degrees
	Near     float64
	Far      float64
}

// DefaultCamera looks at the origin from (0,0,10)
func DefaultCamera() Camera {
	return Camera{
		Position: geometry.NewVector3(0, 0, 10),
		Target:   geometry.NewVector3(0, 0, 0),
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      60,
		Near:     0.1,
		Far:      1000,
	}
}

// FrameBounds returns a camera on the +Z side of the box that keeps all of it in view
func FrameBounds(bbox geometry.BoundingBox) Camera {
	c := DefaultCamera()
	if bbox.Empty() {
		return c
	}
	center := bbox.Center()
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	distance = math.Max(distance, MinZoomDistance)

	c.Target = center
	c.Position = center.Add(geometry.NewVector3(0, 0, distance+size.Z/2))
	c.Far = math.Max(c.Far, distance*10)
	return c
}

// Validate checks the lens and basis invariants
func (c Camera) Validate() error {
	if !(c.Near > 0) || !(c.Far > c.Near) {
		return fmt.Errorf("%w: need 0 < near < far, got near=%v far=%v", ErrDegenerateCamera, c.Near, c.Far)
	}
	if !(c.FOV > 0) || !(c.FOV < 180) {
		return fmt.Errorf("%w: fov %v outside (0,180)", ErrDegenerateCamera, c.FOV)
	}
	if _, _, _, err := geometry.LookAtBasis(c.Position, c.Target, c.Up); err != nil {
		return fmt.Errorf("%w: position %v target %v up %v", ErrDegenerateCamera, c.Position, c.Target, c.Up)
	}
	return nil
}

// ViewMatrix returns the world to eye transform
func (c Camera) ViewMatrix() (geometry.Matrix4, error) {
	m, err := geometry.LookAt(c.Position, c.Target, c.Up)
	if errors.Is(err, geometry.ErrDegenerateBasis) {
		return m, fmt.Errorf("%w: %v", ErrDegenerateCamera, err)
	}
	return m, err
}

// ProjectionMatrix returns the perspective matrix for an aspect ratio
func (c Camera) ProjectionMatrix(aspect float64) geometry.Matrix4 {
	return geometry.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// Distance returns the distance between position and target
func (c Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// Spherical returns the azimuth theta = atan2(x,z) and polar angle
// phi = acos(y/d) of the position relative to the target.
func (c Camera) Spherical() (theta, phi, distance float64) {
	offset := c.Position.Sub(c.Target)
	distance = offset.Length()
	if distance == 0 {
		return 0, math.Pi / 2, 0
	}
	theta = math.Atan2(offset.X, offset.Z)
	phi = math.Acos(math.Max(-1, math.Min(1, offset.Y/distance)))
	return theta, phi, distance
}

// Orbit rotates the position around the target. The polar angle is clamped
// so the camera never flips through a pole.
func (c Camera) Orbit(deltaTheta, deltaPhi float64) Camera {
	theta, phi, distance := c.Spherical()
	theta += deltaTheta
	phi += deltaPhi

	if phi < MinPolarAngle {
		phi = MinPolarAngle
	}
	if phi > MaxPolarAngle {
		phi = MaxPolarAngle
	}

	c.Position = c.Target.Add(geometry.NewVector3(
		distance*math.Sin(phi)*math.Sin(theta),
		distance*math.Cos(phi),
		distance*math.Sin(phi)*math.Cos(theta),
	))
	return c
}

// Zoom scales the distance to the target, never closer than MinZoomDistance
func (c Camera) Zoom(factor float64) (Camera, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return c, fmt.Errorf("zoom factor must be positive, got %v", factor)
	}
	offset := c.Position.Sub(c.Target)
	distance := offset.Length()
	if distance == 0 {
		return c, fmt.Errorf("%w: position equals target", ErrDegenerateCamera)
	}
	newDistance := math.Max(distance*factor, MinZoomDistance)
	c.Position = c.Target.Add(offset.Scale(newDistance / distance))
	return c, nil
}
