package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry reports a shape whose vertices or faces break the index invariant
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidMaterial reports a material value outside its range
	ErrInvalidMaterial = errors.New("invalid material")
	// ErrDegenerateCamera reports camera parameters that cannot produce a view matrix
	ErrDegenerateCamera = errors.New("degenerate camera")
	// ErrBehindCamera reports a point on or behind the near plane
	ErrBehindCamera = errors.New("point is behind the near plane")
	// ErrUnknownLightKind reports a light kind the lighting model does not handle
	ErrUnknownLightKind = errors.New("unknown light kind")
	// ErrInvalidLight reports a light with out of range parameters
	ErrInvalidLight = errors.New("invalid light")
	// ErrShapeNotFound reports an unknown shape id
	ErrShapeNotFound = errors.New("shape not found")
	// ErrDuplicateShape reports a shape id that is already in use
	ErrDuplicateShape = errors.New("duplicate shape id")
	// ErrInvalidViewport reports a non-positive viewport size
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrEmit wraps failures reported by the emitter
	ErrEmit = errors.New("emit failed")
)

// GeometryError describes which part of a shape is invalid
type GeometryError struct {
	ShapeID string
	Face    int // -1 when the problem is not tied to a face
	Index   int // offending vertex index, -1 when not applicable
	Reason  string
}

func (e *GeometryError) Error() string {
	switch {
	case e.Face >= 0 && e.Index >= 0:
		return fmt.Sprintf("shape %q face %d: vertex index %d: %s", e.ShapeID, e.Face, e.Index, e.Reason)
	case e.Face >= 0:
		return fmt.Sprintf("shape %q face %d: %s", e.ShapeID, e.Face, e.Reason)
	default:
		return fmt.Sprintf("shape %q: %s", e.ShapeID, e.Reason)
	}
}

// Unwrap lets errors.Is match ErrInvalidGeometry
func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

func geometryError(shapeID string, reason string, args ...any) error {
	return &GeometryError{ShapeID: shapeID, Face: -1, Index: -1, Reason: fmt.Sprintf(reason, args...)}
}
