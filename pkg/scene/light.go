package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/philipparndt/goscene/pkg/geometry"
)

// LightKind identifies a light model
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return fmt.Sprintf("light(%d)", int(k))
	}
}

// ParseLightKind maps a light kind name to its LightKind
func ParseLightKind(name string) (LightKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ambient":
		return LightAmbient, nil
	case "directional":
		return LightDirectional, nil
	case "point":
		return LightPoint, nil
	case "spot":
		return LightSpot, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLightKind, name)
	}
}

// Light is one entry of the scene light set.
// Direction points from the scene toward a directional light; for a spot
// light it is the direction the cone shines in.
type Light struct {
	Kind      LightKind
	Position  geometry.Vector3
	Direction geometry.Vector3
	Color     Color
	Intensity float64
	Angle     float64 // spot cone half-angle in degrees
}

// Ambient creates a white ambient light
func Ambient(intensity float64) Light {
	return Light{Kind: LightAmbient, Color: White, Intensity: intensity}
}

// Directional creates a white directional light shining from direction
func Directional(direction geometry.Vector3, intensity float64) Light {
	return Light{Kind: LightDirectional, Direction: direction, Color: White, Intensity: intensity}
}

// PointLight creates a white point light
func PointLight(position geometry.Vector3, intensity float64) Light {
	return Light{Kind: LightPoint, Position: position, Color: White, Intensity: intensity}
}

// Spot creates a white spot light at position shining along direction
func Spot(position, direction geometry.Vector3, angle, intensity float64) Light {
	return Light{Kind: LightSpot, Position: position, Direction: direction, Angle: angle, Color: White, Intensity: intensity}
}

// DefaultLights returns a soft ambient light plus a key light from (1,1,1)
func DefaultLights() []Light {
	return []Light{
		Ambient(0.4),
		Directional(geometry.NewVector3(1, 1, 1), 0.8),
	}
}

// Validate checks kind and parameter ranges
func (l Light) Validate() error {
	if math.IsNaN(l.Intensity) || l.Intensity < 0 {
		return fmt.Errorf("%w: intensity %v must not be negative", ErrInvalidLight, l.Intensity)
	}
	switch l.Kind {
	case LightAmbient, LightPoint:
		return nil
	case LightDirectional:
		if l.Direction.IsZero() {
			return fmt.Errorf("%w: directional light needs a direction", ErrInvalidLight)
		}
		return nil
	case LightSpot:
		if l.Direction.IsZero() {
			return fmt.Errorf("%w: spot light needs a direction", ErrInvalidLight)
		}
		if !(l.Angle > 0) || l.Angle > 180 {
			return fmt.Errorf("%w: spot angle %v outside (0,180]", ErrInvalidLight, l.Angle)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownLightKind, l.Kind)
	}
}

// Lighting evaluates a light set
type Lighting []Light

// Illuminate returns the shaded color of a surface point seen from eye
func (l Lighting) Illuminate(point, normal geometry.Vector3, m Material, eye geometry.Vector3) Color {
	var r, g, b float64
	n := normal.Normalize()
	toEye := eye.Sub(point).Normalize()

	for _, light := range l {
		diffuse, toLight := light.diffuse(point, n)
		if diffuse <= 0 {
			continue
		}
		r += float64(m.Color.R) * float64(light.Color.R) * diffuse / 255
		g += float64(m.Color.G) * float64(light.Color.G) * diffuse / 255
		b += float64(m.Color.B) * float64(light.Color.B) * diffuse / 255

		if toLight.IsZero() || m.Reflectivity <= 0 || m.Shininess <= 0 {
			continue
		}
		half := toLight.Add(toEye).Normalize()
		spec := m.Reflectivity * math.Pow(math.Max(0, n.Dot(half)), m.Shininess) * light.Intensity
		r += float64(light.Color.R) * spec
		g += float64(light.Color.G) * spec
		b += float64(light.Color.B) * spec
	}

	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

// diffuse returns the light factor at point and the unit direction toward
// the light, which is zero for ambient light.
func (l Light) diffuse(point, normal geometry.Vector3) (float64, geometry.Vector3) {
	switch l.Kind {
	case LightAmbient:
		return l.Intensity, geometry.Vector3{}
	case LightDirectional:
		dir := l.Direction.Normalize()
		return math.Max(0, normal.Dot(dir)) * l.Intensity, dir
	case LightPoint:
		dir := l.Position.Sub(point).Normalize()
		return math.Max(0, normal.Dot(dir)) * l.Intensity, dir
	case LightSpot:
		dir := l.Position.Sub(point).Normalize()
		axis := l.Direction.Normalize()
		if dir.Scale(-1).Dot(axis) < math.Cos(l.Angle*math.Pi/180) {
			return 0, dir
		}
		return math.Max(0, normal.Dot(dir)) * l.Intensity, dir
	default:
		// unknown kinds add no light
		return 0, geometry.Vector3{}
	}
}
