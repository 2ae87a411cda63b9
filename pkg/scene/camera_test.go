package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goscene/pkg/geometry"
)

func TestDefaultCameraIsValid(t *testing.T) {
	c := DefaultCamera()
	require.NoError(t, c.Validate())
	assert.InDelta(t, 10, c.Distance(), 1e-12)

	theta, phi, distance := c.Spherical()
	assert.InDelta(t, 0, theta, 1e-12)
	assert.InDelta(t, math.Pi/2, phi, 1e-12)
	assert.InDelta(t, 10, distance, 1e-12)
}

func TestCameraValidate(t *testing.T) {
	cases := map[string]func(c *Camera){
		"near zero":      func(c *Camera) { c.Near = 0 },
		"far below near": func(c *Camera) { c.Far = c.Near / 2 },
		"fov zero":       func(c *Camera) { c.FOV = 0 },
		"fov 180":        func(c *Camera) { c.FOV = 180 },
		"target at eye":  func(c *Camera) { c.Target = c.Position },
		"up parallel":    func(c *Camera) { c.Up = geometry.NewVector3(0, 0, -3) },
		"up zero":        func(c *Camera) { c.Up = geometry.Vector3{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultCamera()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrDegenerateCamera)
		})
	}
}

func TestCameraOrbitNeverFlipsThroughPoles(t *testing.T) {
	c := DefaultCamera()
	for i := 0; i < 50; i++ {
		c = c.Orbit(0.3, 1.7)
		_, phi, _ := c.Spherical()
		assert.GreaterOrEqual(t, phi, MinPolarAngle-1e-9)
		assert.LessOrEqual(t, phi, MaxPolarAngle+1e-9)
		require.NoError(t, c.Validate())
	}
	for i := 0; i < 50; i++ {
		c = c.Orbit(-0.7, -2.9)
		_, phi, _ := c.Spherical()
		assert.GreaterOrEqual(t, phi, MinPolarAngle-1e-9)
		assert.LessOrEqual(t, phi, MaxPolarAngle+1e-9)
		require.NoError(t, c.Validate())
	}
	assert.InDelta(t, 10, c.Distance(), 1e-9)
}

func TestCameraOrbitAroundTarget(t *testing.T) {
	c := DefaultCamera()
	c.Target = geometry.NewVector3(1, 2, 3)
	c.Position = geometry.NewVector3(1, 2, 8)

	moved := c.Orbit(math.Pi/2, 0)
	assert.InDelta(t, 6, moved.Position.X, 1e-9)
	assert.InDelta(t, 2, moved.Position.Y, 1e-9)
	assert.InDelta(t, 3, moved.Position.Z, 1e-9)
	assert.Equal(t, c.Target, moved.Target)
}

func TestCameraZoom(t *testing.T) {
	c := DefaultCamera()
	c.Position = geometry.NewVector3(0, 3, 4)

	zoomed, err := c.Zoom(0.0001)
	require.NoError(t, err)
	assert.InDelta(t, MinZoomDistance, zoomed.Distance(), 1e-12)
	assert.InDelta(t, 0.6, zoomed.Position.Y, 1e-12)
	assert.InDelta(t, 0.8, zoomed.Position.Z, 1e-12)

	zoomed, err = c.Zoom(1.1)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, zoomed.Distance(), 1e-12)

	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = c.Zoom(f)
		assert.Error(t, err)
	}
}

func TestFrameBounds(t *testing.T) {
	bbox := geometry.BoundsOf(geometry.NewVector3(-1, -1, -1), geometry.NewVector3(3, 1, 1))
	c := FrameBounds(bbox)
	require.NoError(t, c.Validate())
	assert.Equal(t, geometry.NewVector3(1, 0, 0), c.Target)
	assert.Greater(t, c.Position.Z, 1.0)

	assert.Equal(t, DefaultCamera(), FrameBounds(geometry.NewBoundingBox()))
}
