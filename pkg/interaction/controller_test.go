package interaction

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goscene/pkg/canvas"
	"github.com/philipparndt/goscene/pkg/scene"
)

type call struct {
	orbit      bool
	a, b       float64
	zoomFactor float64
}

type fakeOrbiter struct {
	calls []call
	err   error
}

func (f *fakeOrbiter) OrbitCamera(dTheta, dPhi float64) error {
	f.calls = append(f.calls, call{orbit: true, a: dTheta, b: dPhi})
	return f.err
}

func (f *fakeOrbiter) ZoomCamera(factor float64) error {
	f.calls = append(f.calls, call{zoomFactor: factor})
	return f.err
}

func TestDragOrbits(t *testing.T) {
	target := &fakeOrbiter{}
	c := NewController(target)

	require.NoError(t, c.PointerMove(50, 50))
	assert.Empty(t, target.calls, "moving without a drag must not orbit")

	c.PointerDown(100, 100)
	assert.True(t, c.Dragging())
	require.NoError(t, c.PointerMove(110, 95))
	require.NoError(t, c.PointerMove(110, 95))
	c.PointerUp()
	assert.False(t, c.Dragging())
	require.NoError(t, c.PointerMove(200, 200))

	require.Len(t, target.calls, 1)
	assert.True(t, target.calls[0].orbit)
	assert.InDelta(t, 0.1, target.calls[0].a, 1e-12)
	assert.InDelta(t, -0.05, target.calls[0].b, 1e-12)
}

func TestDragOptions(t *testing.T) {
	target := &fakeOrbiter{}
	c := NewController(target, WithSensitivity(0.5), WithInvertY(true))
	c.PointerDown(0, 0)
	require.NoError(t, c.PointerMove(2, 2))

	require.Len(t, target.calls, 1)
	assert.InDelta(t, 1, target.calls[0].a, 1e-12)
	assert.InDelta(t, -1, target.calls[0].b, 1e-12)
}

func TestWheelZooms(t *testing.T) {
	target := &fakeOrbiter{}
	c := NewController(target)

	require.NoError(t, c.Wheel(120))
	require.NoError(t, c.Wheel(-3))
	require.NoError(t, c.Wheel(0))

	require.Len(t, target.calls, 2)
	assert.Equal(t, ZoomOutFactor, target.calls[0].zoomFactor)
	assert.Equal(t, ZoomInFactor, target.calls[1].zoomFactor)
}

func TestErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	c := NewController(&fakeOrbiter{err: boom})
	c.PointerDown(0, 0)
	assert.ErrorIs(t, c.PointerMove(1, 0), boom)
	assert.ErrorIs(t, c.Wheel(1), boom)
}

func TestControllerDrivesEngine(t *testing.T) {
	e, err := scene.New(canvas.NewRecorder())
	require.NoError(t, err)
	c := NewController(e)

	// large vertical drags pin the camera near a pole without flipping
	c.PointerDown(0, 0)
	for i := 1; i <= 40; i++ {
		require.NoError(t, c.PointerMove(float64(i*7), float64(i*500)))
	}
	c.PointerUp()
	_, phi, _ := e.Camera().Spherical()
	assert.InDelta(t, scene.MaxPolarAngle, phi, 1e-9)

	for i := 0; i < 100; i++ {
		require.NoError(t, c.Wheel(-1))
	}
	assert.GreaterOrEqual(t, e.Camera().Distance(), scene.MinZoomDistance-1e-12)
	assert.False(t, math.IsNaN(e.Camera().Position.X))
}
