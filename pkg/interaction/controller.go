package interaction

import "sync"

const (
	// DefaultSensitivity converts pointer pixels to orbit radians
	DefaultSensitivity = 0.01
	// ZoomOutFactor is applied for a positive wheel delta
	ZoomOutFactor = 1.1
	// ZoomInFactor is applied for a negative wheel delta
	ZoomInFactor = 0.9
)

// Orbiter is the camera surface the controller drives
type Orbiter interface {
	OrbitCamera(deltaTheta, deltaPhi float64) error
	ZoomCamera(factor float64) error
}

// Option configures a Controller
type Option func(*Controller)

// WithSensitivity overrides the pixel to radian factor
func WithSensitivity(s float64) Option {
	return func(c *Controller) { c.sensitivity = s }
}

// WithInvertY flips the vertical drag direction
func WithInvertY(invert bool) Option {
	return func(c *Controller) { c.invertY = invert }
}

// Controller maps pointer drag and wheel input to camera orbit and zoom
type Controller struct {
	mu          sync.Mutex
	target      Orbiter
	sensitivity float64
	invertY     bool

	dragging     bool
	lastX, lastY float64
}

// NewController creates a controller for target
func NewController(target Orbiter, opts ...Option) *Controller {
	c := &Controller{target: target, sensitivity: DefaultSensitivity}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PointerDown starts a drag at x, y
func (c *Controller) PointerDown(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = true
	c.lastX, c.lastY = x, y
}

// PointerMove orbits the camera by the distance moved since the last event
func (c *Controller) PointerMove(x, y float64) error {
	c.mu.Lock()
	if !c.dragging {
		c.mu.Unlock()
		return nil
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	s := c.sensitivity
	if c.invertY {
		dy = -dy
	}
	c.mu.Unlock()

	if dx == 0 && dy == 0 {
		return nil
	}
	return c.target.OrbitCamera(dx*s, dy*s)
}

// PointerUp ends the drag
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

// Dragging reports whether a drag is in progress
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// Wheel zooms out for positive deltas and in for negative ones
func (c *Controller) Wheel(deltaY float64) error {
	switch {
	case deltaY > 0:
		return c.target.ZoomCamera(ZoomOutFactor)
	case deltaY < 0:
		return c.target.ZoomCamera(ZoomInFactor)
	default:
		return nil
	}
}
