package animation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/goscene/pkg/geometry"
	"github.com/philipparndt/goscene/pkg/scene"
)

// Target receives interpolated transform values
type Target interface {
	SetShapeTransform(id string, property scene.TransformProperty, value geometry.Vector3) error
}

// Spec describes one keyframe animation
type Spec struct {
	Property scene.TransformProperty
	From     geometry.Vector3
	To       geometry.Vector3
	Duration time.Duration
	Easing   string
}

// Option configures an Animator
type Option func(*Animator)

// WithClock sets the time source used for start timestamps
func WithClock(now func() time.Time) Option {
	return func(a *Animator) { a.now = now }
}

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(a *Animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

type key struct {
	shape    string
	property scene.TransformProperty
}

type animation struct {
	key    key
	spec   Spec
	easing Easing
	start  time.Time
}

// Animator interpolates shape transforms over frames. A newer animation on
// the same shape and property replaces the running one.
type Animator struct {
	mu     sync.Mutex
	target Target
	frames FrameScheduler
	now    func() time.Time
	logger *zap.Logger

	active map[key]*animation
	err    error
}

// New creates an animator writing to target on frames from frames
func New(target Target, frames FrameScheduler, opts ...Option) *Animator {
	a := &Animator{
		target: target,
		frames: frames,
		now:    time.Now,
		logger: zap.NewNop(),
		active: make(map[key]*animation),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Animate starts interpolating one transform property of a shape
func (a *Animator) Animate(shapeID string, spec Spec) error {
	easing, err := EasingByName(spec.Easing)
	if err != nil {
		return err
	}
	if _, err := spec.Property.Get(geometry.IdentityTransform()); err != nil {
		return err
	}

	anim := &animation{
		key:    key{shape: shapeID, property: spec.Property},
		spec:   spec,
		easing: easing,
		start:  a.now(),
	}

	a.mu.Lock()
	if _, ok := a.active[anim.key]; ok {
		a.logger.Debug("animation superseded", zap.String("shape", shapeID), zap.Stringer("property", spec.Property))
	}
	a.active[anim.key] = anim
	a.mu.Unlock()

	a.frames.RequestFrame(func(now time.Time) { a.step(anim, now) })
	return nil
}

// Cancel stops the animation of one shape property
func (a *Animator) Cancel(shapeID string, property scene.TransformProperty) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	k := key{shape: shapeID, property: property}
	_, ok := a.active[k]
	delete(a.active, k)
	return ok
}

// Active returns the number of running animations
func (a *Animator) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.active)
}

// Err returns the last error reported by the target, other than a missing shape
func (a *Animator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Progress returns the linear progress at now, clamped to [0,1]
func (s Spec) Progress(start, now time.Time) float64 {
	if s.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(start)) / float64(s.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Sample returns the interpolated value for linear progress p
func (s Spec) Sample(easing Easing, p float64) geometry.Vector3 {
	if p >= 1 {
		return s.To
	}
	if p <= 0 {
		return s.From
	}
	return s.From.Lerp(s.To, easing(p))
}

func (a *Animator) step(anim *animation, now time.Time) {
	a.mu.Lock()
	current := a.active[anim.key] == anim
	a.mu.Unlock()
	if !current {
		return
	}

	progress := anim.spec.Progress(anim.start, now)
	value := anim.spec.Sample(anim.easing, progress)

	if err := a.target.SetShapeTransform(anim.key.shape, anim.spec.Property, value); err != nil {
		a.finish(anim)
		if errors.Is(err, scene.ErrShapeNotFound) {
			a.logger.Warn("dropping animation of missing shape", zap.String("shape", anim.key.shape))
			return
		}
		a.logger.Error("animation frame failed", zap.String("shape", anim.key.shape), zap.Error(err))
		a.mu.Lock()
		a.err = fmt.Errorf("animate %q %s: %w", anim.key.shape, anim.spec.Property, err)
		a.mu.Unlock()
		return
	}

	if progress < 1 {
		a.frames.RequestFrame(func(now time.Time) { a.step(anim, now) })
		return
	}
	a.finish(anim)
}

// finish removes anim unless a newer animation took its place
func (a *Animator) finish(anim *animation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active[anim.key] == anim {
		delete(a.active, anim.key)
	}
}
