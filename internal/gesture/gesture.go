// Package gesture turns pointer drags and wheel ticks into view state changes.
package gesture

import (
	"math"
	"time"

	"github.com/litescript/ls-skymap/internal/sky"
	"github.com/litescript/ls-skymap/internal/view"
)

// Config holds the gesture constants.
type Config struct {
	DragSensitivity float64       // degrees of rotation per cell dragged
	ZoomStep        float64       // scale factor per wheel tick
	MinScale        float64       // lower scale bound, always enforced
	MaxScale        float64       // upper scale bound, 0 for none
	DeclutterScale  float64       // star labels hide below this scale
	BrowseStep      float64       // degrees of longitude per browse tick
	BrowseInterval  time.Duration // period of the browse ticker
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DragSensitivity: 1.0,
		ZoomStep:        1.1,
		MinScale:        0.16,
		MaxScale:        5,
		DeclutterScale:  1.0,
		BrowseStep:      0.75,
		BrowseInterval:  100 * time.Millisecond,
	}
}

// Controller applies gestures to a view state. It keeps only the star label
// visibility and whether gestures are currently attached; the view state
// itself is always passed in and returned.
type Controller struct {
	cfg           Config
	labelsVisible bool
	suspended     bool
}

// New creates a controller with labels visible for scale.
func New(cfg Config, scale float64) Controller {
	if cfg.MinScale <= 0 {
		cfg.MinScale = DefaultConfig().MinScale
	}
	c := Controller{cfg: cfg}
	c.labelsVisible = c.Clamp(scale) >= cfg.DeclutterScale
	return c
}

// Config returns the controller's settings.
func (c *Controller) Config() Config { return c.cfg }

// LabelsVisible reports whether the star label layer is shown.
func (c *Controller) LabelsVisible() bool { return c.labelsVisible }

// Suspended reports whether gestures are detached.
func (c *Controller) Suspended() bool { return c.suspended }

// Suspend detaches drag and zoom handling.
func (c *Controller) Suspend() { c.suspended = true }

// Resume reattaches drag and zoom handling.
func (c *Controller) Resume() { c.suspended = false }

// Drag rotates the view by a pointer movement of (dx, dy) cells. Moving right
// increases longitude and moving down decreases latitude.
func (c *Controller) Drag(v view.State, dx, dy float64) view.State {
	if c.suspended || !finite(dx) || !finite(dy) {
		return v
	}
	k := c.cfg.DragSensitivity
	v.Rotation = v.Rotation.Add(sky.Rotation{Lon: dx * k, Lat: -dy * k})
	return v
}

// Zoom multiplies the scale by factor. Factors that are not positive finite
// numbers leave the view unchanged.
func (c *Controller) Zoom(v view.State, factor float64) view.State {
	if c.suspended || !finite(factor) || factor <= 0 {
		return v
	}
	return c.SetScale(v, v.Scale*factor)
}

// Wheel zooms by ticks wheel notches; positive zooms in.
func (c *Controller) Wheel(v view.State, ticks int) view.State {
	return c.Zoom(v, math.Pow(c.cfg.ZoomStep, float64(ticks)))
}

// SetScale sets the scale directly, clamped, and updates label visibility.
// It applies even while suspended.
func (c *Controller) SetScale(v view.State, s float64) view.State {
	prev := v.Scale
	v.Scale = c.Clamp(s)
	c.declutter(prev, v.Scale)
	return v
}

// Advance moves one browse step east.
func (c *Controller) Advance(v view.State) view.State {
	v.Rotation.Lon += c.cfg.BrowseStep
	return v
}

// Interval returns the browse tick period.
func (c *Controller) Interval() time.Duration {
	if c.cfg.BrowseInterval <= 0 {
		return DefaultConfig().BrowseInterval
	}
	return c.cfg.BrowseInterval
}

// Clamp saturates s at the configured bounds.
func (c *Controller) Clamp(s float64) float64 {
	if math.IsNaN(s) || s < c.cfg.MinScale {
		return c.cfg.MinScale
	}
	if c.cfg.MaxScale > 0 && s > c.cfg.MaxScale {
		return c.cfg.MaxScale
	}
	return s
}

func (c *Controller) declutter(prev, next float64) {
	t := c.cfg.DeclutterScale
	switch {
	case prev >= t && next < t:
		c.labelsVisible = false
	case prev < t && next >= t:
		c.labelsVisible = true
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
