// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"fmt"
	"time"

	"dragkit.org/f32"
	"dragkit.org/internal/fling"
)

// VelocityTracker estimates the velocity of one pointer from its
// recent positions.
type VelocityTracker interface {
	// Sample records the pointer position p at time t.
	Sample(t time.Duration, p f32.Point)
	// Estimate returns the velocity estimate for the recent
	// samples, or false if there is not enough data.
	Estimate() (VelocityEstimate, bool)
}

// VelocityEstimate describes the motion of a pointer over a window
// of recent samples.
type VelocityEstimate struct {
	// Velocity in pixels per second.
	Velocity f32.Point
	// Offset is the net displacement across the window.
	Offset f32.Point
	// Duration of the window.
	Duration time.Duration
}

// extrapolationTracker fits each axis separately.
type extrapolationTracker struct {
	x, y fling.Extrapolation
}

func newVelocityTracker() VelocityTracker {
	return new(extrapolationTracker)
}

func (t *extrapolationTracker) Sample(ts time.Duration, p f32.Point) {
	t.x.Sample(ts, p.X)
	t.y.Sample(ts, p.Y)
}

func (t *extrapolationTracker) Estimate() (VelocityEstimate, bool) {
	ex, ok := t.x.Estimate()
	if !ok {
		return VelocityEstimate{}, false
	}
	ey, _ := t.y.Estimate()
	return VelocityEstimate{
		Velocity: f32.Pt(ex.Velocity, ey.Velocity),
		Offset:   f32.Pt(ex.Distance, ey.Distance),
		Duration: ex.Duration,
	}, true
}

func (e VelocityEstimate) String() string {
	return fmt.Sprintf("velocity (%.1f, %.1f) px/s, offset (%.1f, %.1f) over %v",
		e.Velocity.X, e.Velocity.Y, e.Offset.X, e.Offset.Y, e.Duration)
}
