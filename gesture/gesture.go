// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gesture implements common pointer gestures.

Recognizers accept low level pointer Events routed to them
and detect higher level actions. Drag recognizes drags along
a vertical, horizontal or unconstrained axis and reports them
through a down, start, update, end and cancel lifecycle,
classifying the release as a fling or a stop. Scroll reduces a
one-axis Drag to scroll distances with fling momentum.

Recognizers compete for pointers in an arena provided by a
Binding; see package dragkit.org/io/router for an
implementation.
*/
package gesture

import (
	"math"
	"time"

	"dragkit.org/f32"
	"dragkit.org/internal/fling"
	"dragkit.org/io/pointer"
	"dragkit.org/unit"
)

// Scroll detects scroll gestures and reduces them to
// scroll distances. Scroll recognizes drag and fling touch
// gestures along one axis.
type Scroll struct {
	// Binding connects the scroll to pointer routing and
	// arbitration.
	Binding Binding
	// Axis is the scroll direction, Horizontal or Vertical.
	Axis Axis
	// Metric converts thresholds to pixels.
	Metric unit.Metric

	drag     Drag
	flinger  fling.Animation
	dragging bool
	// Distance dragged since the last call to Scroll.
	pending float32
	// Velocity of a fling release, started at the next
	// call to Scroll.
	release float32
	// Leftover scroll.
	scroll float32
}

type ScrollState uint8

type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
	// Both is the unconstrained pan axis.
	Both
)

const (
	// StateIdle is the default scroll state.
	StateIdle ScrollState = iota
	// StateDrag is reported during drag gestures.
	StateDragging
	// StateFlinging is reported when a fling is
	// in progress.
	StateFlinging
)

const (
	// TouchSlop is the distance a pointer must travel along the
	// axis of a Horizontal or Vertical drag before the drag is
	// considered deliberate.
	TouchSlop = unit.Dp(18)
	// PanSlop is the distance a pointer must travel before a
	// pan is considered deliberate.
	PanSlop = 2 * TouchSlop
	// MinFlingVelocity is the default minimum release velocity,
	// in dp per second, for a fling.
	MinFlingVelocity = fling.MinVelocity
	// MaxFlingVelocity is the default maximum fling velocity in
	// dp per second.
	MaxFlingVelocity = fling.MaxVelocity
)

// AddPointer starts tracking the pointer pressed in e.
func (s *Scroll) AddPointer(e pointer.Event) {
	s.init()
	s.drag.AddPointer(e)
}

func (s *Scroll) init() {
	if s.Axis == Both {
		panic("Scroll: Both is not a scroll axis")
	}
	s.drag.Binding = s.Binding
	s.drag.Axis = s.Axis
	s.drag.Metric = s.Metric
	if s.drag.OnStart != nil {
		return
	}
	s.drag.OnStart = func(DragStartEvent) {
		s.Stop()
		s.dragging = true
	}
	s.drag.OnUpdate = func(e DragUpdateEvent) {
		// Dragging content down scrolls towards its start.
		s.pending -= e.Primary
	}
	s.drag.OnEnd = func(e DragEndEvent) {
		s.dragging = false
		s.release = -e.Primary
	}
	s.drag.OnCancel = func() {
		s.dragging = false
	}
}

// Stop any remaining fling movement.
func (s *Scroll) Stop() {
	s.flinger = fling.Animation{}
	s.release = 0
}

// Scroll returns the whole pixel distance scrolled since the last
// call, including the distance travelled by an ongoing fling.
func (s *Scroll) Scroll(t time.Time) int {
	if s.release != 0 {
		s.flinger.Start(s.Metric, t, s.release)
		s.release = 0
	}
	s.scroll += s.pending
	s.pending = 0
	total := int(s.scroll)
	s.scroll -= float32(total)
	total += s.flinger.Tick(t)
	return total
}

// Dispose stops tracking pointers without reporting further
// scrolling.
func (s *Scroll) Dispose() {
	s.drag.Dispose()
	s.Stop()
}

// State reports the scroll state.
func (s *Scroll) State() ScrollState {
	switch {
	case s.flinger.Active() || s.release != 0:
		return StateFlinging
	case s.dragging:
		return StateDragging
	default:
		return StateIdle
	}
}

// acceptsPending reports whether the pending offset of a possible
// drag is large enough to vote for the drag.
func (a Axis) acceptsPending(pending f32.Point, m unit.Metric) bool {
	switch a {
	case Horizontal:
		return abs(pending.X) > m.Dp(TouchSlop)
	case Vertical:
		return abs(pending.Y) > m.Dp(TouchSlop)
	default:
		return pending.Len() > m.Dp(PanSlop)
	}
}

// isFling reports whether a release with the estimated velocity is a
// fling. Both the speed and the distance must exceed their minimum.
func (a Axis) isFling(est VelocityEstimate, minVelocity, minDistance float32) bool {
	v, d := est.Velocity, est.Offset
	switch a {
	case Horizontal:
		return abs(v.X) > minVelocity && abs(d.X) > minDistance
	case Vertical:
		return abs(v.Y) > minVelocity && abs(d.Y) > minDistance
	default:
		return v.LenSquared() > minVelocity*minVelocity &&
			d.LenSquared() > minDistance*minDistance
	}
}

// project returns the part of delta reported by the axis.
func (a Axis) project(delta f32.Point) f32.Point {
	switch a {
	case Horizontal:
		return f32.Point{X: delta.X}
	case Vertical:
		return f32.Point{Y: delta.Y}
	default:
		return delta
	}
}

// primary returns the component of v along the axis. Both has no
// primary component.
func (a Axis) primary(v f32.Point) (float32, bool) {
	switch a {
	case Horizontal:
		return v.X, true
	case Vertical:
		return v.Y, true
	default:
		return 0, false
	}
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case Both:
		return "Both"
	default:
		panic("invalid Axis")
	}
}

func (s ScrollState) String() string {
	switch s {
	case StateIdle:
		return "StateIdle"
	case StateDragging:
		return "StateDragging"
	case StateFlinging:
		return "StateFlinging"
	default:
		panic("unreachable")
	}
}
