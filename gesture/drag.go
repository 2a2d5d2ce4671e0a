// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"dragkit.org/f32"
	"dragkit.org/io/pointer"
	"dragkit.org/unit"
)

// Drag recognizes drag gestures along an Axis. A Drag is
// configured once and reused for any number of drags; it
// tracks every pointer pressed on it but reports a single
// drag at a time.
//
// A press moves the Drag from DragReady to DragPossible and
// reports OnDown. Movement is buffered until it exceeds the
// slop of the axis, at which point the Drag votes for itself
// in the arena. When the arena accepts it, OnStart reports the
// press position followed by an OnUpdate with the buffered
// movement, and further movement is reported as it happens.
// Releasing the last pointer reports OnEnd, or OnCancel if the
// drag was never accepted.
//
// Callbacks are optional. A panicking callback is recovered
// and reported to OnError; the Drag keeps running.
type Drag struct {
	// Binding connects the drag to pointer routing and
	// arbitration. It must be set before the first pointer
	// is added.
	Binding Binding
	// Axis constrains the drag.
	Axis Axis
	// MinFlingDistance is the distance a release must have
	// covered to be a fling. Zero means TouchSlop.
	MinFlingDistance unit.Dp
	// MinFlingVelocity is the release speed, in dp per second,
	// above which the release is a fling. Zero means
	// MinFlingVelocity.
	MinFlingVelocity unit.Dp
	// MaxFlingVelocity caps the reported fling velocity. Zero
	// means MaxFlingVelocity.
	MaxFlingVelocity unit.Dp
	// Metric converts thresholds to pixels.
	Metric unit.Metric

	OnDown   func(DragDownEvent)
	OnStart  func(DragStartEvent)
	OnUpdate func(DragUpdateEvent)
	OnEnd    func(DragEndEvent)
	OnCancel func()

	// NewTracker creates the velocity tracker of a pointer. If
	// nil, a least squares extrapolation is used.
	NewTracker func() VelocityTracker
	// OnError receives recovered callback panics as
	// *CallbackError. If nil, they are logged.
	OnError func(err error)
	// Trace, if set, is called before each callback with the
	// callback name and a description of the invocation.
	Trace func(callback, detail string)

	state           DragState
	initialPosition f32.Point
	pendingOffset   f32.Point
	pendingTime     time.Duration
	trackers        map[pointer.ID]VelocityTracker
	tracked         map[pointer.ID]struct{}
	entries         map[pointer.ID]ArenaEntry
	disposed        bool
}

// DragState is the state of a Drag.
type DragState uint8

const (
	// DragReady means no drag is in progress.
	DragReady DragState = iota
	// DragPossible means a pointer is down but the
	// drag is not yet accepted.
	DragPossible
	// DragAccepted means the drag won its arena and
	// reports movement.
	DragAccepted
)

// DragDownEvent reports a press that may start a drag.
type DragDownEvent struct {
	Position f32.Point
}

// DragStartEvent reports an accepted drag.
type DragStartEvent struct {
	// Time of the last buffered event before acceptance.
	Time time.Duration
	// Position of the press that started the drag.
	Position f32.Point
}

// DragUpdateEvent reports drag movement.
type DragUpdateEvent struct {
	Time time.Duration
	// Delta is the movement projected onto the drag axis.
	Delta f32.Point
	// Primary is the signed movement along the axis of a
	// Horizontal or Vertical drag. HasPrimary is false
	// for Both.
	Primary    float32
	HasPrimary bool
	Position   f32.Point
}

// DragEndEvent reports the release of an accepted drag.
type DragEndEvent struct {
	// Velocity is the fling velocity in pixels per second,
	// or zero if the release was not a fling.
	Velocity f32.Point
	// Primary is the velocity along the axis of a Horizontal
	// or Vertical drag.
	Primary    float32
	HasPrimary bool
}

// CallbackError reports a panic recovered from a Drag callback.
type CallbackError struct {
	// Callback is the name of the callback, such as "OnEnd".
	Callback string
	// Detail describes the invocation, if available.
	Detail string
	// Value is the recovered value.
	Value any
	Stack []byte
}

// AddPointer starts tracking the pointer pressed in e. The pointer's
// events must subsequently be delivered through HandleEvent by the
// routes registered with the Binding.
func (d *Drag) AddPointer(e pointer.Event) {
	if d.disposed {
		return
	}
	d.startTracking(e.PointerID)
	if d.trackers == nil {
		d.trackers = make(map[pointer.ID]VelocityTracker)
	}
	d.trackers[e.PointerID] = d.newTracker()
	switch d.state {
	case DragReady:
		d.state = DragPossible
		d.initialPosition = e.Position
		d.pendingOffset = f32.Point{}
		d.pendingTime = e.Time
		if d.OnDown != nil {
			down := DragDownEvent{Position: d.initialPosition}
			d.invoke("OnDown", "", func() { d.OnDown(down) })
		}
	case DragAccepted:
		// Join the drag in progress.
		d.resolve(Accepted)
	}
}

// HandleEvent processes an event of a tracked pointer.
func (d *Drag) HandleEvent(e pointer.Event) {
	if !e.Synthesized && (e.Kind == pointer.Press || e.Kind == pointer.Move) {
		if t, ok := d.trackers[e.PointerID]; ok {
			t.Sample(e.Time, e.Position)
		}
	}
	if e.Kind == pointer.Move {
		switch d.state {
		case DragAccepted:
			d.update(e.Time, e.Delta, e.Position)
		case DragPossible:
			d.pendingOffset = d.pendingOffset.Add(e.Delta)
			d.pendingTime = e.Time
			if d.Axis.acceptsPending(d.pendingOffset, d.Metric) {
				d.resolve(Accepted)
			}
		}
	}
	if e.Kind == pointer.Release || e.Kind == pointer.Cancel {
		d.stopTracking(e.PointerID)
	}
}

// AcceptGesture implements ArenaMember. The first acceptance of a
// drag reports its start and any movement buffered before it.
func (d *Drag) AcceptGesture(id pointer.ID) {
	if d.state != DragPossible {
		return
	}
	d.state = DragAccepted
	delta, t := d.pendingOffset, d.pendingTime
	d.pendingOffset = f32.Point{}
	d.pendingTime = 0
	if d.OnStart != nil {
		start := DragStartEvent{Time: t, Position: d.initialPosition}
		d.invoke("OnStart", "", func() { d.OnStart(start) })
	}
	if delta != (f32.Point{}) {
		d.update(t, delta, d.initialPosition)
	}
}

// RejectGesture implements ArenaMember.
func (d *Drag) RejectGesture(id pointer.ID) {
	d.stopTracking(id)
}

// State returns the current state of the drag.
func (d *Drag) State() DragState {
	return d.state
}

// Dispose stops tracking all pointers, withdraws from their arenas
// and ignores further pointers. No callbacks are invoked.
func (d *Drag) Dispose() {
	d.disposed = true
	for _, id := range sortedIDs(d.tracked) {
		d.Binding.RemoveRoute(id, d)
	}
	clear(d.tracked)
	d.state = DragReady
	d.pendingOffset = f32.Point{}
	d.resolve(Rejected)
	clear(d.trackers)
}

func (d *Drag) update(t time.Duration, delta, pos f32.Point) {
	if d.OnUpdate == nil {
		return
	}
	e := DragUpdateEvent{
		Time:     t,
		Delta:    d.Axis.project(delta),
		Position: pos,
	}
	e.Primary, e.HasPrimary = d.Axis.primary(delta)
	d.invoke("OnUpdate", "", func() { d.OnUpdate(e) })
}

func (d *Drag) startTracking(id pointer.ID) {
	if d.tracked == nil {
		d.tracked = make(map[pointer.ID]struct{})
		d.entries = make(map[pointer.ID]ArenaEntry)
	}
	d.Binding.AddRoute(id, d)
	d.tracked[id] = struct{}{}
	d.entries[id] = d.Binding.AddMember(id, d)
}

func (d *Drag) stopTracking(id pointer.ID) {
	if _, ok := d.tracked[id]; !ok {
		return
	}
	d.Binding.RemoveRoute(id, d)
	delete(d.tracked, id)
	if len(d.tracked) == 0 {
		d.stoppedTrackingLast(id)
	}
}

// stoppedTrackingLast ends the drag after its last pointer, id,
// is gone.
func (d *Drag) stoppedTrackingLast(id pointer.ID) {
	tracker := d.trackers[id]
	clear(d.trackers)
	switch d.state {
	case DragPossible:
		d.resolve(Rejected)
		d.state = DragReady
		d.pendingOffset = f32.Point{}
		if d.OnCancel != nil {
			d.invoke("OnCancel", "", d.OnCancel)
		}
	case DragAccepted:
		d.state = DragReady
		// Drop entries of pointers the arena accepted without
		// a vote.
		clear(d.entries)
		if d.OnEnd != nil {
			e, detail := d.release(tracker)
			d.invoke("OnEnd", detail, func() { d.OnEnd(e) })
		}
	}
}

// release classifies the end of a drag as a fling or a stop.
func (d *Drag) release(tracker VelocityTracker) (DragEndEvent, string) {
	var e DragEndEvent
	var detail string
	var est VelocityEstimate
	ok := tracker != nil
	if ok {
		est, ok = tracker.Estimate()
	}
	minVelocity := d.Metric.Dp(orDefault(d.MinFlingVelocity, MinFlingVelocity))
	maxVelocity := d.Metric.Dp(orDefault(d.MaxFlingVelocity, MaxFlingVelocity))
	minDistance := d.Metric.Dp(orDefault(d.MinFlingDistance, TouchSlop))
	switch {
	case !ok:
		detail = "could not estimate velocity"
	case !d.Axis.isFling(est, minVelocity, minDistance):
		detail = fmt.Sprintf("%v; judged to not be a fling", est)
	default:
		e.Velocity = est.Velocity.ClampLen(minVelocity, maxVelocity)
		detail = fmt.Sprintf("%v; fling at (%.1f, %.1f) px/s", est, e.Velocity.X, e.Velocity.Y)
	}
	e.Primary, e.HasPrimary = d.Axis.primary(e.Velocity)
	return e, detail
}

// resolve casts d's vote in the arenas of every pointer it has not
// voted for yet.
func (d *Drag) resolve(disp Disposition) {
	ids := sortedIDs(d.entries)
	entries := make([]ArenaEntry, len(ids))
	for i, id := range ids {
		entries[i] = d.entries[id]
	}
	clear(d.entries)
	for _, e := range entries {
		e.Resolve(disp)
	}
}

func (d *Drag) newTracker() VelocityTracker {
	if d.NewTracker != nil {
		return d.NewTracker()
	}
	return newVelocityTracker()
}

// invoke runs a callback after tracing it. A panic in Trace doesn't
// prevent the callback from running.
func (d *Drag) invoke(name, detail string, f func()) {
	if d.Trace != nil {
		d.guard("Trace", "tracing "+name, func() { d.Trace(name, detail) })
	}
	d.guard(name, detail, f)
}

// guard runs f, recovering and reporting a panic.
func (d *Drag) guard(name, detail string, f func()) {
	defer func() {
		if v := recover(); v != nil {
			err := &CallbackError{Callback: name, Detail: detail, Value: v, Stack: debug.Stack()}
			if d.OnError != nil {
				d.OnError(err)
			} else {
				log.Printf("gesture: %v", err)
			}
		}
	}()
	f()
}

func orDefault(v, def unit.Dp) unit.Dp {
	if v == 0 {
		return def
	}
	return v
}

func sortedIDs[V any](m map[pointer.ID]V) []pointer.ID {
	ids := maps.Keys(m)
	slices.Sort(ids)
	return ids
}

func (e *CallbackError) Error() string {
	msg := fmt.Sprintf("%s panicked: %v", e.Callback, e.Value)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the recovered value if it is an error.
func (e *CallbackError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func (s DragState) String() string {
	switch s {
	case DragReady:
		return "DragReady"
	case DragPossible:
		return "DragPossible"
	case DragAccepted:
		return "DragAccepted"
	default:
		panic("invalid DragState")
	}
}
