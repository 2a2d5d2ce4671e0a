// SPDX-License-Identifier: Unlicense OR MIT

/*
Package router implements Router, an event.Queue implementation
that routes pointer events to gesture recognizers and runs the
arena deciding which recognizer wins each pointer.

A Press is offered to every handler whose area contains it, the
foremost (most recently registered) first. Handlers track the
pointer by adding routes and arena members through the
gesture.Binding methods of the Router.
*/
package router

import (
	"dragkit.org/f32"
	"dragkit.org/gesture"
	"dragkit.org/io/event"
	"dragkit.org/io/pointer"
)

// Router is a gesture.Binding that dispatches pointer events
// to recognizers.
//
// The zero Router is ready to use. A Router must not be used
// concurrently.
type Router struct {
	pointer pointerQueue
	arena   arena
}

// Handler is notified of pointers pressed on its area.
type Handler interface {
	AddPointer(e pointer.Event)
}

// Register adds h to the handlers hit-tested on every Press,
// or updates its area if it is already registered.
func (q *Router) Register(area f32.Rectangle, h Handler) {
	q.pointer.register(area, h)
}

// Unregister removes h. Pointers already tracked by h keep
// being routed to it.
func (q *Router) Unregister(h Handler) {
	q.pointer.unregister(h)
}

// Queue implements event.Queue. Events other than pointer events
// are ignored.
func (q *Router) Queue(events ...event.Event) bool {
	handled := false
	for _, e := range events {
		switch e := e.(type) {
		case pointer.Event:
			if q.push(e) {
				handled = true
			}
		}
	}
	return handled
}

func (q *Router) push(e pointer.Event) bool {
	e = q.pointer.track(e)
	handled := false
	if e.Kind == pointer.Press {
		for _, h := range q.pointer.hit(e.Position) {
			h.AddPointer(e)
			handled = true
		}
	}
	if q.pointer.route(e) {
		handled = true
	}
	switch e.Kind {
	case pointer.Press:
		q.arena.close(e.PointerID)
	case pointer.Release:
		q.arena.sweep(e.PointerID)
	case pointer.Cancel:
		q.arena.release(e.PointerID)
	}
	// Run the default resolutions scheduled while
	// dispatching.
	q.arena.flush()
	return handled
}

// AddRoute implements gesture.Binding.
func (q *Router) AddRoute(id pointer.ID, r gesture.PointerRoute) {
	q.pointer.addRoute(id, r)
}

// RemoveRoute implements gesture.Binding.
func (q *Router) RemoveRoute(id pointer.ID, r gesture.PointerRoute) {
	q.pointer.removeRoute(id, r)
}

// AddMember implements gesture.Binding.
func (q *Router) AddMember(id pointer.ID, m gesture.ArenaMember) gesture.ArenaEntry {
	return q.arena.add(id, m)
}
