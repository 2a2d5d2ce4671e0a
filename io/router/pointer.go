// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"golang.org/x/exp/slices"

	"dragkit.org/f32"
	"dragkit.org/gesture"
	"dragkit.org/io/pointer"
)

type pointerQueue struct {
	handlers []handlerArea
	pointers []pointerInfo
	routes   map[pointer.ID][]gesture.PointerRoute
}

type handlerArea struct {
	area f32.Rectangle
	h    Handler
}

type pointerInfo struct {
	id pointer.ID
	// last is the position of the most recent event.
	last f32.Point
}

func (q *pointerQueue) register(area f32.Rectangle, h Handler) {
	for i := range q.handlers {
		if q.handlers[i].h == h {
			q.handlers[i].area = area
			return
		}
	}
	q.handlers = append(q.handlers, handlerArea{area: area, h: h})
}

func (q *pointerQueue) unregister(h Handler) {
	q.handlers = slices.DeleteFunc(q.handlers, func(a handlerArea) bool {
		return a.h == h
	})
}

// track updates the pointer state for e and fills in its Delta.
func (q *pointerQueue) track(e pointer.Event) pointer.Event {
	pidx := slices.IndexFunc(q.pointers, func(p pointerInfo) bool {
		return p.id == e.PointerID
	})
	if pidx == -1 {
		q.pointers = append(q.pointers, pointerInfo{id: e.PointerID, last: e.Position})
		pidx = len(q.pointers) - 1
	}
	p := &q.pointers[pidx]
	switch e.Kind {
	case pointer.Press, pointer.Cancel:
		e.Delta = f32.Point{}
	default:
		e.Delta = e.Position.Sub(p.last)
	}
	p.last = e.Position
	if e.Kind == pointer.Release || e.Kind == pointer.Cancel {
		// No longer need to track pointer.
		q.pointers = slices.Delete(q.pointers, pidx, pidx+1)
	}
	return e
}

// hit returns the handlers whose area contain pos, foremost first.
func (q *pointerQueue) hit(pos f32.Point) []Handler {
	var hits []Handler
	for i := len(q.handlers) - 1; i >= 0; i-- {
		if a := q.handlers[i]; a.area.Contains(pos) {
			hits = append(hits, a.h)
		}
	}
	return hits
}

func (q *pointerQueue) addRoute(id pointer.ID, r gesture.PointerRoute) {
	if q.routes == nil {
		q.routes = make(map[pointer.ID][]gesture.PointerRoute)
	}
	q.routes[id] = append(q.routes[id], r)
}

func (q *pointerQueue) removeRoute(id pointer.ID, r gesture.PointerRoute) {
	rs := q.routes[id]
	if i := slices.Index(rs, r); i != -1 {
		// Copy to leave slices being iterated by route intact.
		rs = slices.Delete(slices.Clone(rs), i, i+1)
	}
	if len(rs) == 0 {
		delete(q.routes, id)
	} else {
		q.routes[id] = rs
	}
}

// route delivers e to the routes of its pointer. Routes removed
// during delivery don't receive e.
func (q *pointerQueue) route(e pointer.Event) bool {
	rs := q.routes[e.PointerID]
	for _, r := range rs {
		if slices.Contains(q.routes[e.PointerID], r) {
			r.HandleEvent(e)
		}
	}
	return len(rs) > 0
}
