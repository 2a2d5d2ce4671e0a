// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"dragkit.org/f32"
	"dragkit.org/io/event"
	"dragkit.org/io/pointer"
)

// mousePointer is the pointer of the mouse. Touches use the
// pointers above it.
const mousePointer pointer.ID = 0

// poller turns the ebiten input state of each frame into pointer
// events.
type poller struct {
	mouseDown bool
	mouse     f32.Point
	// touches maps active touches to their last position.
	touches map[ebiten.TouchID]f32.Point
	// slots maps active touches to their pointers.
	slots map[ebiten.TouchID]pointer.ID
	ids     []ebiten.TouchID
	events  []event.Event
}

func (p *poller) poll(q event.Queue, t time.Duration) {
	mx, my := ebiten.CursorPosition()
	p.pollMouse(t, f32.Pt(float32(mx), float32(my)), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	p.ids = ebiten.AppendTouchIDs(p.ids[:0])
	touches := make(map[ebiten.TouchID]f32.Point, len(p.ids))
	for _, id := range p.ids {
		x, y := ebiten.TouchPosition(id)
		touches[id] = f32.Pt(float32(x), float32(y))
	}
	p.pollTouches(t, touches)
	if len(p.events) > 0 {
		q.Queue(p.events...)
		p.events = p.events[:0]
	}
}

func (p *poller) pollMouse(t time.Duration, pos f32.Point, down bool) {
	e := pointer.Event{
		Source:    pointer.Mouse,
		PointerID: mousePointer,
		Time:      t,
		Position:  pos,
	}
	switch {
	case down && !p.mouseDown:
		e.Kind = pointer.Press
	case !down && p.mouseDown:
		e.Kind = pointer.Release
	case pos != p.mouse:
		e.Kind = pointer.Move
	default:
		return
	}
	p.mouseDown, p.mouse = down, pos
	p.events = append(p.events, e)
}

// pollTouches compares the active touches with those of the
// previous frame.
func (p *poller) pollTouches(t time.Duration, touches map[ebiten.TouchID]f32.Point) {
	for _, id := range sortedTouches(p.touches) {
		if _, ok := touches[id]; !ok {
			// The touch ended between frames.
			e := p.touch(pointer.Release, t, id, p.touches[id])
			e.Synthesized = true
			p.events = append(p.events, e)
			delete(p.touches, id)
			delete(p.slots, id)
		}
	}
	if p.touches == nil {
		p.touches = make(map[ebiten.TouchID]f32.Point)
	}
	for _, id := range sortedTouches(touches) {
		pos := touches[id]
		last, ok := p.touches[id]
		switch {
		case !ok:
			p.events = append(p.events, p.touch(pointer.Press, t, id, pos))
		case pos != last:
			p.events = append(p.events, p.touch(pointer.Move, t, id, pos))
		}
		p.touches[id] = pos
	}
}

func (p *poller) touch(kind pointer.Kind, t time.Duration, id ebiten.TouchID, pos f32.Point) pointer.Event {
	return pointer.Event{
		Kind:      kind,
		Source:    pointer.Touch,
		PointerID: p.slot(id),
		Time:      t,
		Position:  pos,
	}
}

// slot returns the pointer of touch id, allocating the lowest free
// pointer above the mouse's for a new touch.
func (p *poller) slot(id ebiten.TouchID) pointer.ID {
	if s, ok := p.slots[id]; ok {
		return s
	}
	if p.slots == nil {
		p.slots = make(map[ebiten.TouchID]pointer.ID)
	}
	used := maps.Values(p.slots)
	s := mousePointer + 1
	for slices.Contains(used, s) {
		s++
	}
	p.slots[id] = s
	return s
}

func sortedTouches(m map[ebiten.TouchID]f32.Point) []ebiten.TouchID {
	ids := maps.Keys(m)
	slices.Sort(ids)
	return ids
}
