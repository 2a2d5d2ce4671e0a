// SPDX-License-Identifier: Unlicense OR MIT

/*
Package pointer implements pointer events.

A pointer is a touch contact, mouse or pen, identified by an ID that
is stable from its Press to its Release or Cancel. Gesture recognizers
consume sequences of Events for one or more pointers.
*/
package pointer

import (
	"time"

	"dragkit.org/f32"
)

// Event is a pointer event.
type Event struct {
	Kind   Kind
	Source Source
	// PointerID is the id for the pointer and can be used
	// to track a particular pointer from Press to
	// Release or Cancel.
	PointerID ID
	// Time is when the event was received. The
	// timestamp is relative to an undefined base.
	Time time.Duration
	// Position is the coordinates of the event in pixels.
	Position f32.Point
	// Delta is the movement since the previous event for
	// the same pointer. It is zero for Press events and is
	// filled in by the router.
	Delta f32.Point
	// Synthesized marks events generated by the input layer
	// rather than reported by the device, for example the
	// Release emitted for a touch that vanished between frames.
	// Synthesized events don't contribute velocity samples.
	Synthesized bool
}

// ID identifies a pointer from its Press until its Release
// or Cancel. IDs may be reused afterwards.
type ID uint16

// Kind of an Event.
type Kind uint8

// Source of an Event.
type Source uint8

const (
	// A Cancel event is generated when the current gesture is
	// interrupted by other handlers or the system.
	Cancel Kind = iota
	// Press of a pointer.
	Press
	// Release of a pointer.
	Release
	// Move of a pointer.
	Move
)

const (
	// Mouse generated event.
	Mouse Source = iota
	// Touch generated event.
	Touch
)

func (t Kind) String() string {
	switch t {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Cancel:
		return "Cancel"
	case Move:
		return "Move"
	default:
		panic("invalid Kind")
	}
}

func (s Source) String() string {
	switch s {
	case Mouse:
		return "Mouse"
	case Touch:
		return "Touch"
	default:
		panic("invalid Source")
	}
}

func (Event) ImplementsEvent() {}
