// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"dragkit.org/io/pointer"
)

// Binding connects recognizers to pointer event routing and to the
// arena deciding which of the recognizers interested in a pointer
// wins it.
type Binding interface {
	// AddRoute directs the events of pointer id to r until
	// RemoveRoute is called.
	AddRoute(id pointer.ID, r PointerRoute)
	RemoveRoute(id pointer.ID, r PointerRoute)
	// AddMember enters m into the arena for pointer id. The
	// arena later calls AcceptGesture or RejectGesture on m,
	// possibly from within a call to the returned entry's
	// Resolve.
	AddMember(id pointer.ID, m ArenaMember) ArenaEntry
}

// PointerRoute receives the events of the pointers routed to it.
type PointerRoute interface {
	HandleEvent(e pointer.Event)
}

// ArenaMember is notified of the outcome of an arena.
type ArenaMember interface {
	AcceptGesture(id pointer.ID)
	RejectGesture(id pointer.ID)
}

// ArenaEntry is a member's vote in the arena of one pointer.
// Resolving an entry of an already decided arena does nothing.
type ArenaEntry interface {
	Resolve(d Disposition)
}

// Disposition is a vote in an arena.
type Disposition uint8

const (
	// Accepted claims the pointer for the voting member.
	Accepted Disposition = iota
	// Rejected withdraws the member from the arena.
	Rejected
)

func (d Disposition) String() string {
	switch d {
	case Accepted:
		return "Accepted"
	case Rejected:
		return "Rejected"
	default:
		panic("invalid Disposition")
	}
}
