// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"golang.org/x/exp/slices"

	"dragkit.org/gesture"
	"dragkit.org/io/pointer"
)

// arena decides which of the members interested in a pointer
// wins it.
type arena struct {
	arenas map[pointer.ID]*arenaState
	// deferred holds resolutions to run once the current
	// event is dispatched.
	deferred []func()
}

type arenaState struct {
	members []gesture.ArenaMember
	// open is true while members may join.
	open bool
	// eagerWinner is the first member to accept while the
	// arena was open.
	eagerWinner gesture.ArenaMember
}

type arenaEntry struct {
	a  *arena
	id pointer.ID
	m  gesture.ArenaMember
}

func (a *arena) add(id pointer.ID, m gesture.ArenaMember) *arenaEntry {
	if a.arenas == nil {
		a.arenas = make(map[pointer.ID]*arenaState)
	}
	s, ok := a.arenas[id]
	if !ok {
		s = &arenaState{open: true}
		a.arenas[id] = s
	}
	s.members = append(s.members, m)
	return &arenaEntry{a: a, id: id, m: m}
}

func (e *arenaEntry) Resolve(d gesture.Disposition) {
	e.a.resolve(e.id, e.m, d)
}

// close prevents new members from joining and tries to decide
// the arena.
func (a *arena) close(id pointer.ID) {
	s, ok := a.arenas[id]
	if !ok {
		return
	}
	s.open = false
	a.tryResolve(id, s)
}

// sweep decides an undecided arena in favor of its first member.
func (a *arena) sweep(id pointer.ID) {
	s, ok := a.arenas[id]
	if !ok {
		return
	}
	delete(a.arenas, id)
	if len(s.members) == 0 {
		return
	}
	s.members[0].AcceptGesture(id)
	for _, m := range s.members[1:] {
		m.RejectGesture(id)
	}
}

// release rejects every member of an undecided arena.
func (a *arena) release(id pointer.ID) {
	s, ok := a.arenas[id]
	if !ok {
		return
	}
	delete(a.arenas, id)
	for _, m := range s.members {
		m.RejectGesture(id)
	}
}

func (a *arena) resolve(id pointer.ID, m gesture.ArenaMember, d gesture.Disposition) {
	s, ok := a.arenas[id]
	if !ok {
		// Already decided.
		return
	}
	i := slices.Index(s.members, m)
	if i == -1 {
		return
	}
	switch d {
	case gesture.Rejected:
		s.members = slices.Delete(s.members, i, i+1)
		if s.eagerWinner == m {
			s.eagerWinner = nil
		}
		m.RejectGesture(id)
		if !s.open && a.arenas[id] == s {
			a.tryResolve(id, s)
		}
	case gesture.Accepted:
		if s.open {
			if s.eagerWinner == nil {
				s.eagerWinner = m
			}
		} else {
			a.resolveInFavorOf(id, s, m)
		}
	}
}

func (a *arena) tryResolve(id pointer.ID, s *arenaState) {
	switch {
	case len(s.members) == 1:
		a.deferred = append(a.deferred, func() {
			a.resolveByDefault(id, s)
		})
	case len(s.members) == 0:
		delete(a.arenas, id)
	case s.eagerWinner != nil:
		a.resolveInFavorOf(id, s, s.eagerWinner)
	}
}

func (a *arena) resolveByDefault(id pointer.ID, s *arenaState) {
	if a.arenas[id] != s || len(s.members) != 1 {
		// Decided in the meantime.
		return
	}
	delete(a.arenas, id)
	s.members[0].AcceptGesture(id)
}

func (a *arena) resolveInFavorOf(id pointer.ID, s *arenaState, winner gesture.ArenaMember) {
	delete(a.arenas, id)
	for _, m := range s.members {
		if m != winner {
			m.RejectGesture(id)
		}
	}
	winner.AcceptGesture(id)
}

// flush runs the deferred resolutions, including those scheduled
// while flushing.
func (a *arena) flush() {
	for len(a.deferred) > 0 {
		f := a.deferred[0]
		a.deferred = a.deferred[1:]
		f()
	}
}
