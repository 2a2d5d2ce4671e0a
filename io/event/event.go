// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains the types shared by event sources and
// event routers.
package event

// Queue accepts events from an input source, such as a window
// or terminal, for delivery to handlers.
type Queue interface {
	// Queue delivers events in order and reports whether any
	// of them reached a handler.
	Queue(events ...Event) bool
}

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}
