// SPDX-License-Identifier: Unlicense OR MIT

// Command dragtrace is a terminal playground for drag recognizers.
// Drag with the mouse in the left pane to scroll a list or swipe
// it sideways; the two recognizers compete for every press. The
// right pane pans a box. Recognizer callbacks are logged at the
// bottom of the screen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"dragkit.org/unit"
)

var (
	pxPerDp    = flag.Float64("px-per-dp", 1, "pixels per dp, scaling slops and fling velocities.")
	cellWidth  = flag.Int("cell-width", 8, "width of a terminal cell in pixels.")
	cellHeight = flag.Int("cell-height", 16, "height of a terminal cell in pixels.")
	frameRate  = flag.Int("fps", 60, "frames per second while animating.")
)

func main() {
	flag.Parse()
	if err := mainErr(); err != nil {
		fmt.Fprintf(os.Stderr, "dragtrace: %v\n", err)
		os.Exit(1)
	}
}

func mainErr() error {
	if *cellWidth <= 0 || *cellHeight <= 0 {
		return errors.New("cell dimensions must be positive")
	}
	if *frameRate <= 0 {
		return fmt.Errorf("invalid -fps %d", *frameRate)
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	t := newTracer(screen, unit.Metric{PxPerDp: float32(*pxPerDp)})
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return pump(screen.PollEvent, events, done)
	})
	g.Go(func() error {
		defer close(done)
		defer screen.Fini()
		return t.run(ctx, events, time.Second/time.Duration(*frameRate))
	})
	return g.Wait()
}

// pump forwards polled events until poll returns nil, as
// tcell.Screen.PollEvent does after Fini, or done is closed.
func pump(poll func() tcell.Event, events chan<- tcell.Event, done <-chan struct{}) error {
	defer close(events)
	for {
		ev := poll()
		if ev == nil {
			return nil
		}
		select {
		case events <- ev:
		case <-done:
			return nil
		}
	}
}
