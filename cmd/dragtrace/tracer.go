// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"dragkit.org/f32"
	"dragkit.org/gesture"
	"dragkit.org/io/pointer"
	"dragkit.org/io/router"
	"dragkit.org/unit"
)

// logLines is the height of the callback log.
const logLines = 8

type tracer struct {
	screen tcell.Screen
	router router.Router
	// start is the origin of pointer event times.
	start         time.Time
	width, height int
	pressed       bool

	list      gesture.Scroll
	listState gesture.ScrollState
	// scrolled is the list offset in pixels.
	scrolled int
	swipe    gesture.Drag
	// swiped is the horizontal list offset in pixels.
	swiped float32

	pan gesture.Drag
	// box is the position of the panned box in pixels.
	box f32.Point

	lines []logLine
}

type logLine struct {
	text string
	err  bool
}

var (
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBox    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleActive = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

func newTracer(screen tcell.Screen, m unit.Metric) *tracer {
	t := &tracer{screen: screen, start: time.Now()}
	t.list = gesture.Scroll{Binding: &t.router, Axis: gesture.Vertical, Metric: m}
	t.swipe = gesture.Drag{
		Binding: &t.router,
		Axis:    gesture.Horizontal,
		Metric:  m,
		OnDown: func(e gesture.DragDownEvent) {
			t.logf("swipe down at (%.0f, %.0f)", e.Position.X, e.Position.Y)
		},
		OnStart: func(gesture.DragStartEvent) {
			t.logf("swipe start")
		},
		OnUpdate: func(e gesture.DragUpdateEvent) {
			t.swiped += e.Primary
		},
		OnEnd: func(e gesture.DragEndEvent) {
			t.logf("swipe end, velocity %v/s", m.PxToDp(e.Primary))
			t.swiped = 0
		},
		OnCancel: func() {
			t.logf("swipe cancel")
		},
		OnError: t.errorf,
	}
	t.pan = gesture.Drag{
		Binding: &t.router,
		Axis:    gesture.Both,
		Metric:  m,
		OnDown: func(e gesture.DragDownEvent) {
			t.logf("pan down at (%.0f, %.0f)", e.Position.X, e.Position.Y)
		},
		OnStart: func(gesture.DragStartEvent) {
			t.logf("pan start")
		},
		OnUpdate: func(e gesture.DragUpdateEvent) {
			t.box = t.box.Add(e.Delta)
		},
		OnCancel: func() {
			t.logf("pan cancel")
		},
		OnEnd: func(gesture.DragEndEvent) {},
		Trace: func(callback, detail string) {
			if callback == "OnEnd" {
				t.logf("pan end: %s", detail)
			}
		},
		OnError: t.errorf,
	}
	t.layout()
	t.box = t.cellCenter(t.width*3/4, t.bodyHeight()/2)
	return t
}

func (t *tracer) run(ctx context.Context, events <-chan tcell.Event, frame time.Duration) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	t.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.handle(ev) {
				return nil
			}
			t.draw()
		case now := <-ticker.C:
			if t.list.State() == gesture.StateIdle {
				continue
			}
			t.scrolled += t.list.Scroll(now)
			t.draw()
		}
	}
}

// handle processes a terminal event and reports whether to keep
// running.
func (t *tracer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if quits(ev.Key(), ev.Rune()) {
			return false
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.layout()
	case *tcell.EventMouse:
		t.mouse(ev)
	}
	return true
}

func quits(k tcell.Key, r rune) bool {
	return k == tcell.KeyEscape || k == tcell.KeyCtrlC || (k == tcell.KeyRune && r == 'q')
}

// mouse converts the button state of a terminal mouse event to
// pointer events.
func (t *tracer) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	e := pointer.Event{
		Source:   pointer.Mouse,
		Time:     ev.When().Sub(t.start),
		Position: t.cellCenter(x, y),
	}
	switch {
	case down && !t.pressed:
		e.Kind = pointer.Press
	case !down && t.pressed:
		e.Kind = pointer.Release
	default:
		e.Kind = pointer.Move
	}
	t.pressed = down
	t.router.Queue(e)
	if s := t.list.State(); s != t.listState {
		t.logf("list %v", s)
		t.listState = s
	}
}

// layout registers the pane areas for the current screen size.
func (t *tracer) layout() {
	t.width, t.height = t.screen.Size()
	half := t.width / 2
	cw, ch := float32(*cellWidth), float32(*cellHeight)
	bottom := float32(t.bodyHeight()) * ch
	left := f32.Rect(0, 0, float32(half)*cw, bottom)
	right := f32.Rect(float32(half+1)*cw, 0, float32(t.width)*cw, bottom)
	t.router.Register(left, &t.list)
	t.router.Register(left, &t.swipe)
	t.router.Register(right, &t.pan)
}

func (t *tracer) bodyHeight() int {
	return max(t.height-logLines-1, 1)
}

func (t *tracer) cellCenter(x, y int) f32.Point {
	return f32.Pt(
		(float32(x)+.5)*float32(*cellWidth),
		(float32(y)+.5)*float32(*cellHeight),
	)
}

func (t *tracer) draw() {
	s := t.screen
	s.Clear()
	half, body := t.width/2, t.bodyHeight()
	for y := 0; y < body; y++ {
		s.SetContent(half, y, '│', nil, styleDim)
	}
	// List.
	style := styleText
	if t.list.State() != gesture.StateIdle || t.swipe.State() == gesture.DragAccepted {
		style = styleActive
	}
	first := floorDiv(t.scrolled, *cellHeight)
	shift := int(t.swiped) / *cellWidth
	for y := 0; y < body; y++ {
		t.text(shift+1, y, half, style, fmt.Sprintf("item %d", first+y))
	}
	// Box.
	bx := int(t.box.X) / *cellWidth
	by := int(t.box.Y) / *cellHeight
	if bx > half && bx < t.width && by >= 0 && by < body {
		style := styleBox
		if t.pan.State() == gesture.DragAccepted {
			style = styleActive
		}
		s.SetContent(bx, by, '█', nil, style)
	}
	// Log.
	for x := 0; x < t.width; x++ {
		s.SetContent(x, body, '─', nil, styleDim)
	}
	t.text(1, body, t.width, styleDim, " q quits ")
	for i, l := range t.lines {
		st := styleText
		if l.err {
			st = styleError
		}
		t.text(0, body+1+i, t.width, st, l.text)
	}
	s.Show()
}

// text draws s from column x up to, but excluding, column end.
func (t *tracer) text(x, y, end int, style tcell.Style, s string) {
	for _, r := range s {
		if x >= end {
			return
		}
		if x >= 0 {
			t.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func (t *tracer) logf(format string, args ...any) {
	t.log(false, fmt.Sprintf(format, args...))
}

func (t *tracer) errorf(err error) {
	t.log(true, err.Error())
}

func (t *tracer) log(err bool, msg string) {
	l := logLine{
		text: fmt.Sprintf("%8.3fs %s", time.Since(t.start).Seconds(), msg),
		err:  err,
	}
	t.lines = append(t.lines, l)
	if n := len(t.lines); n > logLines {
		t.lines = t.lines[n-logLines:]
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
