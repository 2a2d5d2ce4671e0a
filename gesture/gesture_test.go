// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"testing"
	"time"

	"dragkit.org/f32"
)

func TestScroll(t *testing.T) {
	b := &fakeBinding{eager: true}
	s := &Scroll{Binding: b, Axis: Vertical}
	now := time.Unix(0, 0)
	f := finger{id: 1}

	b.press(s, f.press(0, 0, 100))
	if got := s.State(); got != StateIdle {
		t.Fatalf("state %v before the slop", got)
	}
	b.dispatch(f.move(10, 0, 70))
	if got := s.State(); got != StateDragging {
		t.Fatalf("state %v while dragging", got)
	}
	if got := s.Scroll(now); got != 30 {
		t.Errorf("scrolled %d, want 30", got)
	}
	for i, y := range []float32{50, 30, 10} {
		b.dispatch(f.move(20+10*i, 0, y))
	}
	if got := s.Scroll(now); got != 60 {
		t.Errorf("scrolled %d, want 60", got)
	}

	b.dispatch(f.release(50))
	if got := s.State(); got != StateFlinging {
		t.Fatalf("state %v after a fast release", got)
	}
	if got := s.Scroll(now); got != 0 {
		t.Errorf("fling moved %d at its start", got)
	}
	if got := s.Scroll(now.Add(100 * time.Millisecond)); got <= 0 {
		t.Errorf("fling moved %d, want forward movement", got)
	}
	s.Stop()
	if got := s.State(); got != StateIdle {
		t.Errorf("state %v after Stop", got)
	}
}

func TestScrollSlowRelease(t *testing.T) {
	b := &fakeBinding{eager: true}
	s := &Scroll{Binding: b, Axis: Horizontal}
	f := finger{id: 1}
	b.press(s, f.press(0, 0, 0))
	b.dispatch(f.move(10, 25, 0))
	b.dispatch(f.move(200, 25, 0))
	b.dispatch(f.release(210))
	if got := s.State(); got != StateIdle {
		t.Errorf("state %v after a slow release", got)
	}
	if got := s.Scroll(time.Unix(0, 0)); got != -25 {
		t.Errorf("scrolled %d, want -25", got)
	}
}

func TestScrollDispose(t *testing.T) {
	b := &fakeBinding{eager: true}
	s := &Scroll{Binding: b, Axis: Vertical}
	f := finger{id: 1}
	b.press(s, f.press(0, 0, 0))
	s.Dispose()
	if len(b.routes) != 0 {
		t.Errorf("routes left after Dispose: %v", b.routes)
	}
}

func TestExtrapolationTracker(t *testing.T) {
	tr := newVelocityTracker()
	if _, ok := tr.Estimate(); ok {
		t.Fatal("estimate without samples")
	}
	for i := 0; i < 5; i++ {
		tr.Sample(ms(8*i), f32.Pt(float32(-4*i), float32(8*i)))
	}
	est, ok := tr.Estimate()
	if !ok {
		t.Fatal("no estimate")
	}
	if !near(est.Velocity.X, -500, 5) || !near(est.Velocity.Y, 1000, 10) {
		t.Errorf("velocity %v, want (-500, 1000)", est.Velocity)
	}
	if !near(est.Offset.X, -16, 0.001) || !near(est.Offset.Y, 32, 0.001) || est.Duration != ms(32) {
		t.Errorf("estimate %v", est)
	}
}

func TestAxisString(t *testing.T) {
	for a, want := range map[Axis]string{Horizontal: "Horizontal", Vertical: "Vertical", Both: "Both"} {
		if got := a.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if got := Accepted.String(); got != "Accepted" {
		t.Errorf("got %q", got)
	}
	if got := DragPossible.String(); got != "DragPossible" {
		t.Errorf("got %q", got)
	}
}
