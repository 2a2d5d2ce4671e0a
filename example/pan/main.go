// SPDX-License-Identifier: Unlicense OR MIT

// Pan drags a box around an ebiten window with the mouse or
// fingers. Releasing a fling glides the box to a stop.
package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"dragkit.org/f32"
	"dragkit.org/gesture"
	"dragkit.org/io/router"
	"dragkit.org/unit"
)

const (
	screenW = 640
	screenH = 480
	boxSize = 64
	// glide is the duration in seconds of the movement after
	// a fling.
	glide = 0.3
)

var (
	background = color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}
	boxIdle    = color.RGBA{R: 0x3f, G: 0x51, B: 0xb5, A: 0xff}
	boxActive  = color.RGBA{R: 0x8b, G: 0xc3, B: 0x4a, A: 0xff}
)

type game struct {
	router router.Router
	input  poller
	start  time.Time
	pan    gesture.Drag
	// box is the top left corner of the box.
	box    f32.Point
	glideX *gween.Tween
	glideY *gween.Tween
	status string
}

func main() {
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Pan")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}

func newGame() *game {
	g := &game{
		start:  time.Now(),
		box:    f32.Pt((screenW-boxSize)/2, (screenH-boxSize)/2),
		status: "drag the box",
	}
	g.pan = gesture.Drag{
		Binding: &g.router,
		Axis:    gesture.Both,
		OnStart: func(gesture.DragStartEvent) {
			g.glideX, g.glideY = nil, nil
			g.status = "panning"
		},
		OnUpdate: func(e gesture.DragUpdateEvent) {
			g.box = clampBox(g.box.Add(e.Delta))
		},
		OnEnd: func(e gesture.DragEndEvent) {
			g.release(e.Velocity)
		},
		OnCancel: func() {
			g.status = "cancelled"
		},
	}
	return g
}

// release starts gliding the box after a fling with velocity v.
func (g *game) release(v f32.Point) {
	if v == (f32.Point{}) {
		g.status = "stopped"
		return
	}
	to := glideTarget(g.box, v)
	g.glideX = gween.New(g.box.X, to.X, glide, ease.OutCubic)
	g.glideY = gween.New(g.box.Y, to.Y, glide, ease.OutCubic)
	g.status = fmt.Sprintf("fling at (%.0f, %.0f) px/s", v.X, v.Y)
}

func (g *game) Update() error {
	dt := float32(1 / float64(ebiten.TPS()))
	if g.glideX != nil {
		x, doneX := g.glideX.Update(dt)
		y, doneY := g.glideY.Update(dt)
		g.box = f32.Pt(x, y)
		if doneX && doneY {
			g.glideX, g.glideY = nil, nil
		}
	}
	g.pan.Metric = unit.Metric{PxPerDp: float32(ebiten.Monitor().DeviceScaleFactor())}
	g.router.Register(boxRect(g.box), &g.pan)
	g.input.poll(&g.router, time.Since(g.start))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	c := boxIdle
	if g.pan.State() == gesture.DragAccepted || g.glideX != nil {
		c = boxActive
	}
	r := boxRect(g.box)
	screen.SubImage(image.Rect(
		int(r.Min.X), int(r.Min.Y), int(r.Max.X), int(r.Max.Y),
	)).(*ebiten.Image).Fill(c)
	ebitenutil.DebugPrint(screen, g.status)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func boxRect(p f32.Point) f32.Rectangle {
	return f32.Rect(0, 0, boxSize, boxSize).Add(p)
}

// glideTarget is where a box flung from p with velocity v comes
// to rest.
func glideTarget(p, v f32.Point) f32.Point {
	return clampBox(p.Add(v.Mul(glide)))
}

// clampBox keeps a box at p inside the screen.
func clampBox(p f32.Point) f32.Point {
	return f32.Pt(
		min(max(p.X, 0), screenW-boxSize),
		min(max(p.Y, 0), screenH-boxSize),
	)
}
