package game

import "github.com/iburimskiy/inferno/internal/config"

type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

type action int

const (
	actionNone action = iota
	actionPull
	actionReset
	actionSound
)

type button struct {
	label  string
	action action
	r      rect
}

// buttons are stacked down the left edge.
func buttons() []button {
	labels := []struct {
		label  string
		action action
	}{
		{"Pull Lever", actionPull},
		{"Reset", actionReset},
		{"Sound...", actionSound},
	}
	out := make([]button, len(labels))
	for i, l := range labels {
		out[i] = button{
			label:  l.label,
			action: l.action,
			r: rect{
				X: config.ButtonX,
				Y: float64(config.ButtonY + i*(config.ButtonHeight+config.ButtonGap)),
				W: config.ButtonWidth,
				H: config.ButtonHeight,
			},
		}
	}
	return out
}

// hitButton returns the index of the button under (x, y), or -1.
func hitButton(bs []button, x, y float64) int {
	for i, b := range bs {
		if b.r.contains(x, y) {
			return i
		}
	}
	return -1
}

func gobletRect() rect {
	return rect{X: config.GobletX, Y: config.GobletTop, W: config.GobletWidth, H: config.GobletDepth}
}

// liquidRect is the filled part of the goblet for a fill offset measured
// down from the goblet's top.
func liquidRect(fillY float64) rect {
	g := gobletRect()
	if fillY < 0 {
		fillY = 0
	}
	if fillY > g.H {
		fillY = g.H
	}
	return rect{X: g.X, Y: g.Y + fillY, W: g.W, H: g.H - fillY}
}

// leverRect is the clickable lever housing right of the goblet.
func leverRect() rect {
	g := gobletRect()
	return rect{X: g.X + g.W + 40, Y: g.Y + g.H/2 - 10, W: 24, H: g.H/2 + 10}
}

// leverEnd returns the knob position: raised while idle, lowered once pulled.
func leverEnd(pulled bool) (x, y float64) {
	l := leverRect()
	px, py := l.X+l.W/2, l.Y+l.H/2
	if pulled {
		return px + 30, py + 45
	}
	return px + 30, py - 45
}

func noteRect() rect {
	return rect{X: config.NoteX, Y: config.NoteY, W: config.NoteWidth, H: config.NoteHeight}
}

// fireOrigin is the top of the fire band, which sits on the bottom edge.
func fireOrigin(height, band int) float64 {
	if band > height {
		band = height
	}
	return float64(height - band)
}
