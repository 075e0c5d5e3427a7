// Package game is the desktop front-end: an ebiten game that drives the
// simulation once per update and draws the fire band, the goblet gauge, the
// lever and the parchment note.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/inferno/internal/audio"
	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/inferno"
	"github.com/iburimskiy/inferno/internal/pointer"
)

const (
	// Note glow smoothing
	smoothingFactor = 0.6
	// Background drift per second
	backgroundSpeed = 0.4
)

// Options wires the optional effects into the game.
type Options struct {
	Chime     *audio.Chime           // nil without audio
	PickSound func() (string, error) // nil disables the sound picker
	Log       *slog.Logger
}

// Game implements ebiten.Game.
type Game struct {
	core  *inferno.Core
	cfg   *config.Config
	chime *audio.Chime
	pick  func() (string, error)
	log   *slog.Logger

	fire          *Surface
	width, height int
	dt            time.Duration

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttons []button
	hovered int
	pressed int

	// viz
	time float64
	glow float64

	lastErr error
}

// New creates the game around an assembled core.
func New(cfg *config.Config, core *inferno.Core, opts Options) *Game {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Game{
		core:    core,
		cfg:     cfg,
		chime:   opts.Chime,
		pick:    opts.PickSound,
		log:     log,
		fire:    NewSurface(cfg.Window.Width, cfg.Fire.BandHeight),
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
		dt:      time.Second / time.Duration(cfg.Window.TPS),
		prevKey: map[ebiten.Key]bool{},
		buttons: buttons(),
		hovered: -1,
		pressed: -1,
	}
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	mx, my := float64(mouseX), float64(mouseY)
	band := g.cfg.Fire.BandHeight
	if mouseX < 0 || mouseY < 0 || mouseX >= g.width || mouseY >= g.height {
		g.core.Leave()
	} else {
		g.core.Move(mx, my, pointer.Rect{Top: fireOrigin(g.height, band)})
	}

	// Button click detection
	g.hovered = hitButton(g.buttons, mx, my)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pressed = g.hovered
		if g.hovered < 0 && leverRect().contains(mx, my) {
			g.do(actionPull)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.pressed >= 0 && g.pressed == g.hovered {
			g.do(g.buttons[g.pressed].action)
		}
		g.pressed = -1
	}

	if justPressed(ebiten.KeySpace) {
		g.do(actionPull)
	}
	if justPressed(ebiten.KeyR) {
		g.do(actionReset)
	}
	if justPressed(ebiten.KeyO) {
		g.do(actionSound)
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.fire.Resize(g.width, min(band, g.height))
	g.core.Frame(g.dt, g.fire)

	g.time += g.dt.Seconds()
	g.updateGlow()
	return nil
}

func (g *Game) do(a action) {
	switch a {
	case actionPull:
		if !g.core.Pull() {
			g.log.Debug("lever is busy", "state", g.core.Machine.State())
		}
	case actionReset:
		g.core.Reset()
		g.lastErr = nil
	case actionSound:
		if err := g.chooseSound(); err != nil {
			g.lastErr = err
		}
	}
}

func (g *Game) chooseSound() error {
	if g.pick == nil || g.chime == nil {
		return errors.New("sound picker unavailable")
	}
	path, err := g.pick()
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	if err := g.chime.Load(path); err != nil {
		return fmt.Errorf("loading sound: %w", err)
	}
	return nil
}

// updateGlow follows the completion sound's loudness for the note halo.
func (g *Game) updateGlow() {
	level := 0.0
	if g.chime != nil {
		level = g.chime.Level()
	}
	mag := math.Pow(level, 0.3)
	g.glow = smoothingFactor*g.glow + (1-smoothingFactor)*mag
}

func (g *Game) Draw(screen *ebiten.Image) {
	r := g.core.Readout()

	g.drawBackground(screen)
	g.drawButtons(screen)
	g.drawGoblet(screen, r)
	g.drawLever(screen, r)
	if r.NoteShown {
		g.drawNote(screen, r)
	}
	g.drawFire(screen)

	status := r.Status
	if s := g.core.Machine.Session(); s != nil && r.Climbing {
		status += "  " + formatElapsed(s.Elapsed())
	}
	status += " | Space: pull, R: reset, O: sound, Esc/Q: quit"
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	const stripe = 4
	for y := 0; y < g.height; y += stripe {
		ratio := float64(y) / float64(g.height)
		v := 0.06 + 0.04*math.Sin(g.time*backgroundSpeed+ratio*math.Pi) + 0.08*ratio
		c := hsv(8+10*ratio, 0.85, v, 255)
		vector.DrawFilledRect(screen, 0, float32(y), float32(g.width), stripe, c, false)
	}
}

func (g *Game) drawButtons(screen *ebiten.Image) {
	idle := g.core.Machine.State() == gauge.Idle
	for i, b := range g.buttons {
		var bgColor color.Color
		switch {
		case b.action == actionPull && !idle:
			bgColor = color.RGBA{R: 60, G: 40, B: 40, A: 255} // Busy
		case g.pressed == i:
			bgColor = color.RGBA{R: 120, G: 50, B: 30, A: 255} // Pressed
		case g.hovered == i:
			bgColor = color.RGBA{R: 150, G: 70, B: 40, A: 255} // Hovered
		default:
			bgColor = color.RGBA{R: 170, G: 90, B: 50, A: 255} // Normal
		}

		x, y, w, h := float32(b.r.X), float32(b.r.Y), float32(b.r.W), float32(b.r.H)
		vector.DrawFilledRect(screen, x, y, w, h, bgColor, false)
		vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{R: 220, G: 160, B: 90, A: 255}, false)

		textWidth := len(b.label) * 6 // debug font glyph width
		textX := int(b.r.X) + (int(b.r.W)-textWidth)/2
		textY := int(b.r.Y) + (int(b.r.H)-16)/2
		ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
	}
}

func (g *Game) drawGoblet(screen *ebiten.Image, r gauge.Readout) {
	cup := gobletRect()
	liquid := liquidRect(r.FillY)

	vector.DrawFilledRect(screen, float32(cup.X), float32(cup.Y), float32(cup.W), float32(cup.H), color.RGBA{R: 25, G: 10, B: 10, A: 220}, true)
	if liquid.H > 0 {
		heat := clamp01(r.Value / g.cfg.Gauge.Max)
		c := hsv(40-40*heat, 0.95, 0.6+0.4*heat, 255)
		vector.DrawFilledRect(screen, float32(liquid.X), float32(liquid.Y), float32(liquid.W), float32(liquid.H), c, true)
	}
	vector.StrokeRect(screen, float32(cup.X), float32(cup.Y), float32(cup.W), float32(cup.H), 3, color.RGBA{R: 200, G: 170, B: 90, A: 255}, true)

	// Stem and foot
	stemX := float32(cup.X + cup.W/2)
	base := float32(cup.Y + cup.H)
	vector.StrokeLine(screen, stemX, base, stemX, base+40, 6, color.RGBA{R: 200, G: 170, B: 90, A: 255}, true)
	vector.DrawFilledRect(screen, stemX-40, base+40, 80, 6, color.RGBA{R: 200, G: 170, B: 90, A: 255}, true)

	live := r.Live + " Mb/s"
	ebitenutil.DebugPrintAt(screen, live, int(cup.X+cup.W/2)-len(live)*3, int(base)+54)
}

func (g *Game) drawLever(screen *ebiten.Image, r gauge.Readout) {
	l := leverRect()
	vector.DrawFilledRect(screen, float32(l.X), float32(l.Y), float32(l.W), float32(l.H), color.RGBA{R: 70, G: 60, B: 55, A: 255}, true)

	px, py := l.X+l.W/2, l.Y+l.H/2
	ex, ey := leverEnd(r.LeverPulled)
	vector.StrokeLine(screen, float32(px), float32(py), float32(ex), float32(ey), 5, color.RGBA{R: 160, G: 150, B: 140, A: 255}, true)

	knob := color.RGBA{R: 200, G: 30, B: 20, A: 255}
	if r.LeverPulled {
		knob = color.RGBA{R: 120, G: 20, B: 15, A: 255}
	}
	vector.DrawFilledCircle(screen, float32(ex), float32(ey), 10, knob, true)
}

func (g *Game) drawNote(screen *ebiten.Image, r gauge.Readout) {
	n := noteRect()
	x, y, w, h := float32(n.X), float32(n.Y), float32(n.W), float32(n.H)

	// Halo pulses with the completion sound.
	if g.glow > 0.01 {
		halo := hsv(30, 0.9, 1, uint8(clamp01(g.glow)*200))
		pad := float32(4 + 12*g.glow)
		vector.DrawFilledRect(screen, x-pad, y-pad, w+2*pad, h+2*pad, halo, true)
	}
	vector.DrawFilledRect(screen, x, y, w, h, color.RGBA{R: 225, G: 205, B: 160, A: 255}, true)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{R: 120, G: 85, B: 40, A: 255}, true)

	ebitenutil.DebugPrintAt(screen, "FINAL SPEED", int(n.X)+16, int(n.Y)+14)
	ebitenutil.DebugPrintAt(screen, r.Final+" Mb/s", int(n.X)+16, int(n.Y)+40)
	ebitenutil.DebugPrintAt(screen, r.VerdictText, int(n.X)+16, int(n.Y)+70)
}

func (g *Game) drawFire(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, fireOrigin(g.height, g.cfg.Fire.BandHeight))
	op.Blend = ebiten.BlendLighter
	screen.DrawImage(g.fire.Image(), op)
}

// Layout follows the window so the fire band spans its full width.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
