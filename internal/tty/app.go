package tty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/inferno/internal/clock"
	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/inferno"
	"github.com/iburimskiy/inferno/internal/pointer"
)

const (
	// Text rows above the fire band
	headerRows = 6
	barWidth   = 40
)

// App runs the core on a tcell screen.
type App struct {
	screen tcell.Screen
	core   *inferno.Core
	cfg    *config.Config
	log    *slog.Logger
	fire   *Surface

	prevButtons tcell.ButtonMask
	quit        bool
}

// New creates an App on an initialized screen.
func New(screen tcell.Screen, core *inferno.Core, cfg *config.Config, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	a := &App{
		screen: screen,
		core:   core,
		cfg:    cfg,
		log:    log,
		fire:   NewSurface(0, 0, DefaultCellWidth, DefaultCellHeight),
	}
	a.layout()
	return a
}

// Run draws a frame every period and handles input until ctx is done or the
// user quits. Quitting returns nil.
func (a *App) Run(ctx context.Context, period time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	err := clock.Loop(ctx, period, func(dt time.Duration) {
		a.drain(events)
		if a.quit {
			cancel()
			return
		}
		a.Frame(dt)
	})
	if a.quit && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) drain(events <-chan tcell.Event) {
	for {
		select {
		case ev := <-events:
			a.Handle(ev)
		default:
			return
		}
	}
}

// Handle applies one input event. It reports false once the user asked to quit.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.key(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.mouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		a.screen.Sync()
		a.layout()
	}
	return !a.quit
}

func (a *App) key(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.quit = true
		case ' ':
			a.core.Pull()
		case 'r':
			a.core.Reset()
		}
	}
}

// mouse feeds the cell centre to the tracker in virtual pixels. A fresh
// left click pulls the lever.
func (a *App) mouse(col, row int, buttons tcell.ButtonMask) {
	cw, ch := a.fire.CellSize()
	x := (float64(col) + 0.5) * cw
	y := (float64(row) + 0.5) * ch
	a.core.Move(x, y, pointer.Rect{Top: float64(a.fireTop()) * ch})

	if buttons&tcell.Button1 != 0 && a.prevButtons&tcell.Button1 == 0 {
		a.core.Pull()
	}
	a.prevButtons = buttons
}

// layout sizes the fire band to the configured height, leaving the header.
func (a *App) layout() {
	cols, rows := a.screen.Size()
	_, ch := a.fire.CellSize()
	band := int(math.Ceil(float64(a.cfg.Fire.BandHeight) / ch))
	band = max(min(band, rows-headerRows), 0)
	a.fire.Resize(cols, band)
	a.log.Debug("terminal layout", "cols", cols, "rows", rows, "band_rows", band)
}

func (a *App) fireTop() int {
	_, rows := a.screen.Size()
	_, band := a.fire.Cells()
	return rows - band
}

// Frame advances the core by dt and redraws the screen.
func (a *App) Frame(dt time.Duration) {
	a.core.Frame(dt, a.fire)

	a.screen.Clear()
	a.drawHeader()
	a.fire.Flush(a.screen, a.fireTop())
	a.screen.Show()
}

func (a *App) drawHeader() {
	r := a.core.Readout()
	title := tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 160, 60)).Bold(true)
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dim := tcell.StyleDefault.Foreground(tcell.NewRGBColor(140, 120, 110))

	a.print(1, 0, title, r.Status)
	a.print(1, 1, text, fmt.Sprintf("%6s Mb/s", r.Live))
	a.print(1, 2, text, a.bar(r.FillY))
	if r.NoteShown {
		a.print(1, 3, title, "FINAL SPEED: "+r.Final+" Mb/s")
		a.print(1, 4, text, r.VerdictText)
	}
	a.print(1, 5, dim, "space: pull  r: reset  q: quit")
}

// bar renders the goblet fill as a horizontal meter.
func (a *App) bar(fillY float64) string {
	g := a.cfg.Gauge
	frac := 0.0
	if g.EmptyY != g.FullY {
		frac = (g.EmptyY - fillY) / (g.EmptyY - g.FullY)
	}
	frac = math.Max(0, math.Min(1, frac))
	n := int(frac*barWidth + 0.5)
	return "[" + strings.Repeat("█", n) + strings.Repeat("·", barWidth-n) + "]"
}

func (a *App) print(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
