// Package inferno assembles the fire field, the pointer tracker and the gauge
// on one scheduler. Front-ends own a Core and call Frame once per render frame.
package inferno

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/inferno/internal/clock"
	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/fire"
	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/pointer"
	"github.com/iburimskiy/inferno/internal/rng"
)

// Core is the front-end independent simulation. It is not safe for
// concurrent use.
type Core struct {
	Sched   *clock.Scheduler
	Tracker *pointer.Tracker
	Field   *fire.Field
	Machine *gauge.Machine

	log    *slog.Logger
	frames int
}

// New builds a Core from cfg. The fire field starts at the window width and
// the configured band height; Frame resizes it to the real surface.
func New(cfg *config.Config, src rng.Source, log *slog.Logger, opts ...gauge.Option) *Core {
	if log == nil {
		log = slog.Default()
	}
	sched := clock.NewScheduler()
	sched.MaxCatchUp = cfg.Speed.MaxCatchUp

	band := float64(cfg.Fire.BandHeight)
	opts = append([]gauge.Option{gauge.WithLogger(log)}, opts...)
	return &Core{
		Sched:   sched,
		Tracker: pointer.NewTracker(band),
		Field:   fire.NewField(cfg.FireParams(), float64(cfg.Window.Width), band, src),
		Machine: gauge.NewMachine(cfg.GaugeParams(), sched, src, opts...),
		log:     log,
	}
}

// Frame runs the timers due within dt, then steps the fire once and draws it
// on s. The pointer band follows the surface height.
func (c *Core) Frame(dt time.Duration, s fire.Surface) {
	c.Sched.Advance(dt)
	if _, h := s.Size(); h != c.Tracker.Band() {
		c.log.Debug("fire surface resized", "height", h)
		c.Tracker.SetBand(h)
	}
	c.Field.Frame(s, c.Tracker.State())
	c.frames++
}

// Frames returns how many frames have run.
func (c *Core) Frames() int { return c.frames }

// Move feeds a pointer move in window coordinates; r is the fire surface origin.
func (c *Core) Move(x, y float64, r pointer.Rect) pointer.State {
	return c.Tracker.Move(x, y, r)
}

// Leave marks the pointer as gone.
func (c *Core) Leave() { c.Tracker.Leave() }

// Pull triggers a session; false when one is running or cooling down.
func (c *Core) Pull() bool { return c.Machine.Pull() }

// Reset cancels the session and clears the gauge.
func (c *Core) Reset() { c.Machine.Reset() }

// Readout returns the gauge presentation state.
func (c *Core) Readout() gauge.Readout { return c.Machine.Readout() }

// Close cancels every pending timer.
func (c *Core) Close() { c.Sched.StopAll() }
