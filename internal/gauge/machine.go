// Package gauge runs the lever-triggered speed measurement: it owns the single
// active session, ticks it on a fixed period and publishes a Readout.
package gauge

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/inferno/internal/clock"
	"github.com/iburimskiy/inferno/internal/rng"
	"github.com/iburimskiy/inferno/internal/speed"
)

// State is the machine's high-level state.
type State int

const (
	Idle State = iota
	Ascending
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ascending:
		return "ascending"
	case Settled:
		return "settled"
	}
	return "unknown"
}

// Params configures the machine.
type Params struct {
	Session    speed.Params
	Cooldown   time.Duration
	Thresholds Thresholds
	Fill       Fill
	Labels     Labels
}

// DefaultParams returns the stock gauge.
func DefaultParams() Params {
	return Params{
		Session:    speed.DefaultParams(),
		Cooldown:   2 * time.Second,
		Thresholds: Thresholds{Low: 500, High: 1000},
		Fill:       Fill{Max: 2000, Empty: 150, Full: 10},
		Labels: Labels{
			Ready:     "Ready to Climb",
			Ascending: "ASCENDING...",
			Low:       "A torture for the soul.",
			Mid:       "Acceptable suffering.",
			High:      "UNHOLY VELOCITY!",
		},
	}
}

// Sample is one traced session tick.
type Sample struct {
	Session int
	speed.Sample
}

// Result describes a finished session.
type Result struct {
	Session     int
	Final       float64
	Verdict     Verdict
	VerdictText string
	Ticks       int
	Elapsed     time.Duration
}

// Completion receives the one-shot effect when a session settles.
type Completion interface {
	Complete(Result)
}

// Tracer receives every session tick.
type Tracer interface {
	Trace(Sample)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the machine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// WithCompletion adds completion effects, fired in order.
func WithCompletion(c ...Completion) Option {
	return func(m *Machine) { m.completions = append(m.completions, c...) }
}

// WithTracer sets the per-tick tracer.
func WithTracer(t Tracer) Option {
	return func(m *Machine) { m.tracer = t }
}

// Machine is the gauge state machine. It is not safe for concurrent use; all
// calls and scheduled ticks must come from the same goroutine.
type Machine struct {
	params Params
	timer  clock.Timer
	src    rng.Source
	log    *slog.Logger

	completions []Completion
	tracer      Tracer

	state    State
	session  *speed.Session
	sessions int
	ticker   *clock.Task
	cooldown *clock.Task
	readout  Readout
}

// NewMachine creates an idle machine.
func NewMachine(p Params, timer clock.Timer, src rng.Source, opts ...Option) *Machine {
	m := &Machine{
		params: p,
		timer:  timer,
		src:    src,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	m.readout = m.emptyReadout()
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Readout returns a copy of the current presentation state.
func (m *Machine) Readout() Readout { return m.readout }

// Session returns the active or most recent session, nil after a reset.
func (m *Machine) Session() *speed.Session { return m.session }

// Value returns the displayed speed.
func (m *Machine) Value() float64 { return m.readout.Value }

// Pull starts a session. It reports false and changes nothing unless the
// machine is idle.
func (m *Machine) Pull() bool {
	if m.state != Idle {
		m.log.Debug("pull ignored", "state", m.state)
		return false
	}
	m.cancel()

	m.sessions++
	m.session = speed.NewSession(m.params.Session, m.src)
	m.state = Ascending

	m.readout.NoteShown = false
	m.readout.LeverPulled = true
	m.readout.Climbing = true
	m.readout.Status = m.params.Labels.Ascending
	m.show(0)

	m.ticker = m.timer.Every(m.params.Session.Tick, m.tick)
	m.log.Info("session started",
		"session", m.sessions,
		"final", m.session.Final,
		"burst", m.session.Burst)
	return true
}

// Reset cancels any session or cooldown and clears the display.
func (m *Machine) Reset() {
	m.cancel()
	prev := m.state
	m.state = Idle
	m.session = nil
	m.readout = m.emptyReadout()
	m.log.Info("gauge reset", "from", prev)
}

func (m *Machine) tick() {
	if m.state != Ascending || m.session == nil {
		return
	}
	sample, done := m.session.Step()
	if m.tracer != nil {
		m.tracer.Trace(Sample{Session: m.sessions, Sample: sample})
	}
	if done {
		m.settle()
		return
	}
	m.show(sample.Display)
}

func (m *Machine) settle() {
	ticks := m.ticker.Fired()
	m.ticker.Stop()
	m.ticker = nil
	m.state = Settled

	final := m.session.Final
	verdict := Classify(final, m.params.Thresholds)
	m.show(final)
	m.readout.Final = formatFinal(final)
	m.readout.Verdict = verdict
	m.readout.VerdictText = m.params.Labels.Text(verdict)
	m.readout.Climbing = false
	m.readout.NoteShown = true

	res := Result{
		Session:     m.sessions,
		Final:       final,
		Verdict:     verdict,
		VerdictText: m.readout.VerdictText,
		Ticks:       ticks,
		Elapsed:     m.session.Elapsed(),
	}
	m.log.Info("session settled",
		"session", res.Session,
		"final", res.Final,
		"verdict", verdict)
	for _, c := range m.completions {
		c.Complete(res)
	}

	m.cooldown = m.timer.After(m.params.Cooldown, m.cool)
}

func (m *Machine) cool() {
	if m.state != Settled {
		return
	}
	m.cooldown = nil
	m.state = Idle
	m.readout.LeverPulled = false
	m.readout.Status = m.params.Labels.Ready
	m.log.Debug("cooldown finished")
}

// show routes a value to the live text and the liquid level.
func (m *Machine) show(v float64) {
	m.readout.Value = v
	m.readout.Live = formatLive(v)
	m.readout.FillY = FillOffset(v, m.params.Fill)
}

func (m *Machine) cancel() {
	m.ticker.Stop()
	m.ticker = nil
	m.cooldown.Stop()
	m.cooldown = nil
}

func (m *Machine) emptyReadout() Readout {
	return Readout{
		Live:   formatLive(0),
		FillY:  FillOffset(0, m.params.Fill),
		Final:  formatFinal(0),
		Status: m.params.Labels.Ready,
	}
}
