package speed

import (
	"math"
	"time"

	"github.com/iburimskiy/inferno/internal/rng"
)

// Params configures a measurement session.
type Params struct {
	Duration    time.Duration
	Tick        time.Duration
	MinFinal    float64
	SpanFinal   float64
	BurstFactor float64
	FollowGain  float64
	Curve       Curve
}

// DefaultParams returns the stock session: 5s at 20ms ticks, finals in [300, 1700).
func DefaultParams() Params {
	return Params{
		Duration:    5 * time.Second,
		Tick:        20 * time.Millisecond,
		MinFinal:    300,
		SpanFinal:   1400,
		BurstFactor: 1.15,
		FollowGain:  0.15,
		Curve:       DefaultCurve(),
	}
}

// SampleFinal draws an integral final speed in [min, min+span).
func SampleFinal(src rng.Source, min, span float64) float64 {
	return math.Floor(src.Float64()*span) + min
}

// Sample is the outcome of one session tick.
type Sample struct {
	Tick    int
	Elapsed time.Duration
	Phase   Phase
	Target  float64
	Display float64
}

// Session is one run from zero to the final speed.
type Session struct {
	Final float64
	Burst float64

	params   Params
	src      rng.Source
	follower Follower
	elapsed  time.Duration
	ticks    int
	done     bool
}

// NewSession samples the final speed and starts at zero.
func NewSession(p Params, src rng.Source) *Session {
	final := SampleFinal(src, p.MinFinal, p.SpanFinal)
	return &Session{
		Final:    final,
		Burst:    final * p.BurstFactor,
		params:   p,
		src:      src,
		follower: Follower{Gain: p.FollowGain},
	}
}

// Step advances one tick. Once elapsed reaches the duration the display value
// is snapped to Final and done is reported; further calls repeat that sample.
func (s *Session) Step() (Sample, bool) {
	if s.done {
		return s.finalSample(), true
	}
	s.elapsed += s.params.Tick
	s.ticks++

	if s.elapsed >= s.params.Duration {
		s.done = true
		s.follower.Snap(s.Final)
		return s.finalSample(), true
	}

	ms := millis(s.elapsed)
	target := s.params.Curve.Target(ms, millis(s.params.Duration), s.Burst, s.Final, s.src)
	display := s.follower.Step(target)
	return Sample{
		Tick:    s.ticks,
		Elapsed: s.elapsed,
		Phase:   s.params.Curve.PhaseAt(ms / millis(s.params.Duration)),
		Target:  target,
		Display: display,
	}, false
}

func (s *Session) finalSample() Sample {
	return Sample{
		Tick:    s.ticks,
		Elapsed: s.elapsed,
		Phase:   PhaseDone,
		Target:  s.Final,
		Display: s.Final,
	}
}

// Display returns the current needle value.
func (s *Session) Display() float64 { return s.follower.Value }

// Elapsed returns the simulated time since the session started.
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// Progress returns elapsed/duration, capped at 1.
func (s *Session) Progress() float64 {
	p := float64(s.elapsed) / float64(s.params.Duration)
	if p > 1 {
		return 1
	}
	return p
}

// Done reports whether the session has reached its final value.
func (s *Session) Done() bool { return s.done }

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
