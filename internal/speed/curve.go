// Package speed generates the synthetic measurement trajectory shown on the gauge.
package speed

import (
	"math"

	"github.com/iburimskiy/inferno/internal/rng"
)

// Phase identifies a segment of the trajectory.
type Phase int

const (
	PhaseRamp   Phase = iota // convex ramp from zero up to the burst speed
	PhaseBurst               // linear correction from burst down to final
	PhaseWobble              // oscillation around final
	PhaseDone                // session over, value snapped to final
)

func (p Phase) String() string {
	switch p {
	case PhaseRamp:
		return "ramp"
	case PhaseBurst:
		return "burst"
	case PhaseWobble:
		return "wobble"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Curve holds the shape constants of the trajectory. Progress bounds are
// fractions of the session duration; WobbleFreq is in radians per millisecond.
type Curve struct {
	RampEnd      float64
	BurstEnd     float64
	RampExponent float64
	WobbleFreq   float64
	WobbleAmp    float64 // fraction of final
	Noise        float64 // peak-to-peak noise as a fraction of final
}

// DefaultCurve returns the stock trajectory.
func DefaultCurve() Curve {
	return Curve{
		RampEnd:      0.2,
		BurstEnd:     0.6,
		RampExponent: 2.5,
		WobbleFreq:   0.008,
		WobbleAmp:    0.05,
		Noise:        0.02,
	}
}

// PhaseAt maps progress in [0, 1) to its phase. Progress at or past 1 is PhaseDone.
func (c Curve) PhaseAt(progress float64) Phase {
	switch {
	case progress >= 1:
		return PhaseDone
	case progress < c.RampEnd:
		return PhaseRamp
	case progress < c.BurstEnd:
		return PhaseBurst
	default:
		return PhaseWobble
	}
}

// Shape returns the noiseless target at elapsed milliseconds into a session.
func (c Curve) Shape(elapsed, duration, burst, final float64) float64 {
	progress := elapsed / duration
	switch c.PhaseAt(progress) {
	case PhaseRamp:
		return burst * math.Pow(progress/c.RampEnd, c.RampExponent)
	case PhaseBurst:
		sub := (progress - c.RampEnd) / (c.BurstEnd - c.RampEnd)
		return burst - (burst-final)*sub
	case PhaseWobble:
		return final + math.Sin(elapsed*c.WobbleFreq)*(final*c.WobbleAmp)
	}
	return final
}

// Target is Shape plus one uniform noise sample of ±Noise/2 × final.
func (c Curve) Target(elapsed, duration, burst, final float64, src rng.Source) float64 {
	return c.Shape(elapsed, duration, burst, final) + (src.Float64()-0.5)*(final*c.Noise)
}

// Follower is the needle lag: an exponential approach toward each new target.
type Follower struct {
	Gain  float64
	Value float64
}

// Step moves Value a Gain fraction of the way to target. Value never goes negative.
func (f *Follower) Step(target float64) float64 {
	f.Value += (target - f.Value) * f.Gain
	if f.Value < 0 {
		f.Value = 0
	}
	return f.Value
}

// Snap sets Value directly.
func (f *Follower) Snap(v float64) {
	f.Value = v
}
