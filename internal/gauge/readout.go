package gauge

import (
	"fmt"
	"math"
)

// Verdict is the qualitative band of a final speed.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictLow
	VerdictMid
	VerdictHigh
)

func (v Verdict) String() string {
	switch v {
	case VerdictLow:
		return "low"
	case VerdictMid:
		return "mid"
	case VerdictHigh:
		return "high"
	}
	return "none"
}

// Thresholds split finals into verdict bands: below Low is low, below High is mid.
type Thresholds struct {
	Low, High float64
}

// Classify returns the verdict band for final.
func Classify(final float64, th Thresholds) Verdict {
	switch {
	case final < th.Low:
		return VerdictLow
	case final < th.High:
		return VerdictMid
	default:
		return VerdictHigh
	}
}

// Fill maps a speed onto the liquid's vertical offset inside the goblet.
type Fill struct {
	Max   float64 // speed at which the goblet is full
	Empty float64 // offset when empty
	Full  float64 // offset when full
}

// FillOffset returns the liquid offset for value. The mapping is linear and
// saturates at Fill.Max.
func FillOffset(value float64, f Fill) float64 {
	pct := 0.0
	if f.Max > 0 {
		pct = math.Min(value/f.Max, 1)
	}
	if pct < 0 {
		pct = 0
	}
	return f.Empty - pct*(f.Empty-f.Full)
}

// Labels holds every user-facing string the machine emits.
type Labels struct {
	Ready     string
	Ascending string
	Low       string
	Mid       string
	High      string
}

// Text returns the label for a verdict.
func (l Labels) Text(v Verdict) string {
	switch v {
	case VerdictLow:
		return l.Low
	case VerdictMid:
		return l.Mid
	case VerdictHigh:
		return l.High
	}
	return ""
}

// Readout is everything a front-end needs to paint the gauge.
type Readout struct {
	Value       float64
	Live        string  // Value rounded to an integer
	FillY       float64 // liquid offset
	Final       string  // last final speed, two decimals
	Verdict     Verdict
	VerdictText string
	Status      string
	LeverPulled bool
	Climbing    bool
	NoteShown   bool
}

func formatLive(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func formatFinal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
