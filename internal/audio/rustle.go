package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/inferno/internal/rng"
)

// rustle is a procedural parchment rustle: low-passed noise under a fast
// attack and exponential release, with random crackle bursts on top.
type rustle struct {
	rate     beep.SampleRate
	src      rng.Source
	duration int
	position int
	lowpass  float64
	crackle  float64
}

const (
	rustleAttack = 10 * time.Millisecond
	// envelope decay per second
	rustleRelease = 7.0
	// crackle probability per sample
	rustleBursts = 0.002
	rustleGain   = 0.6
)

// NewRustle returns a finite rustle streamer of the given duration.
func NewRustle(rate beep.SampleRate, duration time.Duration, src rng.Source) beep.Streamer {
	return &rustle{
		rate:     rate,
		src:      src,
		duration: rate.N(duration),
	}
}

func (r *rustle) Stream(samples [][2]float64) (n int, ok bool) {
	if r.position >= r.duration {
		return 0, false
	}
	attack := float64(r.rate.N(rustleAttack))
	for i := range samples {
		if r.position >= r.duration {
			return i, true
		}
		t := float64(r.position) / float64(r.rate)
		env := math.Exp(-t * rustleRelease)
		if p := float64(r.position); p < attack {
			env *= p / attack
		}

		if r.src.Float64() < rustleBursts {
			r.crackle = 1
		}
		r.crackle *= 0.995

		noise := r.src.Float64()*2 - 1
		r.lowpass += (noise - r.lowpass) * 0.35

		val := r.lowpass * env * (0.35 + 0.65*r.crackle) * rustleGain
		samples[i][0] = val
		samples[i][1] = val
		r.position++
	}
	return len(samples), true
}

func (r *rustle) Err() error { return nil }
