// Package rng provides the random sources used by the simulations.
// Every sampling site draws from a Source so tests can script exact sequences.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source yields uniform samples in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a seeded pseudo-random source. A zero seed picks one from the clock.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Scripted replays a fixed list of samples, wrapping around at the end.
type Scripted struct {
	Values []float64
	next   int
}

// NewScripted creates a Scripted source over values.
func NewScripted(values ...float64) *Scripted {
	return &Scripted{Values: values}
}

func (s *Scripted) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next]
	s.next++
	if s.next >= len(s.Values) {
		s.next = 0
	}
	return v
}

// Drawn reports how many samples have been taken since the last wrap.
func (s *Scripted) Drawn() int { return s.next }

// Constant always returns the same sample.
type Constant float64

func (c Constant) Float64() float64 { return float64(c) }
