// Package fire simulates the rising ember field along the bottom of the page.
package fire

import (
	"github.com/iburimskiy/inferno/internal/pointer"
	"github.com/iburimskiy/inferno/internal/rng"
)

// Params tunes spawning, motion and pointer interaction.
type Params struct {
	Cap   int // no spawning at or above this population
	Batch int // particles spawned per tick while under Cap

	SizeMin, SizeSpan   float64
	RiseMin, RiseSpan   float64
	Drift               float64 // initial horizontal velocity spans [-Drift/2, Drift/2)
	DecayMin, DecaySpan float64

	Damping float64 // horizontal velocity multiplier per tick
	Radius  float64 // pointer interaction radius
	Push    float64 // velocity added away from the pointer
	Steer   float64 // fraction of pointer velocity transferred
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		Cap:       400,
		Batch:     10,
		SizeMin:   10,
		SizeSpan:  20,
		RiseMin:   1,
		RiseSpan:  1.5,
		Drift:     1,
		DecayMin:  0.01,
		DecaySpan: 0.015,
		Damping:   0.95,
		Radius:    150,
		Push:      0.4,
		Steer:     0.05,
	}
}

// Particle is one ember.
type Particle struct {
	X, Y    float64
	MaxSize float64
	Size    float64
	Rise    float64 // upward drift per tick
	VX      float64
	Life    float64
	Decay   float64

	age int
}

// Field owns the live particle population.
type Field struct {
	params    Params
	src       rng.Source
	w, h      float64
	particles []Particle
}

// NewField creates an empty field on a w×h surface.
func NewField(p Params, w, h float64, src rng.Source) *Field {
	return &Field{
		params:    p,
		src:       src,
		w:         w,
		h:         h,
		particles: make([]Particle, 0, p.Cap+p.Batch),
	}
}

// Resize updates the spawn area. Live particles keep their positions.
func (f *Field) Resize(w, h float64) {
	f.w, f.h = w, h
}

// Size returns the spawn area.
func (f *Field) Size() (w, h float64) { return f.w, f.h }

// Len returns the live population.
func (f *Field) Len() int { return len(f.particles) }

// Particles exposes the live population for inspection. Callers must not retain it.
func (f *Field) Particles() []Particle { return f.particles }

// Advance runs one simulation step: spawn, update, cull.
func (f *Field) Advance(ptr pointer.State) {
	if len(f.particles) < f.params.Cap {
		for i := 0; i < f.params.Batch; i++ {
			f.particles = append(f.particles, f.spawn())
		}
	}

	// Compact survivors in place; the write index never passes the read index.
	alive := 0
	for i := range f.particles {
		p := &f.particles[i]
		f.update(p, ptr)
		if p.Life <= 0 {
			continue
		}
		f.particles[alive] = *p
		alive++
	}
	f.particles = f.particles[:alive]
}

// Draw renders every live particle as an additive glow.
func (f *Field) Draw(s Surface) {
	s.Clear()
	s.SetBlend(BlendAdditive)
	for i := range f.particles {
		p := &f.particles[i]
		if p.Size <= 0 {
			continue
		}
		inner, outer := Palette(p.Life)
		s.Glow(p.X, p.Y, p.Size, inner, outer)
	}
}

// Frame follows surface resizes, advances one step and draws.
func (f *Field) Frame(s Surface, ptr pointer.State) {
	if w, h := s.Size(); w != f.w || h != f.h {
		f.Resize(w, h)
	}
	f.Advance(ptr)
	f.Draw(s)
}

func (f *Field) spawn() Particle {
	p := Particle{
		X:       f.src.Float64() * f.w,
		Y:       f.h,
		MaxSize: f.src.Float64()*f.params.SizeSpan + f.params.SizeMin,
		Rise:    f.src.Float64()*f.params.RiseSpan + f.params.RiseMin,
		VX:      (f.src.Float64() - 0.5) * f.params.Drift,
		Life:    1,
		Decay:   f.src.Float64()*f.params.DecaySpan + f.params.DecayMin,
	}
	p.Size = p.MaxSize
	return p
}

func (f *Field) update(p *Particle, ptr pointer.State) {
	if ptr.InBand() {
		dx := ptr.X - p.X
		if abs(dx) < f.params.Radius {
			if dx > 0 {
				p.VX -= f.params.Push
			} else {
				p.VX += f.params.Push
			}
			p.VX += ptr.VX * f.params.Steer
		}
	}

	p.Y -= p.Rise
	p.X += p.VX
	p.VX *= f.params.Damping

	// Life is recomputed from age so it lands on zero after exactly
	// ceil(1/Decay) steps instead of drifting with repeated subtraction.
	p.age++
	p.Life = 1 - float64(p.age)*p.Decay
	p.Size = p.MaxSize * p.Life
	if p.Size < 0 {
		p.Size = 0
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
