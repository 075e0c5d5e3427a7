package fire

import (
	"image/color"
	"testing"

	"github.com/iburimskiy/inferno/internal/pointer"
	"github.com/iburimskiy/inferno/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type glowCall struct {
	x, y, r      float64
	inner, outer color.NRGBA
}

type recordingSurface struct {
	w, h   float64
	clears int
	blend  Blend
	glows  []glowCall
}

func (s *recordingSurface) Size() (float64, float64) { return s.w, s.h }
func (s *recordingSurface) Clear()                   { s.clears++; s.glows = s.glows[:0] }
func (s *recordingSurface) SetBlend(b Blend)         { s.blend = b }
func (s *recordingSurface) Glow(x, y, r float64, inner, outer color.NRGBA) {
	s.glows = append(s.glows, glowCall{x, y, r, inner, outer})
}

// quiet returns a field that never spawns on its own.
func quiet() *Field {
	p := DefaultParams()
	p.Cap = 0
	return NewField(p, 800, 200, rng.Constant(0.5))
}

func TestSpawnSamplesRanges(t *testing.T) {
	src := rng.NewScripted(0.25, 0.5, 0.0, 0.75, 1.0/3)
	f := NewField(DefaultParams(), 800, 200, src)
	p := f.spawn()

	assert.Equal(t, 200.0, p.X)
	assert.Equal(t, 200.0, p.Y)
	assert.Equal(t, 20.0, p.MaxSize)
	assert.Equal(t, p.MaxSize, p.Size)
	assert.Equal(t, 1.0, p.Rise)
	assert.InDelta(t, 0.25, p.VX, 1e-12)
	assert.InDelta(t, 0.015, p.Decay, 1e-12)
	assert.Equal(t, 1.0, p.Life)
}

func TestSpawnBatchWhileUnderCap(t *testing.T) {
	f := NewField(DefaultParams(), 800, 200, rng.Constant(0))
	f.Advance(pointer.Outside())
	assert.Equal(t, 10, f.Len())
	f.Advance(pointer.Outside())
	assert.Equal(t, 20, f.Len())
}

func TestPopulationBound(t *testing.T) {
	// Slowest decay keeps every particle alive long enough to hit the cap.
	f := NewField(DefaultParams(), 800, 200, rng.Constant(0))
	maxSeen := 0
	for i := 0; i < 300; i++ {
		before := f.Len()
		f.Advance(pointer.Outside())
		if before >= 400 {
			assert.LessOrEqual(t, f.Len(), before, "spawned while at cap")
		}
		if f.Len() > maxSeen {
			maxSeen = f.Len()
		}
	}
	assert.LessOrEqual(t, maxSeen, 409)
	assert.GreaterOrEqual(t, maxSeen, 400)
}

func TestParticleDiesAfterExactLifespan(t *testing.T) {
	f := quiet()
	f.particles = append(f.particles, Particle{X: 100, Y: 200, MaxSize: 20, Size: 20, Rise: 1, Life: 1, Decay: 0.02})

	for i := 0; i < 49; i++ {
		f.Advance(pointer.Outside())
	}
	require.Equal(t, 1, f.Len())
	assert.Greater(t, f.particles[0].Life, 0.0)

	f.Advance(pointer.Outside())
	assert.Equal(t, 0, f.Len())
}

func TestIntegrationStep(t *testing.T) {
	f := quiet()
	f.particles = append(f.particles, Particle{X: 100, Y: 200, MaxSize: 20, Size: 20, Rise: 2, VX: 1, Life: 1, Decay: 0.25})
	f.Advance(pointer.Outside())

	p := f.particles[0]
	assert.Equal(t, 198.0, p.Y)
	assert.Equal(t, 101.0, p.X)
	assert.InDelta(t, 0.95, p.VX, 1e-12)
	assert.Equal(t, 0.75, p.Life)
	assert.Equal(t, 15.0, p.Size)
}

func TestCullKeepsEverySurvivor(t *testing.T) {
	f := quiet()
	// Alternate dying and surviving particles; a forward splice would skip survivors.
	for i := 0; i < 10; i++ {
		decay := 0.01
		if i%2 == 0 {
			decay = 1
		}
		f.particles = append(f.particles, Particle{X: float64(i), Y: 200, MaxSize: 10, Life: 1, Decay: decay})
	}
	f.Advance(pointer.Outside())

	require.Equal(t, 5, f.Len())
	for i, p := range f.particles {
		assert.Equal(t, float64(2*i+1), p.X)
		assert.Equal(t, 1, p.age, "survivor %d updated once", i)
	}
}

func TestPointerPushesAwayAndSteers(t *testing.T) {
	f := quiet()
	f.particles = append(f.particles,
		Particle{X: 100, Y: 150, Life: 1, Decay: 0.01}, // pointer to the right
		Particle{X: 300, Y: 150, Life: 1, Decay: 0.01}, // pointer to the left
		Particle{X: 500, Y: 150, Life: 1, Decay: 0.01}, // out of reach
	)
	ptr := pointer.State{X: 200, Y: 100, VX: 10}
	f.Advance(ptr)

	assert.InDelta(t, (-0.4+0.5)*0.95, f.particles[0].VX, 1e-12)
	assert.InDelta(t, (0.4+0.5)*0.95, f.particles[1].VX, 1e-12)
	assert.Equal(t, 0.0, f.particles[2].VX)
}

func TestPointerLeavingBandStopsInteraction(t *testing.T) {
	f := quiet()
	f.particles = append(f.particles, Particle{X: 100, Y: 150, Life: 1, Decay: 0.01})

	tr := pointer.NewTracker(200)
	f.Advance(tr.Move(120, 199, pointer.Rect{}))
	assert.NotEqual(t, 0.0, f.particles[0].VX)

	f.particles[0].VX = 0
	f.Advance(tr.Move(120, 250, pointer.Rect{}))
	assert.Equal(t, 0.0, f.particles[0].VX)
}

func TestDrawEmitsAdditiveGlows(t *testing.T) {
	f := quiet()
	f.particles = append(f.particles,
		Particle{X: 10, Y: 20, Size: 5, Life: 0.5},
		Particle{X: 30, Y: 40, Size: 0, Life: 0.01},
	)
	s := &recordingSurface{w: 800, h: 200}
	f.Draw(s)

	assert.Equal(t, 1, s.clears)
	assert.Equal(t, BlendAdditive, s.blend)
	require.Len(t, s.glows, 1)
	g := s.glows[0]
	assert.Equal(t, glowCall{10, 20, 5, color.NRGBA{R: 255, G: 100, B: 0, A: 128}, Rim}, g)
}

func TestFrameFollowsSurfaceSize(t *testing.T) {
	f := NewField(DefaultParams(), 800, 200, rng.Constant(0.5))
	s := &recordingSurface{w: 1000, h: 300}
	f.Frame(s, pointer.Outside())

	w, h := f.Size()
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 300.0, h)
	assert.Len(t, s.glows, 10)
	assert.Equal(t, 500.0, s.glows[0].x)
}
