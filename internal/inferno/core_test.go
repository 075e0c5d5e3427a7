package inferno

import (
	"image/color"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/fire"
	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/pointer"
	"github.com/iburimskiy/inferno/internal/rng"
)

type countingSurface struct {
	w, h   float64
	clears int
	glows  int
}

func (s *countingSurface) Size() (float64, float64) { return s.w, s.h }
func (s *countingSurface) Clear()                   { s.clears++; s.glows = 0 }
func (s *countingSurface) SetBlend(fire.Blend)      {}
func (s *countingSurface) Glow(x, y, r float64, inner, outer color.NRGBA) {
	s.glows++
}

type results struct{ got []gauge.Result }

func (r *results) Complete(res gauge.Result) { r.got = append(r.got, res) }

func newCore(t *testing.T, opts ...gauge.Option) *Core {
	t.Helper()
	cfg := config.Default()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, rng.New(42), log, opts...)
}

func TestFrameDrivesFireAndGauge(t *testing.T) {
	done := &results{}
	c := newCore(t, gauge.WithCompletion(done))
	s := &countingSurface{w: 800, h: 200}

	require.True(t, c.Pull())
	assert.False(t, c.Pull(), "second pull while ascending")

	frame := time.Second / 60
	for i := 0; i < 360; i++ {
		c.Frame(frame, s)
	}

	assert.Equal(t, 360, c.Frames())
	assert.Equal(t, 360, s.clears)
	assert.Greater(t, c.Field.Len(), 300)
	assert.LessOrEqual(t, c.Field.Len(), 410)
	assert.Greater(t, s.glows, 0)

	require.Len(t, done.got, 1)
	assert.Equal(t, gauge.Settled, c.Machine.State())
	assert.True(t, c.Readout().NoteShown)
	assert.Equal(t, 250, done.got[0].Ticks)
}

func TestFrameFollowsSurfaceSize(t *testing.T) {
	c := newCore(t)
	s := &countingSurface{w: 640, h: 120}
	c.Frame(time.Millisecond, s)

	w, h := c.Field.Size()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 120.0, h)
	assert.Equal(t, 120.0, c.Tracker.Band())

	st := c.Move(10, 130, pointer.Rect{Top: 0})
	assert.False(t, st.InBand())
	st = c.Move(10, 110, pointer.Rect{Top: 0})
	assert.True(t, st.InBand())

	c.Leave()
	assert.Equal(t, pointer.Outside(), c.Tracker.State())
}

func TestResetAndClose(t *testing.T) {
	c := newCore(t)
	s := &countingSurface{w: 100, h: 100}

	require.True(t, c.Pull())
	c.Frame(time.Second, s)
	assert.Equal(t, gauge.Ascending, c.Machine.State())

	c.Reset()
	assert.Equal(t, gauge.Idle, c.Machine.State())
	assert.Equal(t, "0", c.Readout().Live)
	assert.Equal(t, 0, c.Sched.Pending())

	require.True(t, c.Pull())
	c.Close()
	assert.Equal(t, 0, c.Sched.Pending())
}
