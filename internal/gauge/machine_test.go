package gauge

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/inferno/internal/clock"
	"github.com/iburimskiy/inferno/internal/rng"
	"github.com/iburimskiy/inferno/internal/speed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completions struct{ got []Result }

func (c *completions) Complete(r Result) { c.got = append(c.got, r) }

type tracer struct{ got []Sample }

func (t *tracer) Trace(s Sample) { t.got = append(t.got, s) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMachine(src rng.Source, opts ...Option) (*Machine, *clock.Scheduler) {
	sched := clock.NewScheduler()
	sched.MaxCatchUp = math.MaxInt32
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewMachine(DefaultParams(), sched, src, opts...), sched
}

func TestInitialReadout(t *testing.T) {
	m, _ := newTestMachine(rng.Constant(0.5))
	r := m.Readout()

	assert.Equal(t, Idle, m.State())
	assert.Equal(t, "0", r.Live)
	assert.Equal(t, "0.00", r.Final)
	assert.Equal(t, 150.0, r.FillY)
	assert.Equal(t, "Ready to Climb", r.Status)
	assert.False(t, r.LeverPulled)
	assert.Nil(t, m.Session())
}

func TestPullStartsSession(t *testing.T) {
	m, sched := newTestMachine(rng.Constant(0.5))
	require.True(t, m.Pull())

	r := m.Readout()
	assert.Equal(t, Ascending, m.State())
	assert.Equal(t, "ASCENDING...", r.Status)
	assert.True(t, r.LeverPulled)
	assert.True(t, r.Climbing)
	assert.False(t, r.NoteShown)
	assert.Equal(t, 1000.0, m.Session().Final)
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(100 * time.Millisecond)
	assert.Greater(t, m.Value(), 0.0)
	assert.Less(t, m.Readout().FillY, 150.0)
}

func TestPullWhileAscendingIsIgnored(t *testing.T) {
	src := rng.NewScripted(0.5, 0.1, 0.9)
	m, sched := newTestMachine(src)
	require.True(t, m.Pull())
	sess := m.Session()
	final := sess.Final

	sched.Advance(200 * time.Millisecond)
	assert.False(t, m.Pull())
	assert.Same(t, sess, m.Session())
	assert.Equal(t, final, m.Session().Final)
	assert.Equal(t, 1, sched.Pending(), "no second ticker")
}

func TestSessionSettlesOnFinal(t *testing.T) {
	done := &completions{}
	tr := &tracer{}
	m, sched := newTestMachine(rng.New(5), WithCompletion(done), WithTracer(tr))
	require.True(t, m.Pull())
	final := m.Session().Final

	sched.Advance(4980 * time.Millisecond)
	require.Equal(t, Ascending, m.State())

	sched.Advance(20 * time.Millisecond)
	require.Equal(t, Settled, m.State())

	r := m.Readout()
	assert.Equal(t, final, m.Value())
	assert.Equal(t, formatFinal(final), r.Final)
	assert.Equal(t, FillOffset(final, DefaultParams().Fill), r.FillY)
	assert.False(t, r.Climbing)
	assert.True(t, r.NoteShown)
	assert.True(t, r.LeverPulled)
	assert.Equal(t, "ASCENDING...", r.Status)

	require.Len(t, done.got, 1)
	assert.Equal(t, final, done.got[0].Final)
	assert.Equal(t, 250, done.got[0].Ticks)
	assert.Equal(t, 5*time.Second, done.got[0].Elapsed)
	assert.Equal(t, Classify(final, DefaultParams().Thresholds), done.got[0].Verdict)

	require.Len(t, tr.got, 250)
	assert.Equal(t, speed.PhaseDone, tr.got[249].Phase)
	for _, s := range tr.got {
		assert.GreaterOrEqual(t, s.Display, 0.0)
		assert.Equal(t, 1, s.Session)
	}

	// No ticking during the cooldown.
	sched.Advance(time.Second)
	assert.Equal(t, final, m.Value())
	assert.Len(t, tr.got, 250)
}

func TestCooldownReturnsToIdle(t *testing.T) {
	m, sched := newTestMachine(rng.Constant(0.1))
	m.Pull()
	sched.Advance(5 * time.Second)
	require.Equal(t, Settled, m.State())

	assert.False(t, m.Pull(), "lever stays down while settled")

	sched.Advance(1999 * time.Millisecond)
	assert.Equal(t, Settled, m.State())
	sched.Advance(time.Millisecond)
	assert.Equal(t, Idle, m.State())

	r := m.Readout()
	assert.Equal(t, "Ready to Climb", r.Status)
	assert.False(t, r.LeverPulled)
	assert.True(t, r.NoteShown, "verdict persists until the next pull")
	assert.Equal(t, VerdictLow, r.Verdict)
	assert.Equal(t, "A torture for the soul.", r.VerdictText)
	assert.Equal(t, "440.00", r.Final)

	require.True(t, m.Pull())
	assert.False(t, m.Readout().NoteShown)
}

func TestResetFromEveryState(t *testing.T) {
	type setup func(m *Machine, s *clock.Scheduler)
	cases := map[string]setup{
		"idle": func(m *Machine, s *clock.Scheduler) {},
		"ascending": func(m *Machine, s *clock.Scheduler) {
			m.Pull()
			s.Advance(time.Second)
		},
		"settled": func(m *Machine, s *clock.Scheduler) {
			m.Pull()
			s.Advance(5 * time.Second)
		},
	}
	for name, prepare := range cases {
		t.Run(name, func(t *testing.T) {
			m, sched := newTestMachine(rng.Constant(0.7))
			prepare(m, sched)

			m.Reset()
			assert.Equal(t, Idle, m.State())
			assert.Equal(t, 0.0, m.Value())
			assert.Equal(t, 0, sched.Pending())
			assert.Nil(t, m.Session())

			r := m.Readout()
			assert.Equal(t, "0", r.Live)
			assert.Equal(t, "0.00", r.Final)
			assert.Equal(t, 150.0, r.FillY)
			assert.Equal(t, "Ready to Climb", r.Status)
			assert.Equal(t, VerdictNone, r.Verdict)
			assert.False(t, r.NoteShown)
			assert.False(t, r.LeverPulled)

			sched.Advance(10 * time.Second)
			assert.Equal(t, 0.0, m.Value())
			assert.Equal(t, Idle, m.State())
		})
	}
}

func TestResetThenPullStartsFresh(t *testing.T) {
	done := &completions{}
	m, sched := newTestMachine(rng.Constant(0.5), WithCompletion(done))
	m.Pull()
	sched.Advance(2 * time.Second)
	m.Reset()

	require.True(t, m.Pull())
	assert.Equal(t, time.Duration(0), m.Session().Elapsed())
	sched.Advance(5 * time.Second)
	require.Len(t, done.got, 1)
	assert.Equal(t, 2, done.got[0].Session)
}

func TestClassify(t *testing.T) {
	th := DefaultParams().Thresholds
	cases := []struct {
		final float64
		want  Verdict
	}{
		{300, VerdictLow},
		{499, VerdictLow},
		{500, VerdictMid},
		{999, VerdictMid},
		{1000, VerdictHigh},
		{1699, VerdictHigh},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.final, th), "final %v", c.final)
	}
}

func TestVerdictLabels(t *testing.T) {
	l := DefaultParams().Labels
	assert.Equal(t, "A torture for the soul.", l.Text(Classify(499, DefaultParams().Thresholds)))
	assert.Equal(t, "Acceptable suffering.", l.Text(VerdictMid))
	assert.Equal(t, "UNHOLY VELOCITY!", l.Text(VerdictHigh))
	assert.Equal(t, "", l.Text(VerdictNone))
	assert.Equal(t, "high", VerdictHigh.String())
}

func TestFillOffset(t *testing.T) {
	f := DefaultParams().Fill
	assert.Equal(t, 150.0, FillOffset(0, f))
	assert.Equal(t, 80.0, FillOffset(1000, f))
	assert.Equal(t, 10.0, FillOffset(2000, f))
	assert.Equal(t, 10.0, FillOffset(5000, f))
	assert.Equal(t, 150.0, FillOffset(-5, f))
}
