package telemetry

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/inferno/internal/clock"
	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/rng"
	"github.com/iburimskiy/inferno/internal/speed"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNewRecorderDisabled(t *testing.T) {
	r, err := NewRecorder("", nil)
	require.NoError(t, err)
	assert.Nil(t, r)

	// A nil recorder is inert.
	r.Trace(gauge.Sample{})
	r.Complete(gauge.Result{})
	assert.NoError(t, r.WriteConfig(config.Default()))
	assert.Equal(t, "", r.Dir())
	assert.NoError(t, r.Close())
}

func TestRecorderWritesSessions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "trace")
	rec, err := NewRecorder(dir, quietLogger())
	require.NoError(t, err)
	require.NoError(t, rec.WriteConfig(config.Default()))
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	sched := clock.NewScheduler()
	sched.MaxCatchUp = math.MaxInt32
	m := gauge.NewMachine(gauge.DefaultParams(), sched, rng.Constant(0.5),
		gauge.WithLogger(quietLogger()),
		gauge.WithTracer(rec),
		gauge.WithCompletion(rec))

	require.True(t, m.Pull())
	sched.Advance(5 * time.Second)
	require.Equal(t, gauge.Settled, m.State())
	sched.Advance(2 * time.Second)
	require.True(t, m.Pull())
	sched.Advance(5 * time.Second)
	require.NoError(t, rec.Close())

	trace := readLines(t, filepath.Join(dir, "trace.csv"))
	require.Len(t, trace, 1+2*250)
	assert.Equal(t, "session,tick,elapsed_ms,phase,target,display", trace[0])
	assert.True(t, strings.HasPrefix(trace[1], "1,1,20,ramp,"))
	assert.True(t, strings.HasPrefix(trace[250], "1,250,5000,done,"))
	assert.True(t, strings.HasPrefix(trace[251], "2,1,20,ramp,"))

	sessions := readLines(t, filepath.Join(dir, "sessions.csv"))
	require.Len(t, sessions, 3)
	assert.True(t, strings.HasPrefix(sessions[0], "session,final,verdict,ticks,elapsed_ms,peak"))
	assert.True(t, strings.HasPrefix(sessions[1], "1,1000,high,250,5000,"))
	assert.True(t, strings.HasPrefix(sessions[2], "2,1000,high,250,5000,"))
}

func TestRecorderDropsResetSession(t *testing.T) {
	rec, err := NewRecorder(t.TempDir(), quietLogger())
	require.NoError(t, err)
	defer rec.Close()

	rec.Trace(gauge.Sample{Session: 1, Sample: speed.Sample{Tick: 1}})
	rec.Trace(gauge.Sample{Session: 2, Sample: speed.Sample{Tick: 1}})
	rec.Trace(gauge.Sample{Session: 2, Sample: speed.Sample{Tick: 2}})
	require.Len(t, rec.pending, 2)
	assert.Equal(t, 2, rec.pending[0].Session)
}

func TestSummarize(t *testing.T) {
	res := gauge.Result{Session: 3, Final: 800, Verdict: gauge.VerdictMid, Ticks: 5, Elapsed: 100 * time.Millisecond}
	rows := []TraceRow{
		{Phase: "ramp", Display: 100},
		{Phase: "burst", Display: 900},
		{Phase: "wobble", Display: 790},
		{Phase: "wobble", Display: 810},
		{Phase: "done", Display: 800},
	}
	s := Summarize(res, rows)

	assert.Equal(t, 3, s.Session)
	assert.Equal(t, "mid", s.Verdict)
	assert.Equal(t, int64(100), s.ElapsedMS)
	assert.Equal(t, 900.0, s.Peak)
	assert.Equal(t, 100.0, s.Overshoot)
	assert.InDelta(t, 800, s.WobbleMean, 1e-9)
	assert.InDelta(t, math.Sqrt(200), s.WobbleStd, 1e-9)
}

func TestSummarizeWithoutRows(t *testing.T) {
	s := Summarize(gauge.Result{Session: 1, Final: 500}, nil)
	assert.Equal(t, 0.0, s.Peak)
	assert.Equal(t, 0.0, s.WobbleStd)
}
